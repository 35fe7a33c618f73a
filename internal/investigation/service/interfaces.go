package service

import (
	"context"

	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// RecordStore is the persistence boundary for investigation records.
// Implementations are last-write-wins keyed by application id; there is no
// merge. Find returns sentinel.ErrNotFound for absent records and
// sentinel.ErrCorrupt for undecodable payloads.
type RecordStore interface {
	Save(ctx context.Context, record *models.Investigation) error
	Find(ctx context.Context, applicationID id.ApplicationID) (*models.Investigation, error)
}

// CompletedPublisher receives investigations the moment they reach their
// terminal state, for hand-off to the authorization workflow. Implemented by
// the offline sync outbox; a nil publisher disables hand-off.
type CompletedPublisher interface {
	PublishCompleted(ctx context.Context, record *models.Investigation) error
}
