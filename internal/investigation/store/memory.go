package store

import (
	"context"
	"sync"

	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
	"github.com/edd1080/project-olympo-sub002/pkg/platform/sentinel"
)

// InMemory keeps records in a process-local map. Suitable for tests and
// single-instance development; production deployments use Redis or Postgres.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.ApplicationID][]byte
}

// NewInMemory constructs an empty in-memory record store.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.ApplicationID][]byte)}
}

// Save stores the record, replacing any prior version. Last write wins.
func (s *InMemory) Save(_ context.Context, record *models.Investigation) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ApplicationID] = payload
	return nil
}

// Find loads a record by application id.
func (s *InMemory) Find(_ context.Context, applicationID id.ApplicationID) (*models.Investigation, error) {
	s.mu.RLock()
	payload, ok := s.records[applicationID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return decodeRecord(payload)
}

// Corrupt overwrites a stored payload with garbage. Test hook for the
// corrupt-record recovery path.
func (s *InMemory) Corrupt(applicationID id.ApplicationID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[applicationID] = []byte("{not json")
}
