// Package store persists investigation records. A record is stored as one
// opaque JSON document keyed by application id: the engine treats the
// in-memory record as authoritative, so the store never needs to query
// inside the payload.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
	"github.com/edd1080/project-olympo-sub002/pkg/platform/sentinel"
)

// encodeRecord serializes a record for storage.
func encodeRecord(record *models.Investigation) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("record is required")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode investigation: %w", err)
	}
	return payload, nil
}

// decodeRecord deserializes a stored payload. Undecodable payloads surface
// sentinel.ErrCorrupt so callers can treat the record as absent instead of
// failing the session.
func decodeRecord(payload []byte) (*models.Investigation, error) {
	var record models.Investigation
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("%w: decode investigation: %v", sentinel.ErrCorrupt, err)
	}
	if record.ApplicationID == "" {
		return nil, fmt.Errorf("%w: decoded investigation has no application id", sentinel.ErrCorrupt)
	}
	return &record, nil
}
