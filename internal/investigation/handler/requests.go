package handler

import (
	"strings"
	"time"

	"github.com/edd1080/project-olympo-sub002/internal/geo"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
	dErrors "github.com/edd1080/project-olympo-sub002/pkg/domain-errors"
)

// CreateRequest is the HTTP request body for POST /investigations.
type CreateRequest struct {
	ApplicationID string              `json:"application_id"`
	Declared      models.DeclaredData `json:"declared"`
}

// Validate checks the request shape; declared-content validation happens in
// the domain.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.ApplicationID) == "" {
		return dErrors.New(dErrors.CodeValidation, "application_id is required")
	}
	return nil
}

// ObservedRequest is the HTTP request body for PATCH
// /investigations/{applicationID}/observed. Value is the raw JSON shape of
// the field (number, string, boolean or string list); CoerceValue types it.
type ObservedRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// ParsedValue validates the field key and coerces the value.
func (r *ObservedRequest) ParsedValue() (models.FieldKey, models.FieldValue, error) {
	field, err := models.ParseFieldKey(strings.TrimSpace(r.Field))
	if err != nil {
		return "", models.FieldValue{}, err
	}
	value, err := models.CoerceValue(field, r.Value)
	if err != nil {
		return "", models.FieldValue{}, err
	}
	return field, value, nil
}

// DifferenceRequest is the HTTP request body for POST
// /investigations/{applicationID}/differences. It records an externally
// detected difference (for example a failed guarantor match) directly.
type DifferenceRequest struct {
	Field    string            `json:"field"`
	Declared models.FieldValue `json:"declared_value"`
	Observed models.FieldValue `json:"observed_value"`
	Delta    float64           `json:"delta,omitempty"`
	Comment  string            `json:"comment,omitempty"`
}

// ToDifference validates and converts to the domain type.
func (r *DifferenceRequest) ToDifference() (models.Difference, error) {
	field, err := models.ParseFieldKey(strings.TrimSpace(r.Field))
	if err != nil {
		return models.Difference{}, err
	}
	return models.Difference{
		Field:    field,
		Declared: r.Declared,
		Observed: r.Observed,
		Delta:    r.Delta,
		Severity: models.SeverityMedium,
		Comment:  strings.TrimSpace(r.Comment),
	}, nil
}

// CommentRequest is the HTTP request body for PUT
// /investigations/{applicationID}/differences/{field}/comment.
type CommentRequest struct {
	Comment string `json:"comment"`
}

// Validate requires a non-blank comment; clearing a comment is not a
// supported operation.
func (r *CommentRequest) Validate() error {
	if strings.TrimSpace(r.Comment) == "" {
		return dErrors.New(dErrors.CodeValidation, "comment is required")
	}
	return nil
}

// PhotoRequest is the HTTP request body for POST
// /investigations/{applicationID}/photos/{slot}. Geotag is optional: capture
// proceeds even when the device could not acquire a fix.
type PhotoRequest struct {
	URL       string        `json:"url"`
	Geotag    *GeotagRecord `json:"geotag,omitempty"`
	Timestamp time.Time     `json:"timestamp,omitempty"`
}

// GeotagRecord is the wire form of a capture coordinate.
type GeotagRecord struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// Validate checks the request shape.
func (r *PhotoRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return dErrors.New(dErrors.CodeValidation, "url is required")
	}
	if r.Geotag != nil {
		if r.Geotag.Latitude < -90 || r.Geotag.Latitude > 90 {
			return dErrors.New(dErrors.CodeValidation, "geotag latitude out of range")
		}
		if r.Geotag.Longitude < -180 || r.Geotag.Longitude > 180 {
			return dErrors.New(dErrors.CodeValidation, "geotag longitude out of range")
		}
	}
	return nil
}

// Coordinate converts the wire geotag to the domain type.
func (r *PhotoRequest) Coordinate() *geo.Coordinate {
	if r.Geotag == nil {
		return nil
	}
	return &geo.Coordinate{
		Latitude:  r.Geotag.Latitude,
		Longitude: r.Geotag.Longitude,
		Accuracy:  r.Geotag.Accuracy,
	}
}
