package handler

import (
	"time"

	"github.com/edd1080/project-olympo-sub002/internal/investigation/completion"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
)

// InvestigationResponse is the full record view every mutation returns, so
// the client can replace its local copy wholesale.
type InvestigationResponse struct {
	ApplicationID string              `json:"application_id"`
	State         string              `json:"state"`
	Declared      models.DeclaredData `json:"declared"`
	Observed      models.ObservedData `json:"observed"`
	Differences   []models.Difference `json:"differences"`
	Evidence      models.Evidence     `json:"evidence"`
	Photometry    models.Photometry   `json:"photometry"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// FromInvestigation converts the domain record to its HTTP view.
func FromInvestigation(record *models.Investigation) *InvestigationResponse {
	differences := record.Differences
	if differences == nil {
		differences = []models.Difference{}
	}
	observed := record.Observed
	if observed == nil {
		observed = models.ObservedData{}
	}
	return &InvestigationResponse{
		ApplicationID: record.ApplicationID.String(),
		State:         string(record.State),
		Declared:      record.Declared,
		Observed:      observed,
		Differences:   differences,
		Evidence:      record.Evidence,
		Photometry:    record.Photometry,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}

// ValidationResponse is the HTTP view of the completion gate.
type ValidationResponse struct {
	IsValid        bool     `json:"is_valid"`
	BlockedReasons []string `json:"blocked_reasons"`
	Warnings       []string `json:"warnings"`
}

// FromValidation converts a gate result to its HTTP view.
func FromValidation(result models.ValidationResult) *ValidationResponse {
	return &ValidationResponse{
		IsValid:        result.IsValid,
		BlockedReasons: result.BlockedReasons,
		Warnings:       result.Warnings,
	}
}

// ProgressResponse is the HTTP view of section progress.
type ProgressResponse struct {
	Sections []completion.SectionProgress `json:"sections"`
	Percent  float64                      `json:"percent"`
}

// FromProgress converts the progress view.
func FromProgress(progress completion.Progress) *ProgressResponse {
	return &ProgressResponse{Sections: progress.Sections, Percent: progress.Percent}
}
