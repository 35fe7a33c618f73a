package models

// ValidationResult is the completion gate verdict. Ephemeral: recomputed on
// demand and never persisted. BlockedReasons are rendered to the
// investigator as an actionable checklist; warnings never block finishing.
type ValidationResult struct {
	IsValid        bool     `json:"is_valid"`
	BlockedReasons []string `json:"blocked_reasons"`
	Warnings       []string `json:"warnings"`
}
