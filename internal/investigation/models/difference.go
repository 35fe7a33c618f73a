package models

import "strings"

// Severity grades a detected difference. The detector only assigns
// SeverityMedium today; the enum stays open for threshold-based grading
// without changing the persisted shape.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Difference records one field where observed disagrees with declared beyond
// threshold. At most one Difference exists per field key; re-detection
// replaces values in place and preserves any comment already entered.
type Difference struct {
	Field       FieldKey   `json:"field"`
	Declared    FieldValue `json:"declared_value"`
	Observed    FieldValue `json:"observed_value"`
	Delta       float64    `json:"delta"`
	Severity    Severity   `json:"severity"`
	Comment     string     `json:"comment"`
	EvidenceRef string     `json:"evidence_ref,omitempty"`
}

// HasComment reports whether an explanatory comment has been entered.
// Whitespace-only comments do not count.
func (d Difference) HasComment() bool {
	return strings.TrimSpace(d.Comment) != ""
}
