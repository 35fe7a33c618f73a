// Package completion is the finish gate: it decides whether an investigation
// record is complete enough to hand to the authorization workflow, and
// computes the non-gating section progress shown on dashboards.
package completion

import "github.com/edd1080/project-olympo-sub002/internal/investigation/models"

// Blocking reasons and warnings, rendered verbatim to the investigator.
const (
	ReasonGeoPending      = "Geolocation pending or out of range."
	ReasonMissingPhotos   = "Missing business or applicant photo."
	ReasonMissingComments = "There are discrepancies without an explanatory comment."
	WarningManyDiffs      = "Many discrepancies found"
)

// manyDifferences is the advisory count above which the gate warns. Warnings
// never block finishing.
const manyDifferences = 3

// Validate evaluates the completion gate. Pure and side-effect free; the UI
// polls it to enable the finish action and Finish runs it again before
// committing. Nothing else is mechanically enforced here: observed-field
// completeness is a progress concern, not a gate.
func Validate(inv *models.Investigation) models.ValidationResult {
	result := models.ValidationResult{
		BlockedReasons: []string{},
		Warnings:       []string{},
	}

	if !inv.Photometry.GeoOK {
		result.BlockedReasons = append(result.BlockedReasons, ReasonGeoPending)
	}
	if inv.Evidence.BusinessPhoto == nil || inv.Evidence.ApplicantPhoto == nil {
		result.BlockedReasons = append(result.BlockedReasons, ReasonMissingPhotos)
	}
	for _, diff := range inv.Differences {
		if !diff.HasComment() {
			result.BlockedReasons = append(result.BlockedReasons, ReasonMissingComments)
			break
		}
	}

	if len(inv.Differences) > manyDifferences {
		result.Warnings = append(result.Warnings, WarningManyDiffs)
	}

	result.IsValid = len(result.BlockedReasons) == 0
	return result
}

// SectionProgress is the completion state of one investigation section.
type SectionProgress struct {
	Name     string `json:"name"`
	Complete bool   `json:"complete"`
}

// Progress is the non-blocking "6 sections" indicator. It is a view computed
// from the record; an incomplete section never blocks finishing.
type Progress struct {
	Sections []SectionProgress `json:"sections"`
	Percent  float64           `json:"percent"`
}

// sections maps each progress section to the observed fields that complete
// it. The evidence section is keyed on photo presence instead.
var sections = []struct {
	name   string
	fields []models.FieldKey
}{
	{"identity", []models.FieldKey{models.FieldFullName, models.FieldNationalID, models.FieldPhones}},
	{"economic_activity", []models.FieldKey{models.FieldBusinessActive, models.FieldProducts}},
	{"income_expenses", []models.FieldKey{models.FieldIncome, models.FieldExpenses}},
	{"credit_terms", []models.FieldKey{models.FieldCreditType, models.FieldAmount, models.FieldInstallment, models.FieldTermMonths}},
	{"guarantors", []models.FieldKey{models.FieldGuarantors}},
	{"evidence", nil},
}

// ComputeProgress derives the section view from observed fields and evidence.
func ComputeProgress(inv *models.Investigation) Progress {
	progress := Progress{Sections: make([]SectionProgress, 0, len(sections))}
	complete := 0
	for _, section := range sections {
		done := true
		if section.fields == nil {
			done = inv.Evidence.BusinessPhoto != nil && inv.Evidence.ApplicantPhoto != nil
		} else {
			for _, field := range section.fields {
				if _, ok := inv.Observed[field]; !ok {
					done = false
					break
				}
			}
		}
		if done {
			complete++
		}
		progress.Sections = append(progress.Sections, SectionProgress{Name: section.name, Complete: done})
	}
	progress.Percent = float64(complete) / float64(len(sections)) * 100
	return progress
}
