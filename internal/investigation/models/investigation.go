package models

import (
	"fmt"
	"time"

	"github.com/edd1080/project-olympo-sub002/internal/geo"
	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
	dErrors "github.com/edd1080/project-olympo-sub002/pkg/domain-errors"
)

// State is the investigation lifecycle state.
//
// started --(any mutation)--> in_progress --(finish)--> completed
//
// Completed is terminal. The started/in_progress distinction is
// informational (dashboard filtering); both accept all mutations.
type State string

const (
	StateStarted    State = "started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Investigation is the aggregate root for one field verification. All
// mutations go through its methods (driven by the service layer) so the
// invariants hold centrally:
//
//   - UpdatedAt increases monotonically with every mutation
//   - at most one Difference per field key
//   - StateCompleted is only reachable through ApplyCompletion after the
//     completion gate passes, and is terminal
//   - Declared is never modified after construction
type Investigation struct {
	ApplicationID id.ApplicationID `json:"application_id"`
	Declared      DeclaredData     `json:"declared"`
	Observed      ObservedData     `json:"observed"`
	Differences   []Difference     `json:"differences"`
	Photometry    Photometry       `json:"photometry"`
	Evidence      Evidence         `json:"evidence"`
	State         State            `json:"state"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewInvestigation opens an investigation from the origination snapshot.
func NewInvestigation(applicationID id.ApplicationID, declared DeclaredData, now time.Time) (*Investigation, error) {
	if applicationID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "application id is required")
	}
	if err := declared.Validate(); err != nil {
		return nil, err
	}
	return &Investigation{
		ApplicationID: applicationID,
		Declared:      declared.Clone(),
		Observed:      make(ObservedData),
		Differences:   []Difference{},
		State:         StateStarted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsTerminal reports whether the record reached its append-only final state.
func (inv *Investigation) IsTerminal() bool { return inv.State == StateCompleted }

// Touch bumps UpdatedAt and moves a fresh record to in_progress. UpdatedAt
// must grow strictly even if the wall clock did not advance between two
// mutations in the same request.
func (inv *Investigation) Touch(now time.Time) {
	if !now.After(inv.UpdatedAt) {
		now = inv.UpdatedAt.Add(time.Nanosecond)
	}
	inv.UpdatedAt = now
	if inv.State == StateStarted {
		inv.State = StateInProgress
	}
}

// SetObserved records the investigator-entered value for a field.
func (inv *Investigation) SetObserved(field FieldKey, value FieldValue, now time.Time) {
	if inv.Observed == nil {
		inv.Observed = make(ObservedData)
	}
	inv.Observed[field] = value
	inv.Touch(now)
}

// DifferenceFor returns a pointer to the difference for field, or nil.
func (inv *Investigation) DifferenceFor(field FieldKey) *Difference {
	for i := range inv.Differences {
		if inv.Differences[i].Field == field {
			return &inv.Differences[i]
		}
	}
	return nil
}

// UpsertDifference inserts a difference or updates the existing entry for
// the same field in place. An existing comment and evidence reference are
// preserved across re-detection.
func (inv *Investigation) UpsertDifference(diff Difference, now time.Time) {
	if existing := inv.DifferenceFor(diff.Field); existing != nil {
		diff.Comment = existing.Comment
		if diff.EvidenceRef == "" {
			diff.EvidenceRef = existing.EvidenceRef
		}
		*existing = diff
	} else {
		inv.Differences = append(inv.Differences, diff)
	}
	inv.Touch(now)
}

// RemoveDifference deletes the difference for field, reporting whether one
// existed.
func (inv *Investigation) RemoveDifference(field FieldKey, now time.Time) bool {
	for i := range inv.Differences {
		if inv.Differences[i].Field == field {
			inv.Differences = append(inv.Differences[:i], inv.Differences[i+1:]...)
			inv.Touch(now)
			return true
		}
	}
	return false
}

// SetDifferenceComment attaches the explanatory comment the completion gate
// requires for every difference.
func (inv *Investigation) SetDifferenceComment(field FieldKey, comment string, now time.Time) error {
	diff := inv.DifferenceFor(field)
	if diff == nil {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no difference recorded for field %q", field))
	}
	diff.Comment = comment
	inv.Touch(now)
	return nil
}

// SetPhoto stores a captured photo in its slot, replacing any prior photo,
// and recomputes photometry against the declared business location.
func (inv *Investigation) SetPhoto(slot Slot, photo EvidencePhoto, toleranceMeters float64, now time.Time) {
	inv.Evidence.setPhoto(slot, &photo)
	inv.RecomputePhotometry(toleranceMeters)
	inv.Touch(now)
}

// ClearPhoto discards the photo in a slot (retake). The other slot's
// photometry flag is untouched; GeoOK drops because the cleared slot is no
// longer valid.
func (inv *Investigation) ClearPhoto(slot Slot, toleranceMeters float64, now time.Time) {
	inv.Evidence.setPhoto(slot, nil)
	inv.RecomputePhotometry(toleranceMeters)
	inv.Touch(now)
}

// RecomputePhotometry derives the evidence validity flags from the current
// photos and the declared business location. A slot is valid when its photo
// exists and its geotag lies within toleranceMeters of the target; with no
// declared target the geotag check passes vacuously. A photo without geotag
// has unknown distance and cannot match an existing target.
func (inv *Investigation) RecomputePhotometry(toleranceMeters float64) {
	target := inv.Declared.BusinessLocation

	var pm Photometry
	pm.BusinessPhotoValid, pm.DistanceBusinessMeters = slotValidity(inv.Evidence.BusinessPhoto, target, toleranceMeters)
	pm.ApplicantPhotoValid, pm.DistanceApplicantMeters = slotValidity(inv.Evidence.ApplicantPhoto, target, toleranceMeters)
	pm.GeoOK = pm.BusinessPhotoValid && pm.ApplicantPhotoValid
	inv.Photometry = pm
}

func slotValidity(photo *EvidencePhoto, target *geo.Coordinate, toleranceMeters float64) (bool, *float64) {
	if photo == nil {
		return false, nil
	}
	if target == nil {
		// Origination recorded no coordinates; nothing to compare against.
		return true, nil
	}
	if photo.Geotag == nil {
		return false, nil
	}
	distance := geo.DistanceMeters(*photo.Geotag, *target)
	return distance <= toleranceMeters, &distance
}

// ApplyCompletion moves the record to its terminal state. The caller must
// have run the completion gate first; this method only enforces the state
// machine.
func (inv *Investigation) ApplyCompletion(now time.Time) error {
	if inv.State == StateCompleted {
		return dErrors.New(dErrors.CodeInvariantViolation, "investigation is already completed")
	}
	if !now.After(inv.UpdatedAt) {
		now = inv.UpdatedAt.Add(time.Nanosecond)
	}
	inv.State = StateCompleted
	inv.UpdatedAt = now
	return nil
}

// Clone returns a deep copy. Stores and the autosaver persist clones so
// in-flight mutations never race a serialization.
func (inv *Investigation) Clone() *Investigation {
	out := *inv
	out.Declared = inv.Declared.Clone()
	out.Observed = inv.Observed.Clone()
	out.Differences = make([]Difference, len(inv.Differences))
	for i, d := range inv.Differences {
		d.Declared.List = append([]string(nil), d.Declared.List...)
		d.Observed.List = append([]string(nil), d.Observed.List...)
		out.Differences[i] = d
	}
	out.Evidence = inv.Evidence.Clone()
	if inv.Photometry.DistanceBusinessMeters != nil {
		v := *inv.Photometry.DistanceBusinessMeters
		out.Photometry.DistanceBusinessMeters = &v
	}
	if inv.Photometry.DistanceApplicantMeters != nil {
		v := *inv.Photometry.DistanceApplicantMeters
		out.Photometry.DistanceApplicantMeters = &v
	}
	return &out
}
