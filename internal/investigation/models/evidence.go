package models

import (
	"fmt"
	"time"

	"github.com/edd1080/project-olympo-sub002/internal/geo"
	dErrors "github.com/edd1080/project-olympo-sub002/pkg/domain-errors"
)

// Slot names a photo position on the investigation. Two exist per record.
type Slot string

const (
	SlotBusiness  Slot = "business"
	SlotApplicant Slot = "applicant"
)

// ParseSlot validates an external slot name.
func ParseSlot(raw string) (Slot, error) {
	switch Slot(raw) {
	case SlotBusiness, SlotApplicant:
		return Slot(raw), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown photo slot %q", raw))
}

// EvidencePhoto is one captured photograph. Geotag is nil when geolocation
// failed or was denied at capture time; the photo is still accepted and
// photometry treats its distance as unknown.
type EvidencePhoto struct {
	Ref       string          `json:"ref"`
	URL       string          `json:"url"`
	Geotag    *geo.Coordinate `json:"geotag,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Evidence holds the two photo slots. Each slot keeps at most one current
// photo; a new capture overwrites, the previous photo is discarded.
type Evidence struct {
	BusinessPhoto  *EvidencePhoto `json:"business_photo,omitempty"`
	ApplicantPhoto *EvidencePhoto `json:"applicant_photo,omitempty"`
}

// Photo returns the current photo for a slot, or nil.
func (e Evidence) Photo(slot Slot) *EvidencePhoto {
	if slot == SlotBusiness {
		return e.BusinessPhoto
	}
	return e.ApplicantPhoto
}

func (e *Evidence) setPhoto(slot Slot, photo *EvidencePhoto) {
	if slot == SlotBusiness {
		e.BusinessPhoto = photo
	} else {
		e.ApplicantPhoto = photo
	}
}

// Clone returns an independent copy of the evidence slots.
func (e Evidence) Clone() Evidence {
	out := Evidence{}
	if e.BusinessPhoto != nil {
		p := *e.BusinessPhoto
		out.BusinessPhoto = &p
	}
	if e.ApplicantPhoto != nil {
		p := *e.ApplicantPhoto
		out.ApplicantPhoto = &p
	}
	return out
}

// Photometry is the derived validity state of the captured evidence.
// Recomputed on every capture or retake; never hand-edited.
type Photometry struct {
	BusinessPhotoValid      bool     `json:"business_photo_valid"`
	ApplicantPhotoValid     bool     `json:"applicant_photo_valid"`
	GeoOK                   bool     `json:"geo_ok"`
	DistanceBusinessMeters  *float64 `json:"distance_business_meters,omitempty"`
	DistanceApplicantMeters *float64 `json:"distance_applicant_meters,omitempty"`
}
