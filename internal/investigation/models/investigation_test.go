package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/edd1080/project-olympo-sub002/internal/geo"
	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
	dErrors "github.com/edd1080/project-olympo-sub002/pkg/domain-errors"
)

const photoTolerance = 10.0

type InvestigationSuite struct {
	suite.Suite
	inv *Investigation
	now time.Time
}

func TestInvestigationSuite(t *testing.T) {
	suite.Run(t, new(InvestigationSuite))
}

func (s *InvestigationSuite) SetupTest() {
	s.now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	inv, err := NewInvestigation(id.ApplicationID("SCO_91842"), testDeclared(), s.now)
	s.Require().NoError(err)
	s.inv = inv
}

func testDeclared() DeclaredData {
	return DeclaredData{
		FullName:        "María Lopez",
		NationalID:      "2544 98654 0101",
		Phones:          []string{"55512345"},
		BusinessActive:  true,
		Products:        []string{"tortillas", "tamales"},
		MonthlyIncome:   8500,
		MonthlyExpenses: 3200,
		Credit:          CreditTerms{Type: "grupal", Amount: 15000, Installment: 1450, TermMonths: 12},
		Guarantors:      []Guarantor{{ID: "g1", Name: "Pedro Lopez", NationalID: "1111 22222 0101", Relationship: "hermano"}},
		BusinessLocation: &geo.Coordinate{Latitude: 14.6349, Longitude: -90.5069, Accuracy: 5},
	}
}

func atBusiness() *geo.Coordinate {
	return &geo.Coordinate{Latitude: 14.6349, Longitude: -90.5069, Accuracy: 8}
}

func (s *InvestigationSuite) photo(geotag *geo.Coordinate) EvidencePhoto {
	return EvidencePhoto{Ref: "ph-1", URL: "data:image/jpeg;base64,Zm9v", Geotag: geotag, Timestamp: s.now}
}

func (s *InvestigationSuite) TestNewInvestigation() {
	s.Run("initializes a fresh record", func() {
		s.Equal(StateStarted, s.inv.State)
		s.Empty(s.inv.Observed)
		s.Empty(s.inv.Differences)
		s.False(s.inv.Photometry.GeoOK)
		s.Equal(s.now, s.inv.CreatedAt)
	})

	s.Run("rejects missing application id", func() {
		_, err := NewInvestigation("", testDeclared(), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("rejects incomplete declared snapshot", func() {
		declared := testDeclared()
		declared.FullName = " "
		_, err := NewInvestigation("SCO_1", declared, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *InvestigationSuite) TestTouch() {
	s.Run("bumps UpdatedAt and state", func() {
		later := s.now.Add(time.Minute)
		s.inv.Touch(later)
		s.Equal(later, s.inv.UpdatedAt)
		s.Equal(StateInProgress, s.inv.State)
	})

	s.Run("UpdatedAt grows even when the clock stands still", func() {
		s.inv.Touch(s.now)
		first := s.inv.UpdatedAt
		s.inv.Touch(s.now)
		s.True(s.inv.UpdatedAt.After(first))
	})
}

func (s *InvestigationSuite) TestDifferences() {
	diff := Difference{
		Field:    FieldIncome,
		Declared: NumberValue(8500),
		Observed: NumberValue(20000),
		Delta:    11500,
		Severity: SeverityMedium,
	}

	s.Run("upsert inserts once per field", func() {
		s.inv.UpsertDifference(diff, s.now)
		s.inv.UpsertDifference(diff, s.now)
		s.Len(s.inv.Differences, 1)
	})

	s.Run("re-detection preserves the entered comment", func() {
		s.inv.UpsertDifference(diff, s.now)
		s.Require().NoError(s.inv.SetDifferenceComment(FieldIncome, "temporada alta", s.now))

		updated := diff
		updated.Observed = NumberValue(21000)
		updated.Delta = 12500
		s.inv.UpsertDifference(updated, s.now)

		got := s.inv.DifferenceFor(FieldIncome)
		s.Require().NotNil(got)
		s.Equal("temporada alta", got.Comment)
		s.Equal(12500.0, got.Delta)
	})

	s.Run("remove clears the entry", func() {
		s.inv.UpsertDifference(diff, s.now)
		s.True(s.inv.RemoveDifference(FieldIncome, s.now))
		s.Nil(s.inv.DifferenceFor(FieldIncome))
		s.False(s.inv.RemoveDifference(FieldIncome, s.now))
	})

	s.Run("comment on unknown field is not found", func() {
		err := s.inv.SetDifferenceComment(FieldExpenses, "n/a", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *InvestigationSuite) TestPhotometry() {
	s.Run("valid capture within tolerance", func() {
		s.inv.SetPhoto(SlotBusiness, s.photo(atBusiness()), photoTolerance, s.now)
		s.True(s.inv.Photometry.BusinessPhotoValid)
		s.False(s.inv.Photometry.GeoOK) // applicant slot still empty

		s.inv.SetPhoto(SlotApplicant, s.photo(atBusiness()), photoTolerance, s.now)
		s.True(s.inv.Photometry.ApplicantPhotoValid)
		s.True(s.inv.Photometry.GeoOK)
		s.Require().NotNil(s.inv.Photometry.DistanceBusinessMeters)
		s.InDelta(0, *s.inv.Photometry.DistanceBusinessMeters, 1)
	})

	s.Run("capture far from target is invalid", func() {
		far := &geo.Coordinate{Latitude: 14.6449, Longitude: -90.5069, Accuracy: 8}
		s.inv.SetPhoto(SlotBusiness, s.photo(far), photoTolerance, s.now)
		s.False(s.inv.Photometry.BusinessPhotoValid)
		s.Require().NotNil(s.inv.Photometry.DistanceBusinessMeters)
		s.Greater(*s.inv.Photometry.DistanceBusinessMeters, photoTolerance)
	})

	s.Run("capture without geotag cannot match an existing target", func() {
		s.inv.SetPhoto(SlotBusiness, s.photo(nil), photoTolerance, s.now)
		s.False(s.inv.Photometry.BusinessPhotoValid)
		s.Nil(s.inv.Photometry.DistanceBusinessMeters)
	})

	s.Run("no declared location passes vacuously", func() {
		declared := testDeclared()
		declared.BusinessLocation = nil
		inv, err := NewInvestigation("SCO_2", declared, s.now)
		s.Require().NoError(err)
		inv.SetPhoto(SlotBusiness, s.photo(nil), photoTolerance, s.now)
		s.True(inv.Photometry.BusinessPhotoValid)
	})

	s.Run("retake resets only the cleared slot", func() {
		s.inv.SetPhoto(SlotBusiness, s.photo(atBusiness()), photoTolerance, s.now)
		s.inv.SetPhoto(SlotApplicant, s.photo(atBusiness()), photoTolerance, s.now)
		s.Require().True(s.inv.Photometry.GeoOK)

		s.inv.ClearPhoto(SlotBusiness, photoTolerance, s.now)
		s.False(s.inv.Photometry.BusinessPhotoValid)
		s.True(s.inv.Photometry.ApplicantPhotoValid)
		s.False(s.inv.Photometry.GeoOK)
		s.Nil(s.inv.Evidence.BusinessPhoto)
	})
}

func (s *InvestigationSuite) TestCompletion() {
	s.Run("completion is terminal", func() {
		s.Require().NoError(s.inv.ApplyCompletion(s.now.Add(time.Hour)))
		s.Equal(StateCompleted, s.inv.State)
		s.True(s.inv.IsTerminal())

		err := s.inv.ApplyCompletion(s.now.Add(2 * time.Hour))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *InvestigationSuite) TestClone() {
	s.inv.SetObserved(FieldIncome, NumberValue(9000), s.now)
	s.inv.UpsertDifference(Difference{Field: FieldProducts, Declared: ListValue("a"), Observed: ListValue("b"), Severity: SeverityMedium}, s.now)
	s.inv.SetPhoto(SlotBusiness, s.photo(atBusiness()), photoTolerance, s.now)

	clone := s.inv.Clone()
	clone.SetObserved(FieldIncome, NumberValue(1), s.now)
	clone.Differences[0].Comment = "changed"
	clone.Evidence.BusinessPhoto.URL = "changed"

	s.Equal(NumberValue(9000), s.inv.Observed[FieldIncome])
	s.Empty(s.inv.Differences[0].Comment)
	s.NotEqual("changed", s.inv.Evidence.BusinessPhoto.URL)
}
