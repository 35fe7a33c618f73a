package models

import (
	"strings"

	"github.com/edd1080/project-olympo-sub002/internal/geo"
	dErrors "github.com/edd1080/project-olympo-sub002/pkg/domain-errors"
)

// Guarantor is a declared loan guarantor.
type Guarantor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	NationalID   string `json:"national_id"`
	Relationship string `json:"relationship"`
}

// CreditTerms are the credit-product terms declared at origination.
type CreditTerms struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Installment float64 `json:"installment"`
	TermMonths  int     `json:"term_months"`
}

// DeclaredData is the origination-time snapshot the field visit verifies
// against. Set once at investigation creation and never mutated afterwards;
// the engine never refreshes it from the origination system.
type DeclaredData struct {
	FullName        string          `json:"full_name"`
	NationalID      string          `json:"national_id"`
	Phones          []string        `json:"phones,omitempty"`
	BusinessActive  bool            `json:"business_active"`
	Products        []string        `json:"products,omitempty"`
	MonthlyIncome   float64         `json:"monthly_income"`
	MonthlyExpenses float64         `json:"monthly_expenses"`
	Credit          CreditTerms     `json:"credit"`
	Guarantors      []Guarantor     `json:"guarantors,omitempty"`
	// BusinessLocation may be absent when origination recorded no
	// coordinates; photometry then passes vacuously.
	BusinessLocation *geo.Coordinate `json:"business_location,omitempty"`
}

// Validate checks the minimum shape required to open an investigation.
func (d DeclaredData) Validate() error {
	if strings.TrimSpace(d.FullName) == "" {
		return dErrors.New(dErrors.CodeValidation, "declared full name is required")
	}
	if strings.TrimSpace(d.NationalID) == "" {
		return dErrors.New(dErrors.CodeValidation, "declared national id is required")
	}
	return nil
}

// Value exposes the declared side of a field for difference detection.
// ok=false means origination declared nothing for this field, so no
// difference can exist for it.
func (d DeclaredData) Value(field FieldKey) (FieldValue, bool) {
	switch field {
	case FieldFullName:
		return TextValue(d.FullName), d.FullName != ""
	case FieldNationalID:
		return TextValue(d.NationalID), d.NationalID != ""
	case FieldPhones:
		return ListValue(d.Phones...), len(d.Phones) > 0
	case FieldBusinessActive:
		return FlagValue(d.BusinessActive), true
	case FieldProducts:
		return ListValue(d.Products...), len(d.Products) > 0
	case FieldIncome:
		return NumberValue(d.MonthlyIncome), true
	case FieldExpenses:
		return NumberValue(d.MonthlyExpenses), true
	case FieldCreditType:
		return TextValue(d.Credit.Type), d.Credit.Type != ""
	case FieldAmount:
		return NumberValue(d.Credit.Amount), true
	case FieldInstallment:
		return NumberValue(d.Credit.Installment), true
	case FieldTermMonths:
		return NumberValue(float64(d.Credit.TermMonths)), true
	case FieldGuarantors:
		names := make([]string, 0, len(d.Guarantors))
		for _, g := range d.Guarantors {
			names = append(names, g.Name)
		}
		return ListValue(names...), len(names) > 0
	}
	return FieldValue{}, false
}

// Clone returns an independent copy of the snapshot.
func (d DeclaredData) Clone() DeclaredData {
	out := d
	out.Phones = append([]string(nil), d.Phones...)
	out.Products = append([]string(nil), d.Products...)
	out.Guarantors = append([]Guarantor(nil), d.Guarantors...)
	if d.BusinessLocation != nil {
		loc := *d.BusinessLocation
		out.BusinessLocation = &loc
	}
	return out
}
