package models

import (
	"fmt"

	dErrors "github.com/edd1080/project-olympo-sub002/pkg/domain-errors"
	strutil "github.com/edd1080/project-olympo-sub002/pkg/platform/strings"
)

// FieldKey identifies one reconcilable field of an investigation. Keys are
// the origination system's Spanish field names; they appear verbatim in
// persisted payloads and in the UI, so they are part of the wire contract.
type FieldKey string

const (
	FieldFullName       FieldKey = "nombre"
	FieldNationalID     FieldKey = "dpi"
	FieldPhones         FieldKey = "telefonos"
	FieldBusinessActive FieldKey = "negocio_activo"
	FieldProducts       FieldKey = "productos"
	FieldIncome         FieldKey = "ingresos"
	FieldExpenses       FieldKey = "egresos"
	FieldCreditType     FieldKey = "tipo_credito"
	FieldAmount         FieldKey = "monto"
	FieldInstallment    FieldKey = "cuota"
	FieldTermMonths     FieldKey = "plazo"
	FieldGuarantors     FieldKey = "fiadores"
)

// ValueKind is the closed set of observed value shapes.
type ValueKind string

const (
	KindNumber ValueKind = "number"
	KindText   ValueKind = "text"
	KindFlag   ValueKind = "flag"
	KindList   ValueKind = "list"
)

// fieldKinds pins each field key to its value shape. Unknown keys are
// rejected at the trust boundary (ParseFieldKey).
var fieldKinds = map[FieldKey]ValueKind{
	FieldFullName:       KindText,
	FieldNationalID:     KindText,
	FieldPhones:         KindList,
	FieldBusinessActive: KindFlag,
	FieldProducts:       KindList,
	FieldIncome:         KindNumber,
	FieldExpenses:       KindNumber,
	FieldCreditType:     KindText,
	FieldAmount:         KindNumber,
	FieldInstallment:    KindNumber,
	FieldTermMonths:     KindNumber,
	FieldGuarantors:     KindList,
}

// ParseFieldKey validates an external field name.
func ParseFieldKey(raw string) (FieldKey, error) {
	key := FieldKey(raw)
	if _, ok := fieldKinds[key]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown field %q", raw))
	}
	return key, nil
}

// Kind returns the value shape of a known field key.
func (k FieldKey) Kind() ValueKind { return fieldKinds[k] }

// FieldValue is a small sum type for declared and observed values. Exactly
// the member named by Kind is meaningful; the rest stay zero so the JSON
// form is compact and stable.
type FieldValue struct {
	Kind   ValueKind `json:"kind"`
	Number float64   `json:"number,omitempty"`
	Text   string    `json:"text,omitempty"`
	Flag   bool      `json:"flag,omitempty"`
	List   []string  `json:"list,omitempty"`
}

func NumberValue(v float64) FieldValue  { return FieldValue{Kind: KindNumber, Number: v} }
func TextValue(s string) FieldValue     { return FieldValue{Kind: KindText, Text: s} }
func FlagValue(b bool) FieldValue       { return FieldValue{Kind: KindFlag, Flag: b} }
func ListValue(vs ...string) FieldValue { return FieldValue{Kind: KindList, List: vs} }

// CoerceValue converts a decoded JSON value into the FieldValue shape the
// field requires. This is the boundary between the untyped transport payload
// and the typed engine.
func CoerceValue(field FieldKey, raw any) (FieldValue, error) {
	kind, ok := fieldKinds[field]
	if !ok {
		return FieldValue{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown field %q", field))
	}
	switch kind {
	case KindNumber:
		n, ok := raw.(float64)
		if !ok {
			return FieldValue{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("field %q expects a number", field))
		}
		return NumberValue(n), nil
	case KindText:
		s, ok := raw.(string)
		if !ok {
			return FieldValue{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("field %q expects a string", field))
		}
		return TextValue(s), nil
	case KindFlag:
		b, ok := raw.(bool)
		if !ok {
			return FieldValue{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("field %q expects a boolean", field))
		}
		return FlagValue(b), nil
	case KindList:
		items, ok := raw.([]any)
		if !ok {
			return FieldValue{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("field %q expects a string list", field))
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return FieldValue{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("field %q expects a string list", field))
			}
			list = append(list, s)
		}
		return ListValue(strutil.Normalize(list)...), nil
	}
	return FieldValue{}, dErrors.New(dErrors.CodeInternal, "unhandled field kind")
}

// ObservedData is the investigator-entered partial mirror of DeclaredData.
// Absence of a key means "not yet investigated".
type ObservedData map[FieldKey]FieldValue

// Clone returns an independent copy, sharing no slices with the original.
func (o ObservedData) Clone() ObservedData {
	if o == nil {
		return nil
	}
	out := make(ObservedData, len(o))
	for k, v := range o {
		v.List = append([]string(nil), v.List...)
		out[k] = v
	}
	return out
}
