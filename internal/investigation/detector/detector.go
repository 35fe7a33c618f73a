// Package detector compares declared field values against observed ones and
// decides whether a difference record should exist. It is pure: the service
// layer invokes it on every observed-field update and applies the outcome to
// the aggregate.
package detector

import (
	"math"
	"strings"

	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
	strutil "github.com/edd1080/project-olympo-sub002/pkg/platform/strings"
)

const (
	// DefaultNumericThresholdPercent is the relative delta a numeric field
	// may drift before it counts as a difference.
	DefaultNumericThresholdPercent = 15.0
	// DefaultListOverlapPercent is the minimum declared-list coverage an
	// observed list must reach to still count as matching.
	DefaultListOverlapPercent = 50.0
)

// Options tune the detection thresholds. Zero values fall back to defaults.
type Options struct {
	ThresholdPercent   float64
	ListOverlapPercent float64
}

func (o Options) thresholdPercent() float64 {
	if o.ThresholdPercent > 0 {
		return o.ThresholdPercent
	}
	return DefaultNumericThresholdPercent
}

func (o Options) listOverlapPercent() float64 {
	if o.ListOverlapPercent > 0 {
		return o.ListOverlapPercent
	}
	return DefaultListOverlapPercent
}

// Outcome is the detection verdict for one field.
type Outcome struct {
	Match bool
	// Delta is observed minus declared for numeric fields, zero otherwise.
	Delta float64
}

// Compare evaluates one declared/observed pair. Numeric fields mismatch when
// the relative delta exceeds the threshold; text and flag fields require
// exact agreement; list fields must cover enough of the declared list.
func Compare(declared, observed models.FieldValue, opts Options) Outcome {
	if declared.Kind != observed.Kind {
		return Outcome{Match: false}
	}

	switch declared.Kind {
	case models.KindNumber:
		delta := observed.Number - declared.Number
		base := math.Max(math.Abs(declared.Number), 1)
		match := math.Abs(delta)/base <= opts.thresholdPercent()/100
		return Outcome{Match: match, Delta: delta}
	case models.KindText:
		return Outcome{Match: strings.TrimSpace(declared.Text) == strings.TrimSpace(observed.Text)}
	case models.KindFlag:
		return Outcome{Match: declared.Flag == observed.Flag}
	case models.KindList:
		return Outcome{Match: listOverlapPercent(declared.List, observed.List) >= opts.listOverlapPercent()}
	}
	return Outcome{Match: false}
}

// NewDifference builds the difference record for a mismatch. Detection only
// assigns the medium severity today; the comment starts empty and must be
// filled before the investigation can finish.
func NewDifference(field models.FieldKey, declared, observed models.FieldValue, delta float64) models.Difference {
	return models.Difference{
		Field:    field,
		Declared: declared,
		Observed: observed,
		Delta:    delta,
		Severity: models.SeverityMedium,
		Comment:  "",
	}
}

// listOverlapPercent is the share of the declared list found in the observed
// list, case-insensitive. An empty declared list matches anything: there is
// nothing declared to contradict.
func listOverlapPercent(declared, observed []string) float64 {
	declaredSet := strutil.Fold(declared)
	if len(declaredSet) == 0 {
		return 100
	}
	observedSet := make(map[string]struct{})
	for _, v := range strutil.Fold(observed) {
		observedSet[v] = struct{}{}
	}
	hits := 0
	for _, v := range declaredSet {
		if _, ok := observedSet[v]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(declaredSet)) * 100
}
