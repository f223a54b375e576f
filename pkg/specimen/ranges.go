package specimen

import "github.com/platinummonkey/kgsearch/pkg/model"

// unitScale maps unit names to multiples of the smallest unit of a dimension
type unitScale map[string]int64

var (
	timeUnits = unitScale{
		"millisecond": 1,
		"second":      1000,
		"minute":      60 * 1000,
		"hour":        60 * 60 * 1000,
		"day":         24 * 60 * 60 * 1000,
		"week":        7 * 24 * 60 * 60 * 1000,
		"month":       28 * 24 * 60 * 60 * 1000,
		"year":        365 * 24 * 60 * 60 * 1000,
	}
	weightUnits = unitScale{
		"gram":     1,
		"kilogram": 1000,
	}
)

type bound struct {
	scaled int64
	value  float64
	unit   *model.FullNameRef
}

// aggregateRange computes the range spanned by the values of the states.
// Values without a unit and incomplete ranges are skipped. Any value in an
// unknown unit makes the range absent.
func aggregateRange(states []*model.StudiedState, get func(*model.StudiedState) *model.QuantitativeValueOrRange, units unitScale) *model.QuantitativeValueOrRange {
	var lo, hi *bound
	toBound := func(v float64, unit *model.FullNameRef) (*bound, bool) {
		scale, ok := units[unit.FullName]
		if !ok {
			return nil, false
		}
		return &bound{scaled: int64(v * float64(scale)), value: v, unit: unit}, true
	}
	track := func(lower, upper *bound) {
		if lo == nil || lower.scaled < lo.scaled {
			lo = lower
		}
		if hi == nil || upper.scaled > hi.scaled {
			hi = upper
		}
	}
	for _, s := range states {
		q := get(s)
		if q == nil {
			continue
		}
		switch {
		case q.Value != nil && q.Unit != nil:
			b, ok := toBound(*q.Value, q.Unit)
			if !ok {
				return nil
			}
			track(b, b)
		case q.MinValue != nil && q.MinValueUnit != nil && q.MaxValue != nil && q.MaxValueUnit != nil:
			lower, okLower := toBound(*q.MinValue, q.MinValueUnit)
			upper, okUpper := toBound(*q.MaxValue, q.MaxValueUnit)
			if !okLower || !okUpper {
				return nil
			}
			track(lower, upper)
		}
	}
	if lo == nil || hi == nil {
		return nil
	}
	minValue, maxValue := lo.value, hi.value
	return &model.QuantitativeValueOrRange{
		MinValue:     &minValue,
		MinValueUnit: lo.unit,
		MaxValue:     &maxValue,
		MaxValueUnit: hi.unit,
	}
}

func stateAge(s *model.StudiedState) *model.QuantitativeValueOrRange    { return s.Age }
func stateWeight(s *model.StudiedState) *model.QuantitativeValueOrRange { return s.Weight }
