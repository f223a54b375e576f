package model

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var multiSpace = regexp.MustCompile(` {2,}`)

// DisplayString renders "12 day" for a single value and "2 - 4 month" or
// "10 day - 2 month" for ranges
func (q QuantitativeValueOrRange) DisplayString() string {
	if v, ok := formatQuantity(q.Value); ok {
		if q.Unit == nil {
			return v
		}
		return fmt.Sprintf("%s %s", v, q.Unit.FullName)
	}
	sameUnit := (q.MinValueUnit == nil && q.MaxValueUnit == nil) ||
		(q.MinValueUnit != nil && q.MaxValueUnit != nil && *q.MinValueUnit == *q.MaxValueUnit)
	minUnit := ""
	if !sameUnit && q.MinValueUnit != nil {
		minUnit = q.MinValueUnit.FullName
	}
	maxUnit := ""
	if q.MaxValueUnit != nil {
		maxUnit = q.MaxValueUnit.FullName
	}
	minValue, _ := formatQuantity(q.MinValue)
	maxValue, _ := formatQuantity(q.MaxValue)
	s := strings.TrimSpace(fmt.Sprintf("%s %s - %s %s", minValue, minUnit, maxValue, maxUnit))
	return multiSpace.ReplaceAllString(s, " ")
}

func formatQuantity(v *float64) (string, bool) {
	if v == nil {
		return "", false
	}
	if *v == math.Trunc(*v) {
		return strconv.FormatInt(int64(*v), 10), true
	}
	return fmt.Sprintf("%.2f", *v), true
}

// DisplayLabel renders "Open <name> in <service>"
func (s SpecimenServiceLink) DisplayLabel() string {
	return fmt.Sprintf("Open %s in %s", s.Name, s.Service)
}
