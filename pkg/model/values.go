package model

import (
	"strings"
	"time"
)

// Value wraps a single display value of a target document
type Value[T any] struct {
	Value T `json:"value"`
}

// NewValue wraps v
func NewValue[T any](v T) *Value[T] {
	return &Value[T]{Value: v}
}

// ReferenceContext points a reference at a tab of another document
type ReferenceContext struct {
	Tab string `json:"tab,omitempty"`
	ID  string `json:"id,omitempty"`
}

// InternalReference links to another document of the index. An empty Reference
// keeps the label but renders as plain text.
type InternalReference struct {
	Reference string            `json:"reference,omitempty"`
	Value     string            `json:"value,omitempty"`
	Context   *ReferenceContext `json:"context,omitempty"`
	Count     []string          `json:"count,omitempty"`
}

// NewReference creates an internal reference
func NewReference(reference, value string) *InternalReference {
	return &InternalReference{Reference: reference, Value: value}
}

// Clear nulls the target of the reference while keeping its label
func (r *InternalReference) Clear() {
	r.Reference = ""
}

// Less orders references by label, then by target
func (r *InternalReference) Less(o *InternalReference) bool {
	if r.Value != o.Value {
		return r.Value < o.Value
	}
	return r.Reference < o.Reference
}

// ExternalReference links outside of the index
type ExternalReference struct {
	URL   string `json:"url"`
	Value string `json:"value,omitempty"`
}

// NewLink creates an external reference
func NewLink(url, value string) *ExternalReference {
	return &ExternalReference{URL: url, Value: value}
}

// Children wraps a nested sub-document
type Children[T any] struct {
	Children T `json:"children"`
}

// ISODate formats t as an ISO-8601 UTC timestamp
func ISODate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// DatePart strips the time component of an ISO timestamp
func DatePart(iso string) string {
	if i := strings.Index(iso, "T"); i >= 0 {
		return iso[:i]
	}
	return iso
}
