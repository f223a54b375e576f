package model

import (
	"bytes"
	"encoding/json"
)

// TargetInstance is a normalized document of the search index
type TargetInstance interface {
	// DocumentID is the uuid the document is indexed under
	DocumentID() string
	// DocumentType is the target type name ("Dataset", "Contributor"...)
	DocumentType() string
	// DocumentIdentifiers returns every identifier the document can be looked up by
	DocumentIdentifiers() []string
	// InternalReferences walks every internal reference held by the document
	InternalReferences() []*InternalReference
}

// Searchable is implemented by documents which can opt out of the searchable index
type Searchable interface {
	IsSearchable() bool
}

// ReferenceHolder exposes the internal references of a nested structure
type ReferenceHolder interface {
	InternalReferences() []*InternalReference
}

// TargetBase holds the header shared by all target documents
type TargetBase struct {
	ID             string         `json:"id"`
	Identifier     []string       `json:"identifier,omitempty"`
	Type           *Value[string] `json:"type"`
	Category       *Value[string] `json:"category,omitempty"`
	Disclaimer     *Value[string] `json:"disclaimer,omitempty"`
	Title          *Value[string] `json:"title,omitempty"`
	FirstRelease   *Value[string] `json:"first_release,omitempty"`
	LastRelease    *Value[string] `json:"last_release,omitempty"`
	AllIdentifiers []string       `json:"-"`
}

// DocumentID implements TargetInstance
func (b *TargetBase) DocumentID() string { return b.ID }

// DocumentType implements TargetInstance
func (b *TargetBase) DocumentType() string {
	if b.Type == nil {
		return ""
	}
	return b.Type.Value
}

// DocumentIdentifiers implements TargetInstance
func (b *TargetBase) DocumentIdentifiers() []string {
	if len(b.AllIdentifiers) > 0 {
		return b.AllIdentifiers
	}
	return b.Identifier
}

// TitleValue returns the title or an empty string
func (b *TargetBase) TitleValue() string {
	if b.Title == nil {
		return ""
	}
	return b.Title.Value
}

// Tags is a capped list of display tags with its uncapped total
type Tags struct {
	Data  []string `json:"data"`
	Total int      `json:"total"`
	Size  int      `json:"size"`
	From  int      `json:"from"`
}

// PreviewObject is an image or video preview of a research product
type PreviewObject struct {
	ImageURL    string             `json:"imageUrl,omitempty"`
	VideoURL    string             `json:"videoUrl,omitempty"`
	Description string             `json:"description,omitempty"`
	Link        *ExternalReference `json:"link,omitempty"`
}

// SchemaOrg is the schema.org description embedded into document pages
type SchemaOrg struct {
	Context       string            `json:"@context"`
	Type          string            `json:"@type"`
	Name          string            `json:"name,omitempty"`
	Description   string            `json:"description,omitempty"`
	URL           string            `json:"url,omitempty"`
	Identifier    []string          `json:"identifier,omitempty"`
	Keywords      []string          `json:"keywords,omitempty"`
	License       string            `json:"license,omitempty"`
	Version       string            `json:"version,omitempty"`
	DatePublished string            `json:"datePublished,omitempty"`
	Creator       []SchemaOrgPerson `json:"creator,omitempty"`
}

// SchemaOrgPerson is a creator of a schema.org dataset, a Person or an Organization
type SchemaOrgPerson struct {
	Type       string `json:"@type"`
	Name       string `json:"name"`
	FamilyName string `json:"familyName,omitempty"`
	GivenName  string `json:"givenName,omitempty"`
}

// HierarchyElement is a node of a rendered tree such as the specimen hierarchy
type HierarchyElement struct {
	Key                string              `json:"key"`
	Title              string              `json:"title"`
	Color              string              `json:"color,omitempty"`
	ParentRelationType string              `json:"parentRelationType,omitempty"`
	Data               any                 `json:"data,omitempty"`
	Legend             Legend              `json:"legend,omitempty"`
	Children           []*HierarchyElement `json:"children,omitempty"`
}

// InternalReferences walks the node data and all descendants
func (e *HierarchyElement) InternalReferences() []*InternalReference {
	if e == nil {
		return nil
	}
	var result []*InternalReference
	if holder, ok := e.Data.(ReferenceHolder); ok {
		result = append(result, holder.InternalReferences()...)
	}
	for _, c := range e.Children {
		result = append(result, c.InternalReferences()...)
	}
	return result
}

// refs collects non-nil references
func refs(lists ...[]*InternalReference) []*InternalReference {
	var result []*InternalReference
	for _, l := range lists {
		for _, r := range l {
			if r != nil {
				result = append(result, r)
			}
		}
	}
	return result
}

// one wraps single references for refs
func one(rs ...*InternalReference) []*InternalReference { return rs }

// CollectReferences merges reference lists skipping nil entries
func CollectReferences(lists ...[]*InternalReference) []*InternalReference {
	return refs(lists...)
}

// LegendEntry maps a node color to its label
type LegendEntry struct {
	Color string
	Label string
}

// Legend is an ordered color legend, rendered as a JSON object
type Legend []LegendEntry

// MarshalJSON keeps the entry order
func (l Legend) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Color)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the legend in document order
func (l *Legend) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var result Legend
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return err
		}
		var label string
		if err := dec.Decode(&label); err != nil {
			return err
		}
		color, _ := key.(string)
		result = append(result, LegendEntry{Color: color, Label: label})
	}
	*l = result
	return nil
}
