package facets

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalogue.yaml
var defaultCatalogue []byte

// Kind is the selection behaviour of a facet
type Kind string

const (
	KindList   Kind = "list"
	KindExists Kind = "exists"
)

// Order is the bucket order of a list facet
type Order string

const (
	OrderByCount Order = "count"
	OrderByValue Order = "value"
)

// TypeFacet is the pseudo facet filtering on the document type
const TypeFacet = "facet_type"

// Facet is a filterable dimension of a document type
type Facet struct {
	Name       string `yaml:"name"`
	Label      string `yaml:"label"`
	Field      string `yaml:"field"`
	Kind       Kind   `yaml:"kind"`
	Order      Order  `yaml:"order"`
	Size       int    `yaml:"size"`
	Exclusive  bool   `yaml:"exclusive"`
	Filterable bool   `yaml:"filterable"`
	// Parent is the field holding the parent value of a hierarchical facet
	Parent string `yaml:"parent"`
	// Path is the nested document path holding the values of a nested facet
	Path string `yaml:"path"`
}

// Hierarchical reports whether child buckets are nested under parent buckets
func (f Facet) Hierarchical() bool { return f.Parent != "" }

// Nested reports whether the values live in nested documents
func (f Facet) Nested() bool { return f.Path != "" }

// IsChild reports whether the facet depends on another structure
func (f Facet) IsChild() bool { return f.Hierarchical() || f.Nested() }

// ValueField is the field holding the facet values
func (f Facet) ValueField() string {
	if f.Nested() {
		return fmt.Sprintf("%s.%s", f.Path, f.Field)
	}
	return f.Field
}

// KeywordField is the keyword sub field aggregations and filters run on
func (f Facet) KeywordField() string {
	return keyword(f.ValueField())
}

func keyword(field string) string {
	return fmt.Sprintf("%s.value.keyword", field)
}

// Field is the search metadata of one document field
type Field struct {
	Name            string  `yaml:"name"`
	Label           string  `yaml:"label"`
	Boost           float64 `yaml:"boost"`
	IgnoreForSearch bool    `yaml:"ignoreForSearch"`
	Highlight       bool    `yaml:"highlight"`
	Visible         *bool   `yaml:"visible"`
	Overview        bool    `yaml:"overview"`
	Suggest         bool    `yaml:"suggest"`
	Sort            bool    `yaml:"sort"`
}

// IsVisible reports whether the field is shown on the document page
func (f Field) IsVisible() bool {
	return f.Visible == nil || *f.Visible
}

// SearchPath is the path the full text query runs on
func (f Field) SearchPath() string {
	return fmt.Sprintf("%s.value", f.Name)
}

// TypeDefinition describes the search behaviour of one document type
type TypeDefinition struct {
	Name             string  `yaml:"name"`
	Label            string  `yaml:"label"`
	Searchable       bool    `yaml:"searchable"`
	DefaultSelection bool    `yaml:"defaultSelection"`
	SortByRelevance  *bool   `yaml:"sortByRelevance"`
	Facets           []Facet `yaml:"facets"`
	Fields           []Field `yaml:"fields"`
}

// RelevanceSorted reports whether browsing the type sorts by relevance
func (t *TypeDefinition) RelevanceSorted() bool {
	return t == nil || t.SortByRelevance == nil || *t.SortByRelevance
}

// Catalogue holds the definition of every document type
type Catalogue struct {
	Types []*TypeDefinition `yaml:"types"`

	byName map[string]*TypeDefinition
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalogue
)

// Default returns the embedded catalogue
func Default() *Catalogue {
	defaultOnce.Do(func() {
		c, err := Load(defaultCatalogue)
		if err != nil {
			panic(fmt.Sprintf("invalid embedded facet catalogue: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Load parses and validates a catalogue
func Load(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalogue) index() error {
	c.byName = make(map[string]*TypeDefinition, len(c.Types))
	for _, t := range c.Types {
		if t.Name == "" {
			return fmt.Errorf("type without name")
		}
		if _, ok := c.byName[t.Name]; ok {
			return fmt.Errorf("type %s defined twice", t.Name)
		}
		names := map[string]bool{TypeFacet: true}
		for i := range t.Facets {
			f := &t.Facets[i]
			if f.Name == "" || f.Field == "" {
				return fmt.Errorf("type %s: facet needs a name and a field", t.Name)
			}
			if names[f.Name] {
				return fmt.Errorf("type %s: facet %s defined twice", t.Name, f.Name)
			}
			names[f.Name] = true
			switch f.Kind {
			case KindList, KindExists:
			case "":
				f.Kind = KindList
			default:
				return fmt.Errorf("type %s: facet %s has unknown kind %q", t.Name, f.Name, f.Kind)
			}
			switch f.Order {
			case OrderByCount, OrderByValue:
			case "":
				f.Order = OrderByCount
			default:
				return fmt.Errorf("type %s: facet %s has unknown order %q", t.Name, f.Name, f.Order)
			}
			if f.Hierarchical() && f.Nested() {
				return fmt.Errorf("type %s: facet %s cannot be hierarchical and nested", t.Name, f.Name)
			}
		}
		for i := range t.Fields {
			if t.Fields[i].Boost == 0 {
				t.Fields[i].Boost = 1
			}
		}
		c.byName[t.Name] = t
	}
	return nil
}

// Type returns the definition of a document type
func (c *Catalogue) Type(name string) (*TypeDefinition, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Facets returns the facets of a document type
func (c *Catalogue) Facets(docType string) []Facet {
	if t, ok := c.byName[docType]; ok {
		return t.Facets
	}
	return nil
}

// QueryFields returns the boosted fields the full text query runs on. The
// boosts of the requested type override the ones of the other types.
func (c *Catalogue) QueryFields(docType string) []string {
	boosts := map[string]float64{}
	var selected *TypeDefinition
	for _, t := range c.Types {
		if t.Name == docType {
			selected = t
			continue
		}
		addBoosts(boosts, t)
	}
	if selected != nil {
		addBoosts(boosts, selected)
	}
	fields := make([]string, 0, len(boosts))
	for path, boost := range boosts {
		fields = append(fields, fmt.Sprintf("%s^%g", path, boost))
	}
	sort.Strings(fields)
	return fields
}

func addBoosts(boosts map[string]float64, t *TypeDefinition) {
	for _, f := range t.Fields {
		if !f.IgnoreForSearch {
			boosts[f.SearchPath()] = f.Boost
		}
	}
}

// HighlightFields returns the fields highlighted in hits of the type
func (c *Catalogue) HighlightFields(docType string) []string {
	return c.collect(docType, func(f Field) bool { return f.Highlight && !f.IgnoreForSearch }, Field.SearchPath)
}

// SuggestFields returns the fields the term suggester runs on
func (c *Catalogue) SuggestFields(docType string) []string {
	return c.collect(docType, func(f Field) bool { return f.Suggest }, Field.SearchPath)
}

// HitFields returns the fields shown in a hit, the title excepted
func (c *Catalogue) HitFields(docType string) []string {
	return c.collect(docType, func(f Field) bool { return f.Overview && f.Name != "title" }, fieldName)
}

// DocumentFields returns the fields shown on a document page, the title excepted
func (c *Catalogue) DocumentFields(docType string) []string {
	return c.collect(docType, func(f Field) bool { return f.IsVisible() && f.Name != "title" }, fieldName)
}

func fieldName(f Field) string { return f.Name }

func (c *Catalogue) collect(docType string, keep func(Field) bool, name func(Field) string) []string {
	t, ok := c.byName[docType]
	if !ok {
		return nil
	}
	var result []string
	for _, f := range t.Fields {
		if keep(f) {
			result = append(result, name(f))
		}
	}
	return result
}
