package facets

// FacetDefinition is the public description of a facet
type FacetDefinition struct {
	Name           string `json:"name"`
	Label          string `json:"label,omitempty"`
	Type           Kind   `json:"type"`
	IsFilterable   bool   `json:"isFilterable,omitempty"`
	IsHierarchical bool   `json:"isHierarchical,omitempty"`
}

// SortField is a sort option offered for a type
type SortField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TypeSettings is the public description of a searchable type
type TypeSettings struct {
	Type             string            `json:"type"`
	Label            string            `json:"label"`
	Facets           []FacetDefinition `json:"facets"`
	SortFields       []SortField       `json:"sortFields"`
	DefaultSelection bool              `json:"defaultSelection,omitempty"`
}

// FieldMapping describes how a field is rendered
type FieldMapping struct {
	Label    string `json:"label,omitempty"`
	Visible  bool   `json:"visible"`
	Overview bool   `json:"overview"`
}

// TypeMapping describes how the fields of a type are rendered
type TypeMapping struct {
	Name   string                  `json:"name"`
	Fields map[string]FieldMapping `json:"fields"`
}

// Settings lists the searchable types in catalogue order
func (c *Catalogue) Settings() []TypeSettings {
	var result []TypeSettings
	for _, t := range c.Types {
		if !t.Searchable {
			continue
		}
		settings := TypeSettings{
			Type:             t.Name,
			Label:            t.Label,
			Facets:           make([]FacetDefinition, 0, len(t.Facets)),
			SortFields:       []SortField{{Label: "Relevance", Value: "newestFirst"}},
			DefaultSelection: t.DefaultSelection,
		}
		for _, f := range t.Facets {
			settings.Facets = append(settings.Facets, FacetDefinition{
				Name:           f.Name,
				Label:          f.Label,
				Type:           f.Kind,
				IsFilterable:   f.Filterable,
				IsHierarchical: f.Hierarchical(),
			})
		}
		for _, f := range t.Fields {
			if f.Sort {
				settings.SortFields = append(settings.SortFields, SortField{Label: f.Label, Value: f.Name})
			}
		}
		result = append(result, settings)
	}
	return result
}

// TypeMappings describes the fields of every type
func (c *Catalogue) TypeMappings() map[string]TypeMapping {
	result := make(map[string]TypeMapping, len(c.Types))
	for _, t := range c.Types {
		mapping := TypeMapping{Name: t.Name, Fields: make(map[string]FieldMapping, len(t.Fields))}
		for _, f := range t.Fields {
			mapping.Fields[f.Name] = FieldMapping{Label: f.Label, Visible: f.IsVisible(), Overview: f.Overview}
		}
		result[t.Name] = mapping
	}
	return result
}
