package search

import (
	"encoding/json"
	"fmt"

	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/facets"
	"github.com/platinummonkey/kgsearch/pkg/model"
)

// Response is the result of a search
type Response struct {
	Total        int                    `json:"total"`
	Hits         []Hit                  `json:"hits"`
	Aggregations map[string]FacetResult `json:"aggregations"`
	Types        map[string]TypeCount   `json:"types"`
	Suggestions  map[string]string      `json:"suggestions"`
}

// Hit is one document of a result list
type Hit struct {
	ID           string                 `json:"id"`
	Type         string                 `json:"type"`
	Group        string                 `json:"group"`
	Category     string                 `json:"category,omitempty"`
	Title        string                 `json:"title,omitempty"`
	Badges       interface{}            `json:"badges,omitempty"`
	Tags         interface{}            `json:"tags,omitempty"`
	Highlight    map[string][]string    `json:"highlight,omitempty"`
	PreviewImage string                 `json:"previewImage,omitempty"`
	Fields       map[string]interface{} `json:"fields"`
}

// Document is the full rendering of one document
type Document struct {
	ID            string      `json:"id"`
	Type          string      `json:"type,omitempty"`
	Group         string      `json:"group,omitempty"`
	Category      string      `json:"category,omitempty"`
	Title         string      `json:"title,omitempty"`
	Badges        interface{} `json:"badges,omitempty"`
	Disclaimer    string      `json:"disclaimer,omitempty"`
	Meta          interface{} `json:"meta,omitempty"`
	Version       string      `json:"version,omitempty"`
	Versions      interface{} `json:"versions,omitempty"`
	AllVersionRef interface{} `json:"allVersionRef,omitempty"`
	Previews      []Preview   `json:"previews,omitempty"`
	Fields        interface{} `json:"fields"`
}

// Preview is an image or an animation shown with a document
type Preview struct {
	Label          string      `json:"label"`
	Link           interface{} `json:"link,omitempty"`
	StaticImageURL string      `json:"staticImageUrl,omitempty"`
	PreviewURL     *PreviewURL `json:"previewUrl,omitempty"`
}

// PreviewURL is the media shown on hover
type PreviewURL struct {
	URL        string `json:"url"`
	IsAnimated bool   `json:"isAnimated"`
}

// TypeCount is the number of hits of one type
type TypeCount struct {
	Count int `json:"count"`
}

// Keyword is one value of a list facet
type Keyword struct {
	Value    string    `json:"value"`
	Count    int       `json:"count"`
	Children *Children `json:"children,omitempty"`
}

// Children are the values below one value of a hierarchical facet
type Children struct {
	Keywords []Keyword `json:"keywords"`
	Others   int       `json:"others"`
}

// FacetResult is the aggregated state of one facet
type FacetResult struct {
	Kind     facets.Kind
	Count    int
	Keywords []Keyword
	Others   int
}

// MarshalJSON renders only the count of an exists facet
func (r FacetResult) MarshalJSON() ([]byte, error) {
	if r.Kind == facets.KindExists {
		return json.Marshal(struct {
			Count int `json:"count"`
		}{r.Count})
	}
	keywords := r.Keywords
	if keywords == nil {
		keywords = []Keyword{}
	}
	return json.Marshal(struct {
		Count    int       `json:"count"`
		Keywords []Keyword `json:"keywords"`
		Others   int       `json:"others"`
	}{r.Count, keywords, r.Others})
}

// Hits renders the documents of a search result. Hits carry the fields shown
// in result lists.
func Hits(catalogue *facets.Catalogue, result *elastic.SearchResult, docType string, stage model.Stage) []Hit {
	hits := make([]Hit, 0, len(result.Hits.Hits))
	for _, doc := range result.Hits.Hits {
		source := doc.Source
		hitType := docType
		if hitType == "" {
			hitType = valueField(source, "type")
		}
		hit := Hit{
			ID:           stringField(source, "id"),
			Type:         hitType,
			Group:        stage.Group(),
			Category:     valueField(source, "category"),
			Title:        valueField(source, "title"),
			Badges:       source["badges"],
			Tags:         source["tags"],
			Highlight:    doc.Highlight,
			PreviewImage: previewImage(source),
			Fields:       project(source, catalogue.HitFields(hitType)),
		}
		if hit.ID == "" {
			hit.ID = doc.ID
		}
		hits = append(hits, hit)
	}
	return hits
}

// RenderDocument renders a stored document with the fields visible on a
// document page
func RenderDocument(catalogue *facets.Catalogue, source map[string]interface{}, stage model.Stage) *Document {
	doc := header(source)
	doc.Group = stage.Group()
	doc.Badges = source["badges"]
	doc.Fields = project(source, catalogue.DocumentFields(doc.Type))
	return doc
}

// RenderLiveDocument renders a freshly translated instance, every field of
// the instance being shown
func RenderLiveDocument(instance model.TargetInstance) (*Document, error) {
	if instance == nil {
		return nil, nil
	}
	data, err := json.Marshal(instance)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", instance.DocumentID(), err)
	}
	var source map[string]interface{}
	if err := json.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", instance.DocumentID(), err)
	}
	doc := header(source)
	doc.Fields = source
	return doc, nil
}

// header reads the common parts of a document. The meta data is moved out
// of the source.
func header(source map[string]interface{}) *Document {
	doc := &Document{
		ID:            stringField(source, "id"),
		Type:          valueField(source, "type"),
		Category:      valueField(source, "category"),
		Title:         valueField(source, "title"),
		Disclaimer:    valueField(source, "disclaimer"),
		Version:       stringField(source, "version"),
		AllVersionRef: source["allVersionRef"],
		Previews:      previews(source),
	}
	if meta, ok := source["meta"]; ok && meta != nil {
		doc.Meta = meta
		delete(source, "meta")
	}
	if versions, ok := source["versions"].([]interface{}); ok && len(versions) > 0 {
		doc.Versions = versions
	}
	return doc
}

func previews(source map[string]interface{}) []Preview {
	objects, _ := source["previewObjects"].([]interface{})
	var result []Preview
	for _, o := range objects {
		object, ok := o.(map[string]interface{})
		if !ok {
			continue
		}
		result = append(result, preview(
			stringField(object, "description"),
			object["link"],
			stringField(object, "imageUrl"),
			stringField(object, "videoUrl"),
		))
	}
	return result
}

func preview(label string, link interface{}, imageURL, videoURL string) Preview {
	p := Preview{Label: label, Link: link, StaticImageURL: imageURL}
	if videoURL != "" {
		p.PreviewURL = &PreviewURL{URL: videoURL, IsAnimated: true}
	} else if imageURL != "" {
		p.PreviewURL = &PreviewURL{URL: imageURL}
	}
	return p
}

// previewImage is the static image of the first preview having one
func previewImage(source map[string]interface{}) string {
	for _, p := range previews(source) {
		if p.StaticImageURL != "" {
			return p.StaticImageURL
		}
	}
	return ""
}

// project keeps the non null fields of the source listed in names
func project(source map[string]interface{}, names []string) map[string]interface{} {
	fields := make(map[string]interface{}, len(names))
	for _, name := range names {
		if v, ok := source[name]; ok && v != nil {
			fields[name] = v
		}
	}
	return fields
}

func stringField(source map[string]interface{}, name string) string {
	s, _ := source[name].(string)
	return s
}

// valueField reads the value of a {"value": ...} field
func valueField(source map[string]interface{}, name string) string {
	field, ok := source[name].(map[string]interface{})
	if !ok {
		return ""
	}
	return stringField(field, "value")
}

// FacetResults renders the facet aggregations. Every value the caller
// selected is listed, with a zero count when no bucket holds it, and so is
// every selected list facet missing from the aggregations.
func FacetResults(list []facets.Facet, aggs map[string]*elastic.Aggregation, selections map[string]facets.Selection) map[string]FacetResult {
	result := make(map[string]FacetResult, len(list))
	for _, facet := range list {
		selected := selections[facet.Name].Values
		agg, ok := aggs[facet.Name]
		if !ok || agg == nil {
			if facet.Kind == facets.KindList && len(selected) > 0 {
				result[facet.Name] = FacetResult{Kind: facets.KindList, Keywords: withSelected(nil, selected)}
			}
			continue
		}
		switch {
		case facet.Kind == facets.KindExists:
			result[facet.Name] = FacetResult{Kind: facets.KindExists, Count: docCount(agg.Sub[facets.AggTotal])}
		case facet.Hierarchical():
			result[facet.Name] = hierarchicalResult(agg, selected)
		case facet.Nested():
			result[facet.Name] = nestedResult(agg, selected)
		default:
			keywords := agg.Sub[facets.AggKeywords]
			result[facet.Name] = FacetResult{
				Kind:     facets.KindList,
				Count:    cardinality(agg.Sub[facets.AggTotal]),
				Keywords: withSelected(bucketKeywords(keywords, bucketCount), selected),
				Others:   others(keywords),
			}
		}
	}
	return result
}

func hierarchicalResult(agg *elastic.Aggregation, selected []string) FacetResult {
	parents := agg.Sub[facets.AggKeywords]
	var keywords, leaves []Keyword
	if parents != nil {
		for _, bucket := range parents.Buckets {
			k := Keyword{Value: bucket.Key, Count: bucket.DocCount}
			if child := bucket.Sub[facets.AggKeywords]; child != nil {
				k.Children = &Children{
					Keywords: bucketKeywords(child, bucketCount),
					Others:   others(child),
				}
				leaves = append(leaves, k.Children.Keywords...)
			}
			keywords = append(keywords, k)
		}
	}
	// selected values are child values, the missing ones are listed at the top
	missing := withSelected(leaves, selected)[len(leaves):]
	return FacetResult{
		Kind:     facets.KindList,
		Count:    cardinality(agg.Sub[facets.AggTotal]),
		Keywords: append(keywords, missing...),
		Others:   others(parents),
	}
}

func nestedResult(agg *elastic.Aggregation, selected []string) FacetResult {
	var keywords *elastic.Aggregation
	if inner := agg.Sub[facets.AggInner]; inner != nil {
		keywords = inner.Sub[facets.AggKeywords]
	}
	count := 0
	if keywords != nil {
		for _, bucket := range keywords.Buckets {
			count += reverseCount(bucket)
		}
	}
	return FacetResult{
		Kind:     facets.KindList,
		Count:    count,
		Keywords: withSelected(bucketKeywords(keywords, reverseCount), selected),
		Others:   others(keywords),
	}
}

func bucketCount(b elastic.Bucket) int { return b.DocCount }

// reverseCount is the number of root documents of a nested bucket
func reverseCount(b elastic.Bucket) int {
	return docCount(b.Sub[facets.AggReverse])
}

func bucketKeywords(agg *elastic.Aggregation, count func(elastic.Bucket) int) []Keyword {
	if agg == nil {
		return nil
	}
	keywords := make([]Keyword, 0, len(agg.Buckets))
	for _, bucket := range agg.Buckets {
		keywords = append(keywords, Keyword{Value: bucket.Key, Count: count(bucket)})
	}
	return keywords
}

// withSelected appends a zero count keyword for every selected value missing
// from keywords
func withSelected(keywords []Keyword, selected []string) []Keyword {
	present := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		present[k.Value] = struct{}{}
	}
	for _, v := range selected {
		if _, ok := present[v]; !ok {
			keywords = append(keywords, Keyword{Value: v})
			present[v] = struct{}{}
		}
	}
	return keywords
}

func others(agg *elastic.Aggregation) int {
	if agg == nil {
		return 0
	}
	return agg.SumOtherDocCount
}

func docCount(agg *elastic.Aggregation) int {
	if agg == nil {
		return 0
	}
	return agg.DocCount
}

func cardinality(agg *elastic.Aggregation) int {
	if agg == nil || agg.Value == nil {
		return 0
	}
	return int(*agg.Value)
}

// Types renders the number of hits per type, types without hits left out
func Types(aggs map[string]*elastic.Aggregation) map[string]TypeCount {
	result := map[string]TypeCount{}
	agg := aggs[facets.TypeFacet]
	if agg == nil || agg.Sub[facets.AggKeywords] == nil {
		return result
	}
	for _, bucket := range agg.Sub[facets.AggKeywords].Buckets {
		if bucket.DocCount > 0 {
			result[bucket.Key] = TypeCount{Count: bucket.DocCount}
		}
	}
	return result
}
