package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/facets"
	"github.com/platinummonkey/kgsearch/pkg/model"
)

const testCatalogue = `
types:
  - name: Dataset
    searchable: true
    facets:
      - {name: species, field: species}
      - {name: region, field: region, parent: area}
      - {name: strain, field: strain, path: specimens}
      - {name: described, field: descriptor, kind: exists}
    fields:
      - {name: title, boost: 20, highlight: true, suggest: true}
      - {name: description, boost: 2, overview: true, highlight: true}
      - {name: keywords, suggest: true}
      - {name: hidden, visible: false}
  - name: Contributor
    searchable: true
    sortByRelevance: false
    fields:
      - {name: title, boost: 5}
`

func testCatalogueOf(t *testing.T) *facets.Catalogue {
	t.Helper()
	c, err := facets.Load([]byte(testCatalogue))
	require.NoError(t, err)
	return c
}

func value(v float64) *float64 { return &v }

func TestHits(t *testing.T) {
	c := testCatalogueOf(t)
	result := &elastic.SearchResult{Hits: elastic.Hits{Hits: []elastic.Document{{
		ID: "a",
		Source: map[string]interface{}{
			"id":          "a",
			"title":       map[string]interface{}{"value": "Mouse cortex"},
			"category":    map[string]interface{}{"value": "Dataset"},
			"description": map[string]interface{}{"value": "A study"},
			"hidden":      map[string]interface{}{"value": "x"},
			"badges":      []interface{}{"isNew"},
			"previewObjects": []interface{}{
				map[string]interface{}{"description": "video only", "videoUrl": "https://v"},
				map[string]interface{}{"description": "image", "imageUrl": "https://i"},
			},
		},
		Highlight: map[string][]string{"title.value": {"<em>Mouse</em> cortex"}},
	}}}}

	hits := Hits(c, result, "Dataset", model.StageInProgress)

	require.Len(t, hits, 1)
	hit := hits[0]
	assert.Equal(t, "a", hit.ID)
	assert.Equal(t, "Dataset", hit.Type)
	assert.Equal(t, "curated", hit.Group)
	assert.Equal(t, "Mouse cortex", hit.Title)
	assert.Equal(t, "Dataset", hit.Category)
	assert.Equal(t, []interface{}{"isNew"}, hit.Badges)
	assert.Equal(t, "https://i", hit.PreviewImage)
	assert.Equal(t, []string{"<em>Mouse</em> cortex"}, hit.Highlight["title.value"])
	assert.Equal(t, map[string]interface{}{"description": map[string]interface{}{"value": "A study"}}, hit.Fields)
}

func TestRenderDocument(t *testing.T) {
	c := testCatalogueOf(t)
	source := map[string]interface{}{
		"id":            "a",
		"type":          map[string]interface{}{"value": "Dataset"},
		"title":         map[string]interface{}{"value": "Mouse cortex"},
		"disclaimer":    map[string]interface{}{"value": "Preliminary"},
		"description":   map[string]interface{}{"value": "A study"},
		"hidden":        map[string]interface{}{"value": "x"},
		"meta":          map[string]interface{}{"@type": "Dataset"},
		"version":       "v2",
		"versions":      []interface{}{map[string]interface{}{"reference": "b"}},
		"allVersionRef": map[string]interface{}{"reference": "c"},
		"previewObjects": []interface{}{
			map[string]interface{}{"description": "animated", "imageUrl": "https://i", "videoUrl": "https://v"},
		},
	}

	doc := RenderDocument(c, source, model.StageReleased)

	assert.Equal(t, "a", doc.ID)
	assert.Equal(t, "Dataset", doc.Type)
	assert.Equal(t, "public", doc.Group)
	assert.Equal(t, "Preliminary", doc.Disclaimer)
	assert.Equal(t, map[string]interface{}{"@type": "Dataset"}, doc.Meta)
	assert.NotContains(t, source, "meta")
	assert.Equal(t, "v2", doc.Version)
	assert.NotNil(t, doc.Versions)
	assert.NotNil(t, doc.AllVersionRef)
	assert.Equal(t, []Preview{{
		Label:          "animated",
		StaticImageURL: "https://i",
		PreviewURL:     &PreviewURL{URL: "https://v", IsAnimated: true},
	}}, doc.Previews)
	assert.Equal(t, map[string]interface{}{"description": map[string]interface{}{"value": "A study"}}, doc.Fields)
}

func TestRenderLiveDocument(t *testing.T) {
	instance := &model.ControlledTerm{TargetBase: model.TargetBase{
		ID:    "t1",
		Type:  model.NewValue(model.TypeControlledTerm),
		Title: model.NewValue("Cortex"),
	}}

	doc, err := RenderLiveDocument(instance)

	require.NoError(t, err)
	assert.Equal(t, "t1", doc.ID)
	assert.Equal(t, model.TypeControlledTerm, doc.Type)
	assert.Equal(t, "Cortex", doc.Title)
	assert.Empty(t, doc.Group)
	fields, ok := doc.Fields.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "t1", fields["id"])
}

func TestFacetResults(t *testing.T) {
	c := testCatalogueOf(t)
	aggs := map[string]*elastic.Aggregation{
		"species": {Sub: map[string]*elastic.Aggregation{
			facets.AggKeywords: {SumOtherDocCount: 3, Buckets: []elastic.Bucket{{Key: "Mouse", DocCount: 10}, {Key: "Rat", DocCount: 4}}},
			facets.AggTotal:    {Value: value(5)},
		}},
		"region": {Sub: map[string]*elastic.Aggregation{
			facets.AggKeywords: {Buckets: []elastic.Bucket{{
				Key:      "Cortex",
				DocCount: 7,
				Sub: map[string]*elastic.Aggregation{
					facets.AggKeywords: {SumOtherDocCount: 1, Buckets: []elastic.Bucket{{Key: "CA1", DocCount: 6}}},
				},
			}}},
			facets.AggTotal: {Value: value(1)},
		}},
		"strain": {Sub: map[string]*elastic.Aggregation{
			facets.AggInner: {Sub: map[string]*elastic.Aggregation{
				facets.AggKeywords: {Buckets: []elastic.Bucket{
					{Key: "C57BL/6J", DocCount: 30, Sub: map[string]*elastic.Aggregation{facets.AggReverse: {DocCount: 4}}},
					{Key: "Wistar", DocCount: 2, Sub: map[string]*elastic.Aggregation{facets.AggReverse: {DocCount: 2}}},
				}},
			}},
		}},
		"described": {Sub: map[string]*elastic.Aggregation{facets.AggTotal: {DocCount: 9}}},
	}
	selections := map[string]facets.Selection{
		"species": {Values: []string{"Rat", "Human"}},
		"region":  {Values: []string{"CA3"}},
	}

	result := FacetResults(c.Facets("Dataset"), aggs, selections)

	assert.Equal(t, FacetResult{
		Kind:     facets.KindList,
		Count:    5,
		Keywords: []Keyword{{Value: "Mouse", Count: 10}, {Value: "Rat", Count: 4}, {Value: "Human"}},
		Others:   3,
	}, result["species"])
	assert.Equal(t, FacetResult{
		Kind:  facets.KindList,
		Count: 1,
		Keywords: []Keyword{
			{Value: "Cortex", Count: 7, Children: &Children{Keywords: []Keyword{{Value: "CA1", Count: 6}}, Others: 1}},
			{Value: "CA3"},
		},
	}, result["region"])
	assert.Equal(t, FacetResult{
		Kind:     facets.KindList,
		Count:    6,
		Keywords: []Keyword{{Value: "C57BL/6J", Count: 4}, {Value: "Wistar", Count: 2}},
	}, result["strain"])
	assert.Equal(t, FacetResult{Kind: facets.KindExists, Count: 9}, result["described"])
}

func TestFacetResultsWithoutAggregation(t *testing.T) {
	c := testCatalogueOf(t)

	result := FacetResults(c.Facets("Dataset"), nil, map[string]facets.Selection{
		"species":   {Values: []string{"Rat"}},
		"described": {},
	})

	assert.Equal(t, map[string]FacetResult{
		"species": {Kind: facets.KindList, Keywords: []Keyword{{Value: "Rat"}}},
	}, result)
}

func TestFacetResultJSON(t *testing.T) {
	data, err := json.Marshal(FacetResult{Kind: facets.KindExists, Count: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 2}`, string(data))

	data, err = json.Marshal(FacetResult{Kind: facets.KindList})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 0, "keywords": [], "others": 0}`, string(data))
}

func TestTypes(t *testing.T) {
	aggs := map[string]*elastic.Aggregation{
		facets.TypeFacet: {Sub: map[string]*elastic.Aggregation{
			facets.AggKeywords: {Buckets: []elastic.Bucket{
				{Key: "Dataset", DocCount: 12},
				{Key: "Subject", DocCount: 0},
			}},
		}},
	}

	assert.Equal(t, map[string]TypeCount{"Dataset": {Count: 12}}, Types(aggs))
	assert.Empty(t, Types(nil))
}
