package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/facets"
	"github.com/platinummonkey/kgsearch/pkg/model"
)

type searchCall struct {
	index   string
	payload map[string]interface{}
}

type fakeEngine struct {
	searches  []searchCall
	results   map[string]*elastic.SearchResult
	searchErr error
	documents map[string]*elastic.Document
	filePages []*elastic.SearchResult
	fileCalls []elastic.FileQuery
	fileAggs  map[string]*elastic.SearchResult
}

func (f *fakeEngine) Search(_ context.Context, index string, payload interface{}) (*elastic.SearchResult, error) {
	p := payload.(map[string]interface{})
	f.searches = append(f.searches, searchCall{index: index, payload: p})
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	key := "search"
	if _, ok := p["suggest"]; ok {
		key = "suggest"
	}
	if r, ok := f.results[key]; ok {
		return r, nil
	}
	return &elastic.SearchResult{}, nil
}

func (f *fakeEngine) DocumentByIdentifier(_ context.Context, index, identifier string) (*elastic.Document, error) {
	if doc, ok := f.documents[index+"/"+identifier]; ok {
		return doc, nil
	}
	return nil, elastic.ErrNotFound
}

func (f *fakeEngine) FilesFromRepository(_ context.Context, index string, q elastic.FileQuery) (*elastic.SearchResult, error) {
	f.fileCalls = append(f.fileCalls, q)
	page := f.filePages[len(f.fileCalls)-1]
	return page, nil
}

func (f *fakeEngine) FileAggregations(_ context.Context, index, repositoryID string, aggs map[string]string) (*elastic.SearchResult, error) {
	return f.fileAggs[aggs[fileAggregation]], nil
}

func newTestService(t *testing.T, engine *fakeEngine, opts ...Option) *Service {
	t.Helper()
	return NewService(engine, append([]Option{WithCatalogue(testCatalogueOf(t))}, opts...)...)
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{name: "defaults", req: Request{Size: DefaultSize}},
		{name: "negative from", req: Request{From: -1, Size: 10}, wantErr: true},
		{name: "negative size", req: Request{Size: -1}, wantErr: true},
		{name: "size too large", req: Request{Size: MaxSize + 1}, wantErr: true},
		{name: "window too large", req: Request{From: MaxSize, Size: 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPayload(t *testing.T) {
	c := testCatalogueOf(t)
	req := Request{
		Query:      "mouse and",
		Type:       "Dataset",
		From:       20,
		Size:       10,
		Selections: map[string]facets.Selection{"species": {Values: []string{"Mouse"}}},
	}

	payload := Payload(c, req, Sanitize(req.Query))

	assert.Equal(t, 20, payload["from"])
	assert.Equal(t, 10, payload["size"])
	assert.Equal(t, facets.Clause{"bool": facets.Clause{"must": []interface{}{
		facets.Term("type.value", "Dataset"),
		facets.Term("species.value.keyword", "Mouse"),
	}}}, payload["post_filter"])
	assert.Equal(t, facets.Clause{"query_string": facets.Clause{
		"lenient":          true,
		"analyze_wildcard": true,
		"query":            "mouse*",
		"fields":           []string{"description.value^2", "hidden.value^1", "keywords.value^1", "title.value^20"},
	}}, payload["query"])
	assert.Equal(t, facets.Clause{"encoder": "html", "fields": facets.Clause{
		"title.value":       facets.Clause{},
		"description.value": facets.Clause{},
	}}, payload["highlight"])
	assert.Len(t, payload["sort"], 3)
	assert.Contains(t, payload["aggs"], "species")
	assert.Contains(t, payload["aggs"], facets.TypeFacet)
}

func TestPayloadWithoutQuery(t *testing.T) {
	c := testCatalogueOf(t)

	payload := Payload(c, Request{Type: "Contributor", Size: 10}, nil)

	assert.NotContains(t, payload, "query")
	assert.NotContains(t, payload, "highlight")
	assert.Equal(t, []interface{}{
		facets.Clause{"title.value.keyword": facets.Clause{"order": "asc"}},
	}, payload["sort"])
}

func TestSort(t *testing.T) {
	byTitle := false
	definition := &facets.TypeDefinition{SortByRelevance: &byTitle}

	assert.Len(t, Sort(definition, true), 3)
	assert.Len(t, Sort(definition, false), 1)
	assert.Len(t, Sort(nil, false), 3)
}

func TestSearch(t *testing.T) {
	engine := &fakeEngine{results: map[string]*elastic.SearchResult{
		"search": {
			Hits: elastic.Hits{
				Total: &elastic.Total{Value: 1},
				Hits: []elastic.Document{{ID: "a", Source: map[string]interface{}{
					"id":    "a",
					"title": map[string]interface{}{"value": "Mouse cortex"},
				}}},
			},
			Aggregations: map[string]*elastic.Aggregation{
				facets.TypeFacet: {Sub: map[string]*elastic.Aggregation{
					facets.AggKeywords: {Buckets: []elastic.Bucket{{Key: "Dataset", DocCount: 1}}},
				}},
			},
		},
		"suggest": {Suggest: map[string][]elastic.SuggestionEntry{
			"title.value": {{Text: "mouze", Options: []elastic.SuggestionOption{{Text: "mouse"}}}},
		}},
	}}
	var observed []string
	s := newTestService(t, engine, WithLatencyObserver(func(docType string, _ time.Duration) {
		observed = append(observed, docType)
	}))

	resp, err := s.Search(context.Background(), model.StageReleased, Request{Query: "Mouze", Type: "Dataset", Size: 20})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "Mouse cortex", resp.Hits[0].Title)
	assert.Equal(t, "public", resp.Hits[0].Group)
	assert.Equal(t, map[string]TypeCount{"Dataset": {Count: 1}}, resp.Types)
	assert.Equal(t, map[string]string{"mouse": "mouse"}, resp.Suggestions)
	assert.Equal(t, []string{"Dataset"}, observed)

	require.Len(t, engine.searches, 2)
	assert.Equal(t, "search_public_*", engine.searches[0].index)
	assert.Equal(t, "search_public_dataset", engine.searches[1].index)
}

func TestSearchInvalidRequest(t *testing.T) {
	engine := &fakeEngine{}
	s := newTestService(t, engine)

	_, err := s.Search(context.Background(), model.StageReleased, Request{From: -5})

	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, engine.searches)
}

func TestSearchEngineFailure(t *testing.T) {
	engine := &fakeEngine{searchErr: &elastic.StatusError{StatusCode: 503, Body: "unavailable"}}
	s := newTestService(t, engine)

	_, err := s.Search(context.Background(), model.StageReleased, Request{Type: "Dataset", Size: 10})

	var status *elastic.StatusError
	require.True(t, errors.As(err, &status))
	assert.Equal(t, 503, status.StatusCode)
}

func TestDocument(t *testing.T) {
	index := elastic.DocumentIndexPattern(model.StageInProgress)
	engine := &fakeEngine{documents: map[string]*elastic.Document{
		index + "/a": {ID: "a", Source: map[string]interface{}{
			"id":          "a",
			"type":        map[string]interface{}{"value": "Dataset"},
			"description": map[string]interface{}{"value": "A study"},
		}},
		index + "/empty": {ID: "empty"},
	}}
	s := newTestService(t, engine)

	doc, err := s.Document(context.Background(), model.StageInProgress, "a")
	require.NoError(t, err)
	assert.Equal(t, "curated", doc.Group)
	assert.Equal(t, map[string]interface{}{"description": map[string]interface{}{"value": "A study"}}, doc.Fields)

	_, err = s.Document(context.Background(), model.StageInProgress, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Document(context.Background(), model.StageInProgress, "empty")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRewriteSuggestions(t *testing.T) {
	suggest := map[string][]elastic.SuggestionEntry{
		"title.value": {
			{Text: "mouze", Options: []elastic.SuggestionOption{{Text: "mouse"}, {Text: "mousy,"}, {Text: "cortex"}}},
		},
		"keywords.value": {
			{Text: "mouze", Options: []elastic.SuggestionOption{{Text: "mouse"}, {Text: "moose"}}},
			{Text: "cortx", Options: []elastic.SuggestionOption{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}, {Text: "e"}, {Text: "f"}}},
		},
	}

	result := RewriteSuggestions(suggest, []string{"mouze", "AND", "cortx", `cortex`})

	assert.Equal(t, map[string]string{
		"a":     "mouze and a cortex",
		"b":     "mouze and b cortex",
		"c":     "mouze and c cortex",
		"d":     "mouze and d cortex",
		"e":     "mouze and e cortex",
		"moose": "moose and cortx cortex",
		"mouse": "mouse and cortx cortex",
		"mousy": "mousy and cortx cortex",
	}, result)
}

func TestSuggestionsFailureIsIgnored(t *testing.T) {
	engine := &fakeEngine{searchErr: fmt.Errorf("boom")}
	s := newTestService(t, engine)

	assert.Empty(t, s.Suggestions(context.Background(), model.StageReleased, "Dataset", []string{"mouse"}))
	assert.Empty(t, s.Suggestions(context.Background(), model.StageReleased, "Contributor", []string{"mouse"}))
}

func TestFiles(t *testing.T) {
	fullPage := make([]elastic.Document, FilePageSize)
	for i := range fullPage {
		fullPage[i] = elastic.Document{ID: fmt.Sprintf("f%05d", i), Source: map[string]interface{}{"title": "file"}}
	}
	engine := &fakeEngine{filePages: []*elastic.SearchResult{
		{Hits: elastic.Hits{Total: &elastic.Total{Value: FilePageSize + 1}, Hits: fullPage}},
		{Hits: elastic.Hits{Total: &elastic.Total{Value: FilePageSize + 1}, Hits: []elastic.Document{{ID: "last", Source: map[string]interface{}{"title": "last"}}}}},
	}}
	s := newTestService(t, engine)

	list, err := s.Files(context.Background(), model.StageReleased, "repo", "image/png", "")

	require.NoError(t, err)
	assert.Equal(t, FilePageSize+1, list.Total)
	assert.Len(t, list.Data, FilePageSize+1)
	require.Len(t, engine.fileCalls, 2)
	assert.Equal(t, "", engine.fileCalls[0].SearchAfter)
	assert.Equal(t, fmt.Sprintf("f%05d", FilePageSize-1), engine.fileCalls[1].SearchAfter)
	assert.Equal(t, "image/png", engine.fileCalls[1].Format)
	assert.Equal(t, FilePageSize, engine.fileCalls[1].Size)
}

func TestFilesPage(t *testing.T) {
	engine := &fakeEngine{filePages: []*elastic.SearchResult{
		{Hits: elastic.Hits{Total: &elastic.Total{Value: 3}, Hits: []elastic.Document{{ID: "b", Source: map[string]interface{}{"title": "b"}}}}},
	}}
	s := newTestService(t, engine)

	list, err := s.FilesPage(context.Background(), model.StageInProgress, "repo", "a", 1, "", "Raw data")

	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Len(t, list.Data, 1)
	require.Len(t, engine.fileCalls, 1)
	assert.Equal(t, elastic.FileQuery{RepositoryID: "repo", SearchAfter: "a", Size: 1, GroupingType: "Raw data"}, engine.fileCalls[0])
}

func TestFileValues(t *testing.T) {
	engine := &fakeEngine{fileAggs: map[string]*elastic.SearchResult{
		FileFormatField: {Aggregations: map[string]*elastic.Aggregation{
			fileAggregation: {Buckets: []elastic.Bucket{{Key: "text/csv"}, {Key: "image/png"}}},
		}},
		GroupingTypeField: {},
	}}
	s := newTestService(t, engine)

	formats, err := s.FileFormats(context.Background(), model.StageReleased, "repo")
	require.NoError(t, err)
	assert.Equal(t, &ValueList{Total: 2, Data: []string{"image/png", "text/csv"}}, formats)

	types, err := s.GroupingTypes(context.Background(), model.StageReleased, "repo")
	require.NoError(t, err)
	assert.Equal(t, &ValueList{Total: 0, Data: []string{}}, types)
}
