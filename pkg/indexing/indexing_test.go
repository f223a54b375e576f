package indexing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
	"github.com/platinummonkey/kgsearch/pkg/references"
	"github.com/platinummonkey/kgsearch/pkg/translate"
	"github.com/platinummonkey/kgsearch/pkg/translation"
)

func TestTrendThreshold(t *testing.T) {
	tests := []struct {
		name     string
		views    []int
		expected int
	}{
		{name: "no views", views: nil, expected: 0},
		{name: "single count", views: []int{40}, expected: 0},
		{name: "all equal", views: []int{40, 40, 40}, expected: 0},
		{name: "second smallest", views: []int{100, 50, 40, 30, 25, 12}, expected: 25},
		{name: "tie at the limit ignored", views: []int{100, 50, 40, 30, 20, 20}, expected: 30},
		{name: "floored", views: []int{8, 5, 3}, expected: MinTrendingViews},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrendThreshold(tt.views))
		})
	}
}

type fakeKG struct {
	pages map[string][]byte
}

func (f *fakeKG) ExecuteQueryForIndexing(_ context.Context, queryID string, _ model.Stage, from, size int) ([]byte, bool) {
	body, ok := f.pages[fmt.Sprintf("%s/%d/%d", queryID, from, size)]
	return body, ok
}

func (f *fakeKG) ExecuteQueryForInstance(context.Context, string, model.Stage, string, bool) ([]byte, error) {
	return nil, errors.New("not used")
}

type noTypes struct{}

func (noTypes) TypesOfInstance(context.Context, string, model.Stage, bool) ([]string, error) {
	return nil, errors.New("not used")
}

type fakeRunner struct {
	meta       translate.Meta
	pages      map[string]*translate.PageResult
	mu         sync.Mutex
	thresholds []int
}

func (f *fakeRunner) Meta() translate.Meta { return f.meta }

func (f *fakeRunner) TranslatePage(_ context.Context, body []byte, _ model.Stage, _ bool, env *translate.Env) (*translate.PageResult, error) {
	f.mu.Lock()
	f.thresholds = append(f.thresholds, env.TrendingThreshold)
	f.mu.Unlock()
	page, ok := f.pages[string(body)]
	if !ok {
		return nil, errors.New("cannot decode page")
	}
	return page, nil
}

type identifierSource map[string]struct{}

func (s identifierSource) Identifiers(context.Context, string) (map[string]struct{}, error) {
	return s, nil
}

type removal struct {
	index string
	keep  []string
}

type fakeStore struct {
	mu        sync.Mutex
	views     []int
	recreated []string
	written   map[string][]string
	removals  []removal
	promoted  map[string]string
	failIndex string
}

func newFakeStore() *fakeStore {
	return &fakeStore{written: map[string][]string{}, promoted: map[string]string{}}
}

func (s *fakeStore) RecreateIndex(_ context.Context, index string, _ map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recreated = append(s.recreated, index)
	return nil
}

func (s *fakeStore) IndexDocuments(_ context.Context, index string, docs []model.TargetInstance) (*elastic.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index == s.failIndex {
		return nil, &elastic.StatusError{StatusCode: 500, Body: "boom"}
	}
	for _, d := range docs {
		s.written[index] = append(s.written[index], d.DocumentID())
	}
	return &elastic.BulkResult{Items: len(docs)}, nil
}

func (s *fakeStore) RemoveDeprecated(_ context.Context, index, _ string, keep map[string]struct{}) (*elastic.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id := range keep {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	s.removals = append(s.removals, removal{index: index, keep: ids})
	return &elastic.BulkResult{Items: 1}, nil
}

func (s *fakeStore) PromoteTemporary(_ context.Context, temporary, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promoted[temporary] = target
	return nil
}

func (s *fakeStore) MostViewed(context.Context, string, int) ([]int, error) {
	return s.views, nil
}

func quietLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

func datasetVersion(id string, searchable bool, refs ...*model.InternalReference) *model.DatasetVersion {
	return &model.DatasetVersion{
		TargetBase:   model.TargetBase{ID: id, Type: model.NewValue(model.TypeDataset), Identifier: []string{"kg/" + id}},
		Searchable:   searchable,
		Contributors: refs,
	}
}

func file(id string) *model.FileDocument {
	return &model.FileDocument{TargetBase: model.TargetBase{ID: id, Type: model.NewValue(model.TypeFile)}}
}

type fixture struct {
	store    *fakeStore
	datasets *fakeRunner
	files    *fakeRunner
	job      *Job
	unknown  *model.InternalReference
	observed map[string]int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: newFakeStore(), observed: map[string]int{}}
	f.unknown = model.NewReference("unknown", "Someone")
	f.datasets = &fakeRunner{
		meta: translate.Meta{
			Name:          "datasetVersion",
			TargetType:    model.TypeDataset,
			SemanticTypes: []string{"https://example.org/DatasetVersion"},
			QueryIDs:      map[string]string{"https://example.org/DatasetVersion": "q-dv"},
		},
		pages: map[string]*translate.PageResult{
			"dv-0": {
				Instances: []model.TargetInstance{
					datasetVersion("a", true, model.NewReference("known", "Known"), f.unknown),
					datasetVersion("b", false),
				},
				Errors: model.ErrorReport{"x": {"broken"}},
				Failed: []string{"x"},
				Total:  4,
				From:   0,
				Size:   2,
			},
			"dv-2": {
				Instances: []model.TargetInstance{datasetVersion("c", true)},
				Skipped:   1,
				Total:     4,
				From:      2,
				Size:      2,
			},
		},
	}
	f.files = &fakeRunner{
		meta: translate.Meta{
			Name:          "file",
			TargetType:    model.TypeFile,
			SemanticTypes: []string{"https://example.org/File"},
			QueryIDs:      map[string]string{"https://example.org/File": "q-file"},
		},
		pages: map[string]*translate.PageResult{
			"file-0": {Instances: []model.TargetInstance{file("f1")}, Total: 1, Size: 2},
		},
	}
	kg := &fakeKG{pages: map[string][]byte{
		"q-dv/0/2":   []byte("dv-0"),
		"q-dv/2/2":   []byte("dv-2"),
		"q-file/0/2": []byte("file-0"),
	}}
	registry, err := translate.NewRegistry(f.datasets, f.files)
	require.NoError(t, err)
	controller := translation.NewController(kg, noTypes{}, registry, &translate.Env{}, translation.WithLogger(quietLogger()))
	resolver := references.NewResolver(identifierSource{"known": {}}, quietLogger())
	f.job = NewJob(
		Config{PageSize: 2, AutoReleased: []string{model.TypeFile}, Parallelism: 2},
		f.store, controller, resolver, registry,
		WithLogger(quietLogger()),
		WithIndexedObserver(func(docType, index string, n int) {
			f.store.mu.Lock()
			f.observed[index] += n
			f.store.mu.Unlock()
		}),
	)
	return f
}

func TestRun(t *testing.T) {
	f := newFixture(t)
	f.store.views = []int{100, 50, 40, 30, 20, 20}

	report, err := f.job.Run(context.Background(), model.StageReleased, model.TypeDataset, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, f.store.written["search_public_dataset"])
	assert.Equal(t, []string{"a", "b", "c"}, f.store.written["identifiers_public"])
	assert.Equal(t, "", f.unknown.Reference)
	assert.Equal(t, "Someone", f.unknown.Value)
	assert.Equal(t, []int{30, 30}, f.datasets.thresholds)

	assert.Equal(t, 3, report.Indexed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Cleared)
	assert.Equal(t, 2, report.Removed)
	assert.Equal(t, model.ErrorReport{"x": {"broken"}}, report.Errors)

	require.Len(t, f.store.removals, 2)
	assert.Equal(t, removal{index: "search_public_dataset", keep: []string{"a", "c"}}, f.store.removals[0])
	assert.Equal(t, removal{index: "identifiers_public", keep: []string{"a", "b", "c", "kg/a", "kg/b", "kg/c"}}, f.store.removals[1])
	assert.Empty(t, f.store.recreated)
	assert.Equal(t, 2, f.observed["search_public_dataset"])
}

func TestRunWithoutViews(t *testing.T) {
	f := newFixture(t)

	_, err := f.job.Run(context.Background(), model.StageInProgress, model.TypeDataset, false)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0}, f.datasets.thresholds)
	assert.Equal(t, []string{"a", "c"}, f.store.written["search_curated_dataset"])
}

func TestRunTemporary(t *testing.T) {
	f := newFixture(t)

	_, err := f.job.Run(context.Background(), model.StageReleased, model.TypeDataset, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"tmp_search_public_dataset", "search_public_dataset"}, f.store.recreated)
	assert.Equal(t, []string{"a", "c"}, f.store.written["tmp_search_public_dataset"])
	assert.Equal(t, map[string]string{"tmp_search_public_dataset": "search_public_dataset"}, f.store.promoted)
}

func TestRunAutoReleased(t *testing.T) {
	f := newFixture(t)

	report, err := f.job.Run(context.Background(), model.StageReleased, model.TypeFile, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"f1"}, f.store.written["autorelease_public_file"])
	assert.NotContains(t, f.store.written, "identifiers_public")
	assert.Equal(t, 1, report.Indexed)
	require.Len(t, f.store.removals, 1)
	assert.Equal(t, "autorelease_public_file", f.store.removals[0].index)
	assert.Equal(t, []int{0}, f.files.thresholds)
}

func TestRunAbsentPage(t *testing.T) {
	f := newFixture(t)
	f.datasets.pages["dv-0"].Total = 6
	f.datasets.pages["dv-2"].Total = 6

	report, err := f.job.Run(context.Background(), model.StageReleased, model.TypeDataset, false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Absent)
	assert.Equal(t, []string{"a", "c"}, f.store.written["search_public_dataset"])
}

func TestRunUnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.job.Run(context.Background(), model.StageReleased, "Unknown", false)
	assert.Error(t, err)
}

func TestRunWriteFailure(t *testing.T) {
	f := newFixture(t)
	f.store.failIndex = "identifiers_public"

	_, err := f.job.Run(context.Background(), model.StageReleased, model.TypeDataset, false)

	var status *elastic.StatusError
	assert.True(t, errors.As(err, &status))
}

func TestRunAll(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{model.TypeDataset, model.TypeFile}, f.job.Types())

	reports, err := f.job.RunAll(context.Background(), model.StageReleased, f.job.Types(), false)
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.Equal(t, model.TypeDataset, reports[0].Type)
	assert.Equal(t, model.TypeFile, reports[1].Type)
}

func TestScheduler(t *testing.T) {
	f := newFixture(t)

	_, err := NewScheduler(f.job, "not a schedule", nil, nil, false)
	assert.Error(t, err)

	s, err := NewScheduler(f.job, "0 3 * * *", []model.Stage{model.StageReleased, model.StageInProgress}, []string{model.TypeFile}, false)
	require.NoError(t, err)

	reports := s.RunOnce(context.Background())
	assert.Len(t, reports[model.StageReleased], 1)
	assert.Len(t, reports[model.StageInProgress], 1)
	assert.Equal(t, []string{"f1"}, f.store.written["autorelease_curated_file"])

	s.Start()
	require.NoError(t, s.Stop(context.Background()))
}
