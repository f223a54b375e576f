package elastic

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

func term(id string) model.TargetInstance {
	return &model.ControlledTerm{TargetBase: model.TargetBase{ID: id, Type: model.NewValue("Controlled term")}}
}

func TestInsertOperations(t *testing.T) {
	t.Run("no documents", func(t *testing.T) {
		chunks, err := InsertOperations(nil, 100)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("single chunk", func(t *testing.T) {
		chunks, err := InsertOperations([]model.TargetInstance{term("a"), term("b")}, DefaultMaxBulkPayload)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		lines := strings.Split(strings.TrimSuffix(string(chunks[0]), "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, `{ "index" : { "_id" : "a" } }`, lines[0])
		assert.JSONEq(t, `{"id":"a","type":{"value":"Controlled term"}}`, lines[1])
		assert.Equal(t, `{ "index" : { "_id" : "b" } }`, lines[2])
	})

	t.Run("split once the chunk is over the limit", func(t *testing.T) {
		chunks, err := InsertOperations([]model.TargetInstance{term("a"), term("b"), term("c")}, 10)
		require.NoError(t, err)
		require.Len(t, chunks, 3)
		for _, c := range chunks {
			assert.Equal(t, 2, bytes.Count(c, []byte("\n")))
		}
	})
}

func TestDeleteOperations(t *testing.T) {
	keep := map[string]struct{}{"b": {}}

	chunks := DeleteOperations([]string{"a", "b", "c"}, keep, DefaultMaxBulkPayload)
	require.Len(t, chunks, 1)
	assert.Equal(t, "{ \"delete\" : { \"_id\" : \"a\" } }\n{ \"delete\" : { \"_id\" : \"c\" } }\n", string(chunks[0]))

	assert.Len(t, DeleteOperations([]string{"a", "c"}, nil, 5), 2)
	assert.Empty(t, DeleteOperations([]string{"b"}, keep, 5))
}

func TestBulkCountsFailedItems(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search_public_dataset/_bulk", r.URL.Path)
		assert.Equal(t, "application/x-ndjson", r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"errors":true,"items":[
			{"index":{"_id":"a","status":201}},
			{"index":{"_id":"b","status":400,"error":{"type":"mapper_parsing_exception"}}},
			{"delete":{"_id":"c","status":404}}
		]}`)
	})
	c := newTestClient(t, handler)

	result, err := c.Bulk(context.Background(), "search_public_dataset", []byte("{}\n"))
	require.NoError(t, err)
	assert.Equal(t, &BulkResult{Items: 3, Failed: 2}, result)
}

func TestIndexDocumentsSendsEveryChunk(t *testing.T) {
	var bodies []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		_, _ = io.WriteString(w, `{"errors":false,"items":[{"index":{"status":201}}]}`)
	})
	c := newTestClient(t, handler, WithMaxBulkPayload(10))

	result, err := c.IndexDocuments(context.Background(), "idx", []model.TargetInstance{term("a"), term("b")})
	require.NoError(t, err)
	assert.Len(t, bodies, 2)
	assert.Equal(t, 2, result.Items)
}

func TestRemoveDeprecated(t *testing.T) {
	var bulk string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/_search") {
			_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"a"},{"_id":"b"}]}}`)
			return
		}
		b, _ := io.ReadAll(r.Body)
		bulk = string(b)
		_, _ = io.WriteString(w, `{"errors":false,"items":[{"delete":{"status":200}}]}`)
	})
	c := newTestClient(t, handler)

	result, err := c.RemoveDeprecated(context.Background(), "idx", "Dataset", map[string]struct{}{"a": {}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Items)
	assert.Equal(t, "{ \"delete\" : { \"_id\" : \"b\" } }\n", bulk)
}

func TestRemoveDeprecatedOnMissingIndex(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	result, err := c.RemoveDeprecated(context.Background(), "idx", "Dataset", nil)
	require.NoError(t, err)
	assert.Zero(t, result.Items)
}
