package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/platinummonkey/kgsearch/pkg/observability"
)

var tracer = otel.Tracer("kgsearch/elastic")

// QuerySize is the page size of the scrolling queries
const QuerySize = 10000

// ErrNotFound is returned when the index or the document does not exist
var ErrNotFound = errors.New("not found in search engine")

// StatusError is a non successful answer of the search engine
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search engine responded %d: %s", e.StatusCode, e.Body)
}

// Config holds the connection settings of the search engine
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger
func WithLogger(l *observability.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMaxBulkPayload sets the size above which bulk operations are split
func WithMaxBulkPayload(chars int) Option {
	return func(c *Client) { c.maxBulkChars = chars }
}

// Client is a minimal client of the Elasticsearch REST API
type Client struct {
	endpoint     string
	http         *http.Client
	logger       *observability.Logger
	maxBulkChars int
}

// New creates a search engine client
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("search engine endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	c := &Client{
		endpoint:     strings.TrimSuffix(cfg.Endpoint, "/"),
		http:         &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport), Timeout: timeout},
		logger:       observability.NewLogger(observability.InfoLevel, os.Stdout),
		maxBulkChars: DefaultMaxBulkPayload,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, payload interface{}) ([]byte, error) {
	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(p)
	case string:
		body = strings.NewReader(p)
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call search engine: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search engine response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// Ping checks the search engine is reachable
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/", "", nil)
	return err
}

// Search runs a query against an index or an index pattern
func (c *Client) Search(ctx context.Context, index string, payload interface{}) (*SearchResult, error) {
	return c.SearchWithFilterPath(ctx, index, "", payload)
}

// SearchWithFilterPath runs a query keeping only the response paths listed
func (c *Client) SearchWithFilterPath(ctx context.Context, index, filterPath string, payload interface{}) (*SearchResult, error) {
	ctx, span := tracer.Start(ctx, "Search",
		trace.WithAttributes(attribute.String("index", index)),
	)
	defer span.End()

	path := "/" + index + "/_search"
	if filterPath != "" {
		path += "?filter_path=" + url.QueryEscape(filterPath)
	}
	data, err := c.do(ctx, http.MethodPost, path, "application/json", payload)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "search failed")
		}
		return nil, err
	}
	var result SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode")
		return nil, fmt.Errorf("failed to decode search result: %w", err)
	}
	return &result, nil
}

// DocumentByIdentifier returns the document carrying the identifier, either
// its id or one of its aliases
func (c *Client) DocumentByIdentifier(ctx context.Context, index, identifier string) (*Document, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"identifier": identifier}},
				},
			},
		},
	}
	result, err := c.Search(ctx, index, query)
	if err != nil {
		return nil, err
	}
	if len(result.Hits.Hits) == 0 {
		return nil, ErrNotFound
	}
	doc := result.Hits.Hits[0]
	return &doc, nil
}

// scroll pages through the ids of the documents matching a query
func (c *Client) scroll(ctx context.Context, index string, query map[string]interface{}, source interface{}, visit func(Document)) error {
	var searchAfter string
	for {
		payload := map[string]interface{}{
			"size":    QuerySize,
			"sort":    []interface{}{map[string]string{"_id": "asc"}},
			"query":   query,
			"_source": source,
		}
		if searchAfter != "" {
			payload["search_after"] = []string{searchAfter}
		}
		result, err := c.Search(ctx, index, payload)
		if err != nil {
			return err
		}
		hits := result.Hits.Hits
		for _, h := range hits {
			visit(h)
		}
		if len(hits) < QuerySize {
			return nil
		}
		next := hits[len(hits)-1].ID
		if next == "" || next == searchAfter {
			return nil
		}
		searchAfter = next
	}
}

// DocumentIDs lists the ids of every document of one type in an index
func (c *Client) DocumentIDs(ctx context.Context, index, docType string) ([]string, error) {
	query := map[string]interface{}{
		"bool": map[string]interface{}{
			"must": map[string]interface{}{"term": map[string]interface{}{"type.value": docType}},
		},
	}
	var ids []string
	err := c.scroll(ctx, index, query, false, func(d Document) { ids = append(ids, d.ID) })
	return ids, err
}

var sitemapType = regexp.MustCompile(`^[a-zA-Z()\d ]*$`)

// SitemapDocumentIDs lists the ids of the documents of the given types.
// Type names which are not plain words are ignored.
func (c *Client) SitemapDocumentIDs(ctx context.Context, index string, types []string) ([]string, error) {
	var relevant []string
	for _, t := range types {
		if sitemapType.MatchString(t) {
			relevant = append(relevant, t)
		}
	}
	if len(relevant) == 0 {
		return nil, nil
	}
	query := map[string]interface{}{"terms": map[string]interface{}{"type.value": relevant}}
	var ids []string
	err := c.scroll(ctx, index, query, false, func(d Document) { ids = append(ids, d.ID) })
	return ids, err
}

// Identifiers collects every identifier stored in an index
func (c *Client) Identifiers(ctx context.Context, index string) (map[string]struct{}, error) {
	query := map[string]interface{}{"exists": map[string]interface{}{"field": "identifier"}}
	identifiers := map[string]struct{}{}
	err := c.scroll(ctx, index, query, []string{"identifier"}, func(d Document) {
		switch ids := d.Source["identifier"].(type) {
		case []interface{}:
			for _, id := range ids {
				if s, ok := id.(string); ok {
					identifiers[s] = struct{}{}
				}
			}
		case string:
			identifiers[ids] = struct{}{}
		}
	})
	return identifiers, err
}

// FileQuery selects a page of the files of one repository
type FileQuery struct {
	RepositoryID string
	// SearchAfter is the id of the last file of the previous page
	SearchAfter  string
	Size         int
	Format       string
	GroupingType string
}

// FilesFromRepository returns one page of the files of a repository
func (c *Client) FilesFromRepository(ctx context.Context, index string, q FileQuery) (*SearchResult, error) {
	must := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"fileRepository": q.RepositoryID}},
	}
	if q.Format != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"format.value.keyword": q.Format}})
	}
	if q.GroupingType != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"groupingTypes.name.keyword": q.GroupingType}})
	}
	payload := map[string]interface{}{
		"size":             q.Size,
		"sort":             []interface{}{map[string]string{"_id": "asc"}},
		"query":            map[string]interface{}{"bool": map[string]interface{}{"must": must}},
		"track_total_hits": true,
	}
	if q.SearchAfter != "" {
		payload["search_after"] = []string{q.SearchAfter}
	}
	return c.Search(ctx, index, payload)
}

// FileAggregations aggregates the values of fields over the files of a
// repository, aggs maps aggregation names to fields
func (c *Client) FileAggregations(ctx context.Context, index, repositoryID string, aggs map[string]string) (*SearchResult, error) {
	aggregations := map[string]interface{}{}
	for name, field := range aggs {
		if name == "" || field == "" {
			continue
		}
		aggregations[name] = map[string]interface{}{
			"terms": map[string]interface{}{"field": field, "size": 1000000000},
		}
	}
	payload := map[string]interface{}{
		"size":  0,
		"query": map[string]interface{}{"bool": map[string]interface{}{"must": map[string]interface{}{"term": map[string]interface{}{"fileRepository": repositoryID}}}},
	}
	if len(aggregations) > 0 {
		payload["aggs"] = aggregations
	}
	return c.Search(ctx, index, payload)
}

// MostViewed returns the views of the last 30 days of the most viewed documents
func (c *Client) MostViewed(ctx context.Context, index string, size int) ([]int, error) {
	payload := map[string]interface{}{
		"fields":  []string{"last30DaysViews"},
		"sort":    map[string]string{"last30DaysViews": "desc"},
		"size":    size,
		"_source": false,
	}
	result, err := c.Search(ctx, index, payload)
	if err != nil {
		return nil, err
	}
	var views []int
	for _, h := range result.Hits.Hits {
		values := h.Fields["last30DaysViews"]
		if len(values) == 0 {
			continue
		}
		if f, ok := values[0].(float64); ok {
			views = append(views, int(f))
		}
	}
	return views, nil
}
