package kgclient

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
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/platinummonkey/kgsearch/pkg/contextkeys"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
)

var tracer = otel.Tracer("kgsearch/kgclient")

// ErrNotFound is returned when the KG does not know the requested instance
var ErrNotFound = errors.New("kg instance not found")

// StatusError is a non successful answer of the KG
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("kg responded %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Config holds the connection settings of the KG core API
type Config struct {
	// Endpoint is the base url of the KG core API, e.g. https://core.kg.ebrains.eu/v3
	Endpoint string
	// TokenURL, ClientID and ClientSecret identify the service account
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Timeout      time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the base HTTP client of both the service account
// and the user calls
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.service = hc
		c.user = userClient(hc)
	}
}

// WithSleeper replaces the wait between indexing retries
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// WithRetryPolicy replaces the default indexing retry policy
func WithRetryPolicy(p *RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithLogger sets the logger
func WithLogger(l *observability.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetryObserver registers a callback invoked for every failed indexing call
func WithRetryObserver(fn func(queryID string, attempt int)) Option {
	return func(c *Client) { c.onRetry = fn }
}

// Client talks to the KG core API either as the service account or on
// behalf of the calling user
type Client struct {
	endpoint string
	service  *http.Client
	user     *http.Client
	retry    *RetryPolicy
	sleep    Sleeper
	logger   *observability.Logger
	onRetry  func(queryID string, attempt int)

	authMu       sync.Mutex
	authEndpoint string
}

// New creates a KG client. The service account uses the OAuth2 client
// credentials flow when a client id is configured.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("kg endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	base := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport), Timeout: timeout}

	service := base
	if cfg.ClientID != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		service = cc.Client(context.WithValue(context.Background(), oauth2.HTTPClient, base))
		service.Timeout = timeout
	}

	c := &Client{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		service:  service,
		user:     userClient(base),
		retry:    NewRetryPolicy(DefaultRetryConfig()),
		sleep:    SleepContext,
		logger:   observability.NewLogger(observability.InfoLevel, os.Stdout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// userTransport forwards the bearer token of the caller found in the request context
type userTransport struct {
	base http.RoundTripper
}

func (t *userTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := contextkeys.GetUserToken(req.Context())
	if token == "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(r)
}

func userClient(base *http.Client) *http.Client {
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &http.Client{Transport: &userTransport{base: rt}, Timeout: base.Timeout}
}

func (c *Client) httpClient(asServiceAccount bool) *http.Client {
	if asServiceAccount {
		return c.service
	}
	return c.user
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, rawURL string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s: %w", rawURL, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: rawURL, Body: string(data)}
	}
	return data, nil
}

// ExecuteQueryForIndexing reads one page of a stored query as the service
// account. Failed calls are retried; once the attempts are exhausted the page
// is reported absent and the caller is expected to skip it.
func (c *Client) ExecuteQueryForIndexing(ctx context.Context, queryID string, stage model.Stage, from, size int) ([]byte, bool) {
	ctx, span := tracer.Start(ctx, "ExecuteQueryForIndexing",
		trace.WithAttributes(
			attribute.String("query_id", queryID),
			attribute.String("stage", string(stage)),
			attribute.Int("from", from),
			attribute.Int("size", size),
		),
	)
	defer span.End()

	u := fmt.Sprintf("%s/queries/%s/instances?stage=%s&from=%d&size=%d", c.endpoint, queryID, stage, from, size)
	logger := c.logger.WithFields(map[string]interface{}{"query_id": queryID, "from": from, "size": size})

	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts(); attempt++ {
		if err := c.sleep(ctx, c.retry.Delay(attempt)); err != nil {
			logger.WithError(err).Warn("Stopped waiting to retry the call for indexing")
			span.RecordError(err)
			span.SetStatus(codes.Error, "interrupted")
			return nil, false
		}
		body, err := c.do(ctx, c.service, http.MethodGet, u, nil)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempt+1))
			return body, true
		}
		lastErr = err
		if c.onRetry != nil {
			c.onRetry(queryID, attempt+1)
		}
		if c.retry.ShouldRetry(attempt+1, err) {
			logger.WithError(err).Warnf("Was not able to execute call for indexing - retrying max %d more times, next time in %s",
				c.retry.MaxAttempts()-attempt-1, c.retry.Delay(attempt+1))
		}
	}
	logger.WithError(lastErr).Errorf("Giving up the call for indexing after %d attempts", c.retry.MaxAttempts())
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "retries exhausted")
	return nil, false
}

// ExecuteQueryForInstance reads the result of a stored query restricted to
// one instance. It returns ErrNotFound when the KG does not know the id.
func (c *Client) ExecuteQueryForInstance(ctx context.Context, queryID string, stage model.Stage, id string, asServiceAccount bool) ([]byte, error) {
	u := fmt.Sprintf("%s/queries/%s/instances?stage=%s&instanceId=%s", c.endpoint, queryID, stage, url.QueryEscape(id))
	return c.do(ctx, c.httpClient(asServiceAccount), http.MethodGet, u, nil)
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// Instance fetches the raw payload of one instance
func (c *Client) Instance(ctx context.Context, id string, stage model.Stage, asServiceAccount bool) (map[string]interface{}, error) {
	u := fmt.Sprintf("%s/instances/%s?stage=%s", c.endpoint, id, stage)
	body, err := c.do(ctx, c.httpClient(asServiceAccount), http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode instance %s: %w", id, err)
	}
	var data map[string]interface{}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode instance %s: %w", id, err)
		}
	}
	if data == nil {
		return nil, ErrNotFound
	}
	return data, nil
}

// TypesOfInstance returns the semantic types of one instance
func (c *Client) TypesOfInstance(ctx context.Context, id string, stage model.Stage, asServiceAccount bool) ([]string, error) {
	data, err := c.Instance(ctx, id, stage, asServiceAccount)
	if err != nil {
		return nil, err
	}
	return stringValues(data["@type"]), nil
}

// AuthEndpoint returns the identity provider endpoint the KG trusts. Only
// successful lookups are cached, an empty string means unknown.
func (c *Client) AuthEndpoint(ctx context.Context) string {
	c.authMu.Lock()
	defer c.authMu.Unlock()
	if c.authEndpoint != "" {
		return c.authEndpoint
	}
	body, err := c.do(ctx, c.service, http.MethodGet, c.endpoint+"/users/authorization", nil)
	if err != nil {
		c.logger.WithError(err).Error("Was not able to fetch the auth endpoint from KG")
		return ""
	}
	var result struct {
		Data struct {
			Endpoint string `json:"endpoint"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.WithError(err).Error("Was not able to decode the auth endpoint from KG")
		return ""
	}
	c.authEndpoint = result.Data.Endpoint
	return c.authEndpoint
}

// Invitations returns the ids of the instances the calling user was invited
// to review
func (c *Client) Invitations(ctx context.Context) ([]string, error) {
	body, err := c.do(ctx, c.user, http.MethodGet, c.endpoint+"/users/me/roles", nil)
	if err != nil {
		return nil, err
	}
	var result struct {
		Data struct {
			Invitations []interface{} `json:"invitations"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode roles: %w", err)
	}
	var ids []string
	for _, i := range result.Data.Invitations {
		s, ok := i.(string)
		if !ok {
			continue
		}
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id.String())
		}
	}
	return model.Distinct(ids), nil
}

// UploadQuery stores a query definition in the kg-search space
func (c *Client) UploadQuery(ctx context.Context, queryID string, payload []byte) error {
	u := fmt.Sprintf("%s/queries/%s?space=kg-search", c.endpoint, queryID)
	_, err := c.do(ctx, c.service, http.MethodPut, u, payload)
	return err
}

func stringValues(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []interface{}:
		result := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
