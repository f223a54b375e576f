package kgclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/kgsearch/pkg/contextkeys"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
)

type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *recordingSleeper) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sleeper := &recordingSleeper{}
	opts = append([]Option{
		WithHTTPClient(srv.Client()),
		WithSleeper(sleeper.sleep),
		WithLogger(observability.NewLogger(observability.ErrorLevel, io.Discard)),
	}, opts...)
	c, err := New(Config{Endpoint: srv.URL + "/"}, opts...)
	require.NoError(t, err)
	return c, sleeper
}

func TestNewRequiresEndpoint(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestRetryPolicyDelay(t *testing.T) {
	policy := NewRetryPolicy(DefaultRetryConfig())

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 10 * time.Second},
		{2, 40 * time.Second},
		{3, 90 * time.Second},
		{4, 160 * time.Second},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt %d", tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Delay(tt.attempt))
		})
	}
}

func TestRetryPolicyShouldRetry(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{})
	assert.Equal(t, 5, policy.MaxAttempts())
	assert.False(t, policy.ShouldRetry(1, nil))
	assert.True(t, policy.ShouldRetry(4, errors.New("boom")))
	assert.False(t, policy.ShouldRetry(5, errors.New("boom")))
}

func TestExecuteQueryForIndexingRetries(t *testing.T) {
	tests := []struct {
		name      string
		failures  int32
		wantOK    bool
		wantCalls int32
		wantWaits []time.Duration
	}{
		{
			name:      "first call succeeds",
			failures:  0,
			wantOK:    true,
			wantCalls: 1,
			wantWaits: []time.Duration{0},
		},
		{
			name:      "three failures then success",
			failures:  3,
			wantOK:    true,
			wantCalls: 4,
			wantWaits: []time.Duration{0, 10 * time.Second, 40 * time.Second, 90 * time.Second},
		},
		{
			name:      "five failures give up",
			failures:  5,
			wantOK:    false,
			wantCalls: 5,
			wantWaits: []time.Duration{0, 10 * time.Second, 40 * time.Second, 90 * time.Second, 160 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			var observed []int
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/queries/q1/instances", r.URL.Path)
				assert.Equal(t, "RELEASED", r.URL.Query().Get("stage"))
				assert.Equal(t, "20", r.URL.Query().Get("from"))
				assert.Equal(t, "10", r.URL.Query().Get("size"))
				if atomic.AddInt32(&calls, 1) <= tt.failures {
					w.WriteHeader(http.StatusBadGateway)
					return
				}
				_, _ = w.Write([]byte(`{"data":[],"total":0}`))
			})
			c, sleeper := newTestClient(t, handler, WithRetryObserver(func(queryID string, attempt int) {
				assert.Equal(t, "q1", queryID)
				observed = append(observed, attempt)
			}))

			body, ok := c.ExecuteQueryForIndexing(context.Background(), "q1", model.StageReleased, 20, 10)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
			assert.Equal(t, tt.wantWaits, sleeper.waits)
			assert.Len(t, observed, int(tt.failures))
			if tt.wantOK {
				assert.JSONEq(t, `{"data":[],"total":0}`, string(body))
			} else {
				assert.Nil(t, body)
			}
		})
	}
}

func TestExecuteQueryForIndexingCancelled(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	c, _ := newTestClient(t, handler, WithSleeper(SleepContext))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	body, ok := c.ExecuteQueryForIndexing(ctx, "q1", model.StageReleased, 0, 10)

	assert.False(t, ok)
	assert.Nil(t, body)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}

func TestExecuteQueryForInstance(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantErr    error
		wantStatus int
	}{
		{name: "found", status: http.StatusOK},
		{name: "not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "upstream failure", status: http.StatusServiceUnavailable, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/queries/q2/instances", r.URL.Path)
				assert.Equal(t, "IN_PROGRESS", r.URL.Query().Get("stage"))
				assert.Equal(t, "abc", r.URL.Query().Get("instanceId"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"data":[{"id":"abc"}],"total":1}`))
			})
			c, _ := newTestClient(t, handler)

			body, err := c.ExecuteQueryForInstance(context.Background(), "q2", model.StageInProgress, "abc", true)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantStatus != 0:
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, tt.wantStatus, statusErr.StatusCode)
			default:
				require.NoError(t, err)
				assert.Contains(t, string(body), `"total":1`)
			}
		})
	}
}

func TestUserCallsForwardBearerToken(t *testing.T) {
	var got []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	c, _ := newTestClient(t, handler)
	ctx := contextkeys.WithUserToken(context.Background(), "user-token")

	_, err := c.ExecuteQueryForInstance(ctx, "q", model.StageInProgress, "id", false)
	require.NoError(t, err)
	_, err = c.ExecuteQueryForInstance(ctx, "q", model.StageInProgress, "id", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer user-token", ""}, got)
}

func TestTypesOfInstance(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "list of types",
			body: `{"data":{"@id":"x","@type":["https://openminds.ebrains.eu/core/Dataset","https://openminds.ebrains.eu/core/Other"]}}`,
			want: []string{"https://openminds.ebrains.eu/core/Dataset", "https://openminds.ebrains.eu/core/Other"},
		},
		{
			name: "single type",
			body: `{"data":{"@type":"https://openminds.ebrains.eu/core/Person"}}`,
			want: []string{"https://openminds.ebrains.eu/core/Person"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/instances/abc", r.URL.Path)
				assert.Equal(t, "IN_PROGRESS", r.URL.Query().Get("stage"))
				_, _ = w.Write([]byte(tt.body))
			})
			c, _ := newTestClient(t, handler)

			types, err := c.TypesOfInstance(context.Background(), "abc", model.StageInProgress, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, types)
		})
	}
}

func TestInstanceWithoutDataIsNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	})
	c, _ := newTestClient(t, handler)

	_, err := c.Instance(context.Background(), "abc", model.StageReleased, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthEndpointCachesSuccessOnly(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/authorization", r.URL.Path)
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"endpoint":"https://iam.ebrains.eu/auth/realms/hbp"}}`))
	})
	c, _ := newTestClient(t, handler)
	ctx := context.Background()

	assert.Empty(t, c.AuthEndpoint(ctx))
	assert.Equal(t, "https://iam.ebrains.eu/auth/realms/hbp", c.AuthEndpoint(ctx))
	assert.Equal(t, "https://iam.ebrains.eu/auth/realms/hbp", c.AuthEndpoint(ctx))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestInvitations(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/roles", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"invitations":["2f4b1c37-0a1e-4a8f-9d7e-54bd06d1a2a1",3,"not-a-uuid","2F4B1C37-0A1E-4A8F-9D7E-54BD06D1A2A1"]}}`))
	})
	c, _ := newTestClient(t, handler)

	ids, err := c.Invitations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2f4b1c37-0a1e-4a8f-9d7e-54bd06d1a2a1"}, ids)
}

func TestUploadQuery(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/queries/q9", r.URL.Path)
		assert.Equal(t, "kg-search", r.URL.Query().Get("space"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"meta":{}}`, string(body))
	})
	c, _ := newTestClient(t, handler)

	assert.NoError(t, c.UploadQuery(context.Background(), "q9", []byte(`{"meta":{}}`)))
}
