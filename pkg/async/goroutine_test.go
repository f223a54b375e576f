package async

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/platinummonkey/kgsearch/pkg/observability"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task did not complete")
	}
}

func TestSafeGo(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(context.Context) error
		expected string
	}{
		{
			name: "success",
			fn:   func(context.Context) error { return nil },
		},
		{
			name:     "error is logged",
			fn:       func(context.Context) error { return errors.New("index unavailable") },
			expected: "index unavailable",
		},
		{
			name:     "panic is recovered",
			fn:       func(context.Context) error { panic("boom") },
			expected: "PANIC recovered",
		},
		{
			name: "timeout cancels the context",
			fn: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			expected: "deadline exceeded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &syncBuffer{}
			logger := observability.NewLogger(observability.InfoLevel, out)

			wait(t, SafeGo(context.Background(), logger, 50*time.Millisecond, "test task", tt.fn))

			if tt.expected == "" {
				assert.Empty(t, out.String())
			} else {
				assert.Contains(t, out.String(), tt.expected)
				assert.Contains(t, out.String(), "test task")
			}
		})
	}
}
