package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name   string
		log    func(*Logger)
		logged bool
		level  string
	}{
		{"debug", func(l *Logger) { l.Debug("page read") }, false, ""},
		{"info", func(l *Logger) { l.Infof("indexed %d documents", 3) }, true, "INFO"},
		{"warn", func(l *Logger) { l.Warn("page absent") }, true, "WARN"},
		{"error", func(l *Logger) { l.Errorf("bulk failed: %s", "timeout") }, true, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewLogger(InfoLevel, &buf))
			if !tt.logged {
				assert.Zero(t, buf.Len())
				return
			}
			assert.Equal(t, tt.level, decode(t, &buf)["level"])
		})
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf).
		WithField("translator", "DatasetVersionV3").
		WithFields(map[string]interface{}{"from": 0, "size": 500}).
		WithError(errors.New("kg unavailable"))

	logger.Info("Queried")

	entry := decode(t, &buf)
	assert.Equal(t, "Queried", entry["msg"])
	assert.Equal(t, "DatasetVersionV3", entry["translator"])
	assert.Equal(t, float64(500), entry["size"])
	assert.Equal(t, "kg unavailable", entry["error"])
}

func TestWithNilError(t *testing.T) {
	logger := NewLogger(InfoLevel, nil)
	assert.Same(t, logger, logger.WithError(nil))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"", InfoLevel, false},
		{" INFO ", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), NewLogger(InfoLevel, &buf))
	ctx = WithRequestID(ctx, "req-123")

	FromContext(ctx).Info("request")

	entry := decode(t, &buf)
	assert.Equal(t, "req-123", entry["request_id"])
	assert.NotContains(t, entry, "trace_id")
}

func TestFromContextWithSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "search")
	defer span.End()

	var buf bytes.Buffer
	FromContext(WithLogger(ctx, NewLogger(InfoLevel, &buf))).Info("request")

	entry := decode(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
}

func TestGetLoggerDefault(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))
}
