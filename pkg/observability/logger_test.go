package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/sizediff/pkg/observability"
)

func jsonLogger(buf *bytes.Buffer, env string, mode observability.AppMode) *slog.Logger {
	inner := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(observability.NewTracingHandler(inner, "sizediff", env, mode))
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func spanContext(t *testing.T) context.Context {
	t.Helper()

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestTracingHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		env   string
		mode  observability.AppMode
		log   func(ctx context.Context, l *slog.Logger)
		ctx   func(t *testing.T) context.Context
		check func(t *testing.T, record map[string]any)
	}{
		{
			name: "trace context",
			env:  "ci",
			mode: observability.ModeCI,
			ctx:  spanContext,
			log:  func(ctx context.Context, l *slog.Logger) { l.InfoContext(ctx, "parsed report") },
			check: func(t *testing.T, record map[string]any) {
				t.Helper()
				assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
				assert.Equal(t, "0102030405060708", record["span_id"])
				assert.Equal(t, "ci", record["env"])
				assert.Equal(t, "ci", record["mode"])
			},
		},
		{
			name: "no span",
			mode: observability.ModeCLI,
			log:  func(ctx context.Context, l *slog.Logger) { l.InfoContext(ctx, "write ok") },
			check: func(t *testing.T, record map[string]any) {
				t.Helper()
				assert.NotContains(t, record, "trace_id")
				assert.NotContains(t, record, "env")
				assert.Equal(t, "cli", record["mode"])
			},
		},
		{
			name: "group keeps service on top",
			mode: observability.ModeCLI,
			log: func(ctx context.Context, l *slog.Logger) {
				l.WithGroup("compare").InfoContext(ctx, "rows paired", slog.String("join", "position"))
			},
			check: func(t *testing.T, record map[string]any) {
				t.Helper()

				group, ok := record["compare"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "position", group["join"])
			},
		},
		{
			name: "with attrs",
			mode: observability.ModeCLI,
			log: func(ctx context.Context, l *slog.Logger) {
				l.With(slog.String("op", "compare")).InfoContext(ctx, "started")
			},
			check: func(t *testing.T, record map[string]any) {
				t.Helper()
				assert.Equal(t, "compare", record["op"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx(t)
			}

			tt.log(ctx, jsonLogger(&buf, tt.env, tt.mode))

			record := decodeRecord(t, &buf)
			assert.Equal(t, "sizediff", record["service"])
			tt.check(t, record)
		})
	}
}
