package database

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func fakeClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestSlowQueryTracer(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		logged  bool
	}{
		{name: "fast query", elapsed: 10 * time.Millisecond, logged: false},
		{name: "at threshold", elapsed: 100 * time.Millisecond, logged: true},
		{name: "slow query", elapsed: time.Second, logged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			tracer := NewSlowQueryTracer(&logger, 100*time.Millisecond)
			tracer.now = fakeClock(base, base.Add(tt.elapsed))

			ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
			tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1")})

			if tt.logged {
				assert.Contains(t, buf.String(), `"message":"slow query"`)
				assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestSlowQueryTracer_IgnoresUntracedContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	tracer := NewSlowQueryTracer(&logger, time.Nanosecond)
	tracer.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})

	assert.Empty(t, buf.String())
}

type recordingTracer struct {
	calls *[]string
	name  string
}

func (r recordingTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	*r.calls = append(*r.calls, r.name+":start")
	return ctx
}

func (r recordingTracer) TraceQueryEnd(_ context.Context, _ *pgx.Conn, _ pgx.TraceQueryEndData) {
	*r.calls = append(*r.calls, r.name+":end")
}

func TestMultiTracer_RunsTracersInOrder(t *testing.T) {
	var calls []string
	mt := &multiTracer{tracers: []any{
		recordingTracer{calls: &calls, name: "a"},
		"not a tracer",
		recordingTracer{calls: &calls, name: "b"},
	}}

	ctx := mt.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{})
	mt.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	assert.Equal(t, []string{"a:start", "b:start", "a:end", "b:end"}, calls)
}

func TestNewQueryTracer_SkipsSlowQueryTracerWhenDisabled(t *testing.T) {
	logger := zerolog.Nop()

	withSlow := newQueryTracer(&logger, time.Second).(*multiTracer)
	assert.Len(t, withSlow.tracers, 2)

	withoutSlow := newQueryTracer(&logger, 0).(*multiTracer)
	assert.Len(t, withoutSlow.tracers, 1)
}
