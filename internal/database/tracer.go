package database

import (
	"context"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	loggerConfig "github.com/singnet/snet-converter-services/internal/logger"
)

// multiTracer allows chaining multiple tracers.
//
// pgx supports a single Tracer in ConnConfig. This adapter runs every
// tracer that implements TraceQueryStart / TraceQueryEnd, in order,
// threading the context through each call.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// newQueryTracer builds the tracer attached to every pool:
//   - tracelog through pgx-zerolog, at the application log level (verbose
//     SQL logging at debug)
//   - a SlowQueryTracer when threshold > 0
func newQueryTracer(logger *zerolog.Logger, threshold time.Duration) pgx.QueryTracer {
	globalLevel := logger.GetLevel()
	pgxLogger := loggerConfig.NewPgxLogger(*logger)

	tracers := []any{
		&tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		},
	}

	if threshold > 0 {
		tracers = append(tracers, NewSlowQueryTracer(logger, threshold))
	}

	return &multiTracer{tracers: tracers}
}

type slowQueryKey struct{}

// SlowQueryTracer logs a warning for queries slower than Threshold.
type SlowQueryTracer struct {
	Threshold time.Duration
	log       *zerolog.Logger
	now       func() time.Time
}

func NewSlowQueryTracer(logger *zerolog.Logger, threshold time.Duration) *SlowQueryTracer {
	return &SlowQueryTracer{Threshold: threshold, log: logger, now: time.Now}
}

type slowQueryStart struct {
	sql   string
	start time.Time
}

func (t *SlowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, slowQueryKey{}, slowQueryStart{sql: data.SQL, start: t.now()})
}

func (t *SlowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	started, ok := ctx.Value(slowQueryKey{}).(slowQueryStart)
	if !ok {
		return
	}

	elapsed := t.now().Sub(started.start)
	if elapsed < t.Threshold {
		return
	}

	event := t.log.Warn().
		Str("sql", started.sql).
		Dur("duration", elapsed).
		Dur("threshold", t.Threshold).
		Str("command_tag", data.CommandTag.String())
	if data.Err != nil {
		event = event.Err(data.Err)
	}
	event.Msg("slow query")
}
