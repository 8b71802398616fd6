package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type tracerKey struct{}

type traceData struct {
	sql   string
	start time.Time
}

// queryTracer logs every statement with its duration at debug level.
type queryTracer struct {
	logger *zap.Logger
}

func newQueryTracer(logger *zap.Logger) *queryTracer {
	return &queryTracer{logger: logger}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, tracerKey{}, traceData{sql: data.SQL, start: time.Now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	td, ok := ctx.Value(tracerKey{}).(traceData)
	if !ok {
		return
	}

	fields := []zap.Field{
		zap.String("query", td.sql),
		zap.Duration("duration", time.Since(td.start)),
		zap.String("tag", data.CommandTag.String()),
	}
	if data.Err != nil {
		t.logger.Warn("SQL query failed", append(fields, zap.Error(data.Err))...)
		return
	}
	t.logger.Debug("SQL query executed", fields...)
}
