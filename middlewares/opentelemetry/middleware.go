package opentelemetry

import (
	"context"

	"github.com/coderi421/kaede"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/coderi421/kaede/middlewares/opentelemetry"

type MiddlewareBuilder struct {
	Tracer trace.Tracer
}

func (m *MiddlewareBuilder) Build() kaede.Middleware {
	if m.Tracer == nil {
		// 创建 tracer 实例
		m.Tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return func(next kaede.Handler) kaede.Handler {
		return func(ctx context.Context, qc *kaede.QueryContext) *kaede.QueryResult {
			tbl := "unknown"
			if qc.Model != nil {
				tbl = qc.Model.TableName
			}
			spanCtx, span := m.Tracer.Start(ctx, qc.Type+"-"+tbl)
			defer span.End()

			span.SetAttributes(attribute.String("orm.table", tbl))
			span.SetAttributes(attribute.String("orm.type", qc.Type))
			q, err := qc.Builder.Build()
			if err == nil {
				span.SetAttributes(attribute.String("orm.sql", q.SQL))
			}

			res := next(spanCtx, qc)
			if res.Err != nil {
				span.RecordError(res.Err)
			}
			return res
		}
	}
}
