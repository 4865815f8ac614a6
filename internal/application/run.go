package application

import (
	"context"
	"strings"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/Zhima-Mochi/storefront/internal/observability/logctx"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const SpanPrefix = "UC."

// Run tracks one use case execution: its span, RED metrics and the closing use_case_done log.
//
//	ctx, run := application.Begin(ctx, s.tel, "catalog.product.create", "CreateProduct")
//	defer func() { run.End(err) }()
type Run struct {
	useCase string
	span    trace.Span
	start   time.Time
	logger  observability.Logger
	reqs    observability.Counter
	dur     observability.Histogram

	status string
	fields []observability.Field
}

// Begin opens the span and binds a use-case logger onto the returned context.
func Begin(ctx context.Context, tel observability.Observability, useCase, spanName string, attrs ...attribute.KeyValue) (context.Context, *Run) {
	attrs = append(attrs, attribute.String("use_case", useCase))
	ctx, span := observability.TracerOf(tel).Start(ctx, SpanPrefix+spanName, attrs...)

	logger := logctx.FromOr(ctx, observability.LoggerOf(tel)).With(observability.F("use_case", useCase))
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		logger = logger.With(
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	ctx = logctx.With(ctx, logger)

	m := observability.MetricsOf(tel)
	return ctx, &Run{
		useCase: useCase,
		span:    span,
		start:   time.Now(),
		logger:  logger,
		reqs:    m.Counter(observability.MUsecaseRequests),
		dur:     m.Histogram(observability.MUsecaseDuration),
		status:  "OK",
	}
}

func (r *Run) Span() trace.Span             { return r.span }
func (r *Run) Logger() observability.Logger { return r.logger }

// Status overrides the status text reported on the span and the closing log.
func (r *Run) Status(status string) { r.status = status }

// Annotate adds fields to the closing log.
func (r *Run) Annotate(fields ...observability.Field) { r.fields = append(r.fields, fields...) }

// End closes the run. A non-nil err marks the outcome as error; its kind becomes the status
// unless Status was set explicitly.
func (r *Run) End(err error) {
	lat := time.Since(r.start).Seconds()
	outcome := "success"
	if err != nil {
		outcome = "error"
		if r.status == "OK" {
			r.status = strings.ToUpper(string(apperr.KindOf(err)))
		}
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, r.status)
	} else {
		r.span.SetStatus(codes.Ok, r.status)
	}
	r.span.End()

	r.reqs.Add(1, observability.L("use_case", r.useCase), observability.L("outcome", outcome))
	r.dur.Observe(lat, observability.L("use_case", r.useCase))

	fields := append([]observability.Field{
		observability.F("outcome", outcome),
		observability.F("status", r.status),
		observability.F("latency_seconds", lat),
	}, r.fields...)
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}
	r.logger.Info("use_case_done", fields...)
}
