package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentResty opens a span per request on a resty client and logs
// request outcomes at debug level.
func InstrumentResty(client *resty.Client, tracerName string) {
	tracer := otel.Tracer(tracerName)

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		ctx, _ := tracer.Start(req.Context(), req.Method)
		slog.DebugContext(ctx, "start request", "method", req.Method, "url", req.URL)
		req.SetContext(ctx)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		ctx := res.Request.Context()
		span := trace.SpanFromContext(ctx)
		defer span.End()

		// request attributes are set here since RawRequest is still nil
		// in OnBeforeRequest
		span.SetName(fmt.Sprintf("http %s", res.Request.Method))
		span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
		span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)

		slog.DebugContext(
			ctx, "request finished",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
		)
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		ctx := req.Context()
		span := trace.SpanFromContext(ctx)
		defer span.End()

		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		span.SetName(fmt.Sprintf("http %s", req.Method))
		if req.RawRequest != nil {
			span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
		}

		slog.ErrorContext(
			ctx, "request failed",
			"method", req.Method,
			"url", req.URL,
			"err", err,
		)
	})
}
