// Package restyutil traces resty requests and can dump every exchange to
// disk, which is how pages that no longer parse get inspected.
package restyutil

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type instrumentCtx struct {
	output    InstrumentOutput
	tracer    trace.Tracer
	idcounter *uint64
}

type messageIdKeyType int

var messageIdKey messageIdKeyType

// InstrumentClient opens a span per request. `tracer` can be nil, it will
// default to a library name of "resty". When `output` is not nil every
// response is written to it.
func InstrumentClient(client *resty.Client, tracer trace.Tracer, output InstrumentOutput) {
	if tracer == nil {
		tracer = otel.Tracer("resty")
	}

	var idcounter uint64
	i := instrumentCtx{output: output, tracer: tracer, idcounter: &idcounter}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), fmt.Sprintf("http %s", req.Method))
	id := atomic.AddUint64(i.idcounter, 1)
	ctx = context.WithValue(ctx, messageIdKey, id)
	req.SetContext(ctx)
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(
		attribute.String("http.request.method", res.Request.Method),
		attribute.String("url.full", res.Request.URL),
		attribute.Int("http.response.status_code", res.StatusCode()),
	)
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, res.Status())
	}

	if i.output != nil {
		id, _ := ctx.Value(messageIdKey).(uint64)
		i.output.Write(fmt.Sprintf("%04d-%s.txt", id, res.Request.Method), formatHttpMessage(res))
	}
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	span := trace.SpanFromContext(req.Context())
	defer span.End()

	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.full", req.URL),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")
}
