package telemetry

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentResty wraps every request the client makes in a span
// carrying the headers and a bounded copy of the bodies.
func InstrumentResty(client *resty.Client, tracerName string) {
	tracer := otel.Tracer(tracerName)

	client.OnBeforeRequest(func(cli *resty.Client, req *resty.Request) error {
		ctx, _ := tracer.Start(req.Context(), req.Method)
		req.SetContext(ctx)
		return nil
	})
	client.OnAfterResponse(onAfterResponse)
	client.OnError(onError)
}

func headerAttributes(prefix string, headers http.Header) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for header, values := range headers {
		if len(values) == 1 {
			attrs = append(attrs, attribute.String(
				fmt.Sprintf("%s/header: %s", prefix, header), values[0],
			))
			continue
		}
		for i, v := range values {
			attrs = append(attrs, attribute.String(
				fmt.Sprintf("%s/header: %s (%d)", prefix, header, i), v,
			))
		}
	}
	return attrs
}

// rereads the request body through GetBody, the original reader has
// already been consumed by the time the response hooks run
func requestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return ""
	}
	reader, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err)
	}
	if reader == nil {
		return ""
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err)
	}
	return string(body)
}

const maxRecordedBody = 4096

func isTextContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "text/") ||
		strings.Contains(contentType, "json") ||
		strings.Contains(contentType, "xml")
}

// records the leading chunk of text responses. archive downloads
// come through this client too and a multi-megabyte zip has no
// business living inside a span attribute.
func recordResponseBody(span trace.Span, res *resty.Response) {
	if !isTextContentType(res.Header().Get("Content-Type")) {
		span.SetAttributes(attribute.String(
			"response/body", fmt.Sprintf("<%d binary bytes>", res.Size()),
		))
		return
	}
	body := res.String()
	if len(body) > maxRecordedBody {
		body = body[:maxRecordedBody]
	}
	span.SetAttributes(attribute.String("response/body", body))
}

func onAfterResponse(_ *resty.Client, res *resty.Response) error {
	span := trace.SpanFromContext(res.Request.Context())
	defer span.End()

	// RawRequest is only populated once the request has gone out, so
	// the request attributes get attached here instead of up front
	span.SetName(fmt.Sprintf("http %s", res.Request.Method))
	span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	span.SetAttributes(headerAttributes("request", res.Request.Header)...)
	span.SetAttributes(headerAttributes("response", res.Header())...)

	if body := requestBody(res.Request.RawRequest); body != "" {
		span.SetAttributes(attribute.String("request/body", body))
	}
	recordResponseBody(span, res)

	return nil
}

func onError(req *resty.Request, err error) {
	span := trace.SpanFromContext(req.Context())
	defer span.End()

	span.SetName(fmt.Sprintf("http %s", req.Method))
	span.SetAttributes(headerAttributes("request", req.Header)...)
	if req.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
		if body := requestBody(req.RawRequest); body != "" {
			span.SetAttributes(attribute.String("request/body", body))
		}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
