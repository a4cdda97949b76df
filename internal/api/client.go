// Package api is the client for the remote storefront HTTP API.
//
// Each method issues exactly one request and returns either the typed payload
// or one of *NetworkError, *MalformedError or *RejectedError. The client never
// retries and adds no timeouts of its own; cancellation comes from the
// caller's context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/kart-storefront/internal/wire"
	"github.com/xenking/kart-storefront/pkg/httpmiddleware"
)

const instrumentationName = "github.com/xenking/kart-storefront/internal/api"

// maxBodySize bounds how much of a response is read.
const maxBodySize = 4 << 20

// Client talks to the storefront API rooted at a base address.
type Client struct {
	base   string
	http   *http.Client
	tracer trace.Tracer
	calls  metric.Int64Counter
	ids    idForms
}

type options struct {
	httpClient     *http.Client
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient sets the HTTP client used for requests. Its transport is used
// as is; the request ID and otelhttp transports are only installed on the
// default client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTracerProvider sets the tracer provider. The global provider is used by
// default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider. The global provider is used by
// default.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// New creates a Client for baseURL, e.g. "http://localhost:3001/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	o := options{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{
			Transport: otelhttp.NewTransport(
				&httpmiddleware.RequestIDTransport{Base: http.DefaultTransport},
				otelhttp.WithTracerProvider(o.tracerProvider),
				otelhttp.WithMeterProvider(o.meterProvider),
			),
		}
	}

	calls, err := o.meterProvider.Meter(instrumentationName).Int64Counter("storefront.api.requests",
		metric.WithDescription("Storefront API calls by operation and outcome"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create requests counter")
	}

	return &Client{
		base:   strings.TrimRight(u.String(), "/"),
		http:   o.httpClient,
		tracer: o.tracerProvider.Tracer(instrumentationName),
		calls:  calls,
	}, nil
}

// BaseURL returns the address requests are sent to.
func (c *Client) BaseURL() string {
	return c.base
}

// call performs one request and returns the decoded envelope of a successful
// response. body, when non-nil, is sent as JSON.
func (c *Client) call(ctx context.Context, op, method, path string, body any) (env *wire.Envelope, rerr error) {
	ctx, span := c.tracer.Start(ctx, "storefront."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.method", method)),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		c.calls.Add(ctx, 1, metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("outcome", outcome(rerr)),
		))
		span.End()
	}()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: encode request", op)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: create request", op)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: errors.Wrap(err, "read body")}
	}

	env, err = wire.DecodeEnvelope(data)
	if err != nil {
		return nil, &MalformedError{Op: op, Status: resp.StatusCode, Err: err}
	}
	if !env.Success {
		return nil, &RejectedError{Op: op, Status: resp.StatusCode, Reason: env.Error}
	}
	return env, nil
}

// payload decodes the envelope member field into v, reporting absence or a
// type mismatch as a malformed response.
func payload(op string, env *wire.Envelope, field string, v any) error {
	if err := env.Decode(field, v); err != nil {
		return &MalformedError{Op: op, Status: http.StatusOK, Err: err}
	}
	return nil
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}
