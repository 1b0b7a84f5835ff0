// Package catalog fetches the product catalog from the upstream storefront
// API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/errors"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/httpclient"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/logger"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/tracing"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/validator"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/domain"
)

const (
	tracerName = "github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/catalog"
	upstream   = "catalog"

	// DefaultMaxBodyBytes caps the catalog response size.
	DefaultMaxBodyBytes int64 = 8 << 20
)

// ErrUnavailable is returned when the catalog could not be fetched or its
// body could not be used. It wraps apperrors.ErrServiceUnavail.
var ErrUnavailable = fmt.Errorf("catalog unavailable: %w", apperrors.ErrServiceUnavail)

// Fetcher loads the full product catalog.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]domain.Product, error)
}

// HTTPFetcher fetches the catalog with a single GET per call. It never
// retries and never caches.
type HTTPFetcher struct {
	doer          httpclient.Doer
	url           string
	maxBodyBytes  int64
	slowThreshold time.Duration
	logger        *slog.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(f *HTTPFetcher) { f.maxBodyBytes = n }
}

// WithSlowFetchThreshold logs fetches slower than d at WARN. Zero disables it.
func WithSlowFetchThreshold(d time.Duration) Option {
	return func(f *HTTPFetcher) { f.slowThreshold = d }
}

// NewHTTPFetcher creates a fetcher for the catalog at url. doer is normally a
// *httpclient.CircuitBreakerClient.
func NewHTTPFetcher(doer httpclient.Doer, url string, logger *slog.Logger, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		doer:         doer,
		url:          url,
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// envelope is the upstream body. Result is a pointer so that a missing field
// can be told apart from an empty list.
type envelope struct {
	Result *[]json.RawMessage `json:"result"`
}

// FetchAll issues one request and returns the valid records in upstream
// order. Records without a usable id are skipped. Any failure of
// the request itself, including cancellation of ctx, yields an error wrapping
// ErrUnavailable.
func (f *HTTPFetcher) FetchAll(ctx context.Context) (products []domain.Product, err error) {
	start := time.Now()
	outcome := OutcomeSuccess

	ctx, span := tracing.StartSpan(ctx, tracerName, "catalog.FetchAll",
		attribute.String("catalog.url", f.url),
	)
	defer func() {
		elapsed := time.Since(start)
		FetchTotal.WithLabelValues(outcome).Inc()
		FetchDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
		span.SetAttributes(
			attribute.String("catalog.outcome", outcome),
			attribute.Int("catalog.records", len(products)),
		)
		tracing.EndSpan(span, err)

		if f.slowThreshold > 0 && elapsed > f.slowThreshold {
			f.log(ctx).Warn("slow catalog fetch",
				slog.Duration("duration", elapsed),
				slog.Duration("threshold", f.slowThreshold),
				slog.String("outcome", outcome),
			)
		}
	}()

	var env envelope
	if err := httpclient.GetJSON(ctx, f.doer, upstream, f.url, f.maxBodyBytes, &env); err != nil {
		outcome = classify(ctx, err)
		f.logFailure(ctx, outcome, err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if env.Result == nil {
		outcome = OutcomeMalformed
		err := errors.New(`response has no "result" field`)
		f.logFailure(ctx, outcome, err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	products = f.ingest(ctx, *env.Result)
	return products, nil
}

// ingest decodes and validates each raw record once.
func (f *HTTPFetcher) ingest(ctx context.Context, raw []json.RawMessage) []domain.Product {
	products := make([]domain.Product, 0, len(raw))
	for i, rec := range raw {
		var p domain.Product
		if err := json.Unmarshal(rec, &p); err != nil {
			RecordsSkipped.WithLabelValues("decode").Inc()
			f.log(ctx).Debug("skipping undecodable catalog record",
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		if err := validator.Validate(p); err != nil {
			RecordsSkipped.WithLabelValues("invalid").Inc()
			f.log(ctx).Debug("skipping invalid catalog record",
				slog.Int("index", i),
				slog.String("id", p.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		products = append(products, p)
	}
	return products
}

func classify(ctx context.Context, err error) string {
	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return OutcomeCanceled
	case errors.Is(err, httpclient.ErrCircuitOpen):
		return OutcomeBreakerOpen
	case httpclient.StatusCode(err) != 0:
		return OutcomeUpstream
	default:
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
			return OutcomeMalformed
		}
		return OutcomeUpstream
	}
}

func (f *HTTPFetcher) logFailure(ctx context.Context, outcome string, err error) {
	level := slog.LevelWarn
	if outcome == OutcomeCanceled {
		level = slog.LevelDebug
	}
	f.log(ctx).Log(ctx, level, "catalog fetch failed",
		slog.String("outcome", outcome),
		slog.String("url", f.url),
		slog.Int("upstream_status", httpclient.StatusCode(err)),
		slog.String("error", err.Error()),
	)
}

// log prefers the request-scoped logger so lines carry correlation ids.
func (f *HTTPFetcher) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	return f.logger
}
