package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments for the offer engine.
type Metrics struct {
	codeGroupsGenerated metric.Int64Counter
	codeGenFailures     metric.Int64Counter
	dealsServed         metric.Int64Counter
	relatedResolved     metric.Int64Counter
	ordersCreated       metric.Int64Counter
	rateLimitAllowed    metric.Int64Counter
	rateLimitDenied     metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "salespoint"
	}
	meter := provider.Meter(name)

	codeGroupsGenerated, err := meter.Int64Counter("salespoint_code_groups_generated_total")
	if err != nil {
		return nil, err
	}
	codeGenFailures, err := meter.Int64Counter("salespoint_code_generation_failures_total")
	if err != nil {
		return nil, err
	}
	dealsServed, err := meter.Int64Counter("salespoint_mobile_deals_served_total")
	if err != nil {
		return nil, err
	}
	relatedResolved, err := meter.Int64Counter("salespoint_related_subscriptions_resolved_total")
	if err != nil {
		return nil, err
	}
	ordersCreated, err := meter.Int64Counter("salespoint_orders_created_total")
	if err != nil {
		return nil, err
	}
	rateLimitAllowed, err := meter.Int64Counter("salespoint_rate_limit_allowed_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("salespoint_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		codeGroupsGenerated: codeGroupsGenerated,
		codeGenFailures:     codeGenFailures,
		dealsServed:         dealsServed,
		relatedResolved:     relatedResolved,
		ordersCreated:       ordersCreated,
		rateLimitAllowed:    rateLimitAllowed,
		rateLimitDenied:     rateLimitDenied,
	}, nil
}

// RecordCodeGroups increments generated code-group counts per cart kind.
func (m *Metrics) RecordCodeGroups(ctx context.Context, cartKind string, groups int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("cart_kind", strings.TrimSpace(cartKind)))
	m.codeGroupsGenerated.Add(ctx, int64(groups), metric.WithAttributes(attrs...))
}

// RecordCodeGenFailure increments generation failures by error kind.
func (m *Metrics) RecordCodeGenFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.codeGenFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDealsServed increments served mobile-deal responses.
func (m *Metrics) RecordDealsServed(ctx context.Context, deals int) {
	if m == nil {
		return
	}
	m.dealsServed.Add(ctx, int64(deals))
}

// RecordRelatedResolved increments resolver invocations per operator family.
func (m *Metrics) RecordRelatedResolved(ctx context.Context, family string, siblings int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("operator_family", strings.TrimSpace(family)))
	m.relatedResolved.Add(ctx, int64(siblings), metric.WithAttributes(attrs...))
}

// RecordOrderCreated increments created order counts.
func (m *Metrics) RecordOrderCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.ordersCreated.Add(ctx, 1)
}

// RecordRateLimitAllowed increments rate limit allow counts.
func (m *Metrics) RecordRateLimitAllowed(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint)))
	m.rateLimitAllowed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"endpoint":        {},
	"status_code":     {},
	"cart_kind":       {},
	"operator_family": {},
	"reason":          {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
