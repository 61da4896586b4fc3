package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeterProvider registers a Prometheus-backed global MeterProvider with
// Go runtime metrics. It returns the /metrics handler and a shutdown func.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(newResource(serviceName, serviceVersion)),
	)
	otel.SetMeterProvider(mp)

	if err := runtime.Start(
		runtime.WithMeterProvider(mp),
		runtime.WithMinimumReadMemStatsInterval(15*time.Second),
	); err != nil {
		return nil, nil, fmt.Errorf("start runtime metrics: %w", err)
	}

	return promhttp.Handler(), mp.Shutdown, nil
}

// Code lookup outcomes.
const (
	LookupFound   = "found"
	LookupUnknown = "unknown"
	LookupInvalid = "invalid"
)

type Metrics struct {
	ordersPlaced     metric.Int64Counter
	orderRevenue     metric.Int64Counter
	customersCreated metric.Int64Counter
	codeLookups      metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	ordersPlaced, err := meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders accepted at checkout"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	orderRevenue, err := meter.Int64Counter("storefront.orders.revenue",
		metric.WithDescription("Sum of accepted order totals"),
		metric.WithUnit("RUB"),
	)
	if err != nil {
		return nil, err
	}

	customersCreated, err := meter.Int64Counter("storefront.customers.created",
		metric.WithDescription("Customer codes assigned at checkout"),
		metric.WithUnit("{customer}"),
	)
	if err != nil {
		return nil, err
	}

	codeLookups, err := meter.Int64Counter("storefront.code.lookups",
		metric.WithDescription("Customer code link and QR visits by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ordersPlaced:     ordersPlaced,
		orderRevenue:     orderRevenue,
		customersCreated: customersCreated,
		codeLookups:      codeLookups,
	}, nil
}

func (m *Metrics) OrderPlaced(ctx context.Context, total int64) {
	m.ordersPlaced.Add(ctx, 1)
	m.orderRevenue.Add(ctx, total)
}

func (m *Metrics) CustomerCreated(ctx context.Context) {
	m.customersCreated.Add(ctx, 1)
}

func (m *Metrics) CodeLookup(ctx context.Context, result string) {
	m.codeLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
