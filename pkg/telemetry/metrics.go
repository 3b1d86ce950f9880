package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricOpts holds options for creating metrics
type MetricOpts struct {
	Name        string
	Description string
	Unit        string
}

// Counter wraps an OTel counter for easier use
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a new counter metric
func NewCounter(opts MetricOpts) (*Counter, error) {
	meter := GetMeter()
	counter, err := meter.Int64Counter(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Counter{counter: counter}, nil
}

// Add increments the counter by the given value
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Inc increments the counter by 1
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Histogram wraps an OTel histogram for easier use
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a new histogram metric
func NewHistogram(opts MetricOpts) (*Histogram, error) {
	meter := GetMeter()
	histogram, err := meter.Float64Histogram(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Histogram{histogram: histogram}, nil
}

// Record records a value in the histogram
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// Gauge wraps an OTel gauge for easier use
type Gauge struct {
	gauge metric.Int64Gauge
}

// NewGauge creates a new gauge metric
func NewGauge(opts MetricOpts) (*Gauge, error) {
	meter := GetMeter()
	gauge, err := meter.Int64Gauge(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Gauge{gauge: gauge}, nil
}

// Record sets the gauge to the given value
func (g *Gauge) Record(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	g.gauge.Record(ctx, value, metric.WithAttributes(attrs...))
}

// EngineMetrics bundles the engine's operational metrics
type EngineMetrics struct {
	MintedTickets  *Counter
	ResoldTickets  *Counter
	FailedRequests *Counter
	QuoteLatency   *Histogram
	MintedSupply   *Gauge
}

// NewEngineMetrics creates the engine metric set
func NewEngineMetrics() (*EngineMetrics, error) {
	minted, err := NewCounter(MetricOpts{
		Name:        "nftickets.tickets.minted",
		Description: "Number of tickets minted",
		Unit:        "{ticket}",
	})
	if err != nil {
		return nil, err
	}
	resold, err := NewCounter(MetricOpts{
		Name:        "nftickets.tickets.resold",
		Description: "Number of tickets resold on the secondary market",
		Unit:        "{ticket}",
	})
	if err != nil {
		return nil, err
	}
	failed, err := NewCounter(MetricOpts{
		Name:        "nftickets.requests.failed",
		Description: "Number of failed engine operations",
		Unit:        "{request}",
	})
	if err != nil {
		return nil, err
	}
	quoteLatency, err := NewHistogram(MetricOpts{
		Name:        "nftickets.quote.duration",
		Description: "Price quote computation latency",
		Unit:        "s",
	})
	if err != nil {
		return nil, err
	}
	supply, err := NewGauge(MetricOpts{
		Name:        "nftickets.supply.minted",
		Description: "Current minted supply",
		Unit:        "{ticket}",
	})
	if err != nil {
		return nil, err
	}

	return &EngineMetrics{
		MintedTickets:  minted,
		ResoldTickets:  resold,
		FailedRequests: failed,
		QuoteLatency:   quoteLatency,
		MintedSupply:   supply,
	}, nil
}
