package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records price resolution, write and quote outcomes.
type PricingMetrics struct {
	resolutions      *prometheus.CounterVec
	overlapConflicts prometheus.Counter
	writeDuration    *prometheus.HistogramVec
	quoteWarnings    *prometheus.CounterVec
	quoteLines       prometheus.Histogram
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_resolutions_total",
		Help: "Resolved prices by source.",
	}, []string{"source"})
	overlapConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "price_overlap_conflicts_total",
		Help: "Price record writes rejected for overlapping an existing period.",
	})
	writeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "price_record_write_duration_seconds",
		Help:    "Duration of price record writes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	quoteWarnings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_warnings_total",
		Help: "Non-fatal quote warnings by type.",
	}, []string{"type"})
	quoteLines := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quote_lines",
		Help:    "Number of lines per quote request.",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})
	reg.MustRegister(resolutions, overlapConflicts, writeDuration, quoteWarnings, quoteLines)
	return &PricingMetrics{
		resolutions:      resolutions,
		overlapConflicts: overlapConflicts,
		writeDuration:    writeDuration,
		quoteWarnings:    quoteWarnings,
		quoteLines:       quoteLines,
	}
}

// IncResolution counts one resolved price.
func (m *PricingMetrics) IncResolution(source string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncOverlapConflict counts one rejected write.
func (m *PricingMetrics) IncOverlapConflict() {
	if m == nil || m.overlapConflicts == nil {
		return
	}
	m.overlapConflicts.Inc()
}

// ObserveWrite records the duration of a price record write.
func (m *PricingMetrics) ObserveWrite(op string, duration time.Duration) {
	if m == nil || m.writeDuration == nil {
		return
	}
	m.writeDuration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncQuoteWarning counts one quote warning.
func (m *PricingMetrics) IncQuoteWarning(kind string) {
	if m == nil || m.quoteWarnings == nil {
		return
	}
	m.quoteWarnings.WithLabelValues(normalizeLabel(kind)).Inc()
}

// ObserveQuoteLines records how many lines a quote carried.
func (m *PricingMetrics) ObserveQuoteLines(lines int) {
	if m == nil || m.quoteLines == nil {
		return
	}
	m.quoteLines.Observe(float64(lines))
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
