package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	reg           *prom.Registry
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	categories    prom.Gauge
	lists         prom.Gauge
	items         prom.Gauge
	clusters      prom.Gauge
	httpCache     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "listbuilder",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "listbuilder",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.categories = prom.NewGauge(prom.GaugeOpts{
			Namespace: "listbuilder",
			Name:      "categories",
			Help:      "Categories found in the last build",
		})
		pr.lists = prom.NewGauge(prom.GaugeOpts{
			Namespace: "listbuilder",
			Name:      "lists",
			Help:      "Lists found in the last build",
		})
		pr.items = prom.NewGauge(prom.GaugeOpts{
			Namespace: "listbuilder",
			Name:      "items",
			Help:      "Items across all lists in the last build",
		})
		pr.clusters = prom.NewGauge(prom.GaugeOpts{
			Namespace: "listbuilder",
			Name:      "clusters",
			Help:      "Clusters written by the last merge",
		})
		pr.httpCache = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "listbuilder",
			Name:      "http_cache_requests_total",
			Help:      "HTTP cache lookups by result",
		}, []string{"result"})
		reg.MustRegister(pr.stageDuration, pr.stageResults, pr.categories, pr.lists, pr.items, pr.clusters, pr.httpCache)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) SetListTotals(categories, lists, items int) {
	if p == nil || p.categories == nil {
		return
	}
	p.categories.Set(float64(categories))
	p.lists.Set(float64(lists))
	p.items.Set(float64(items))
}

func (p *PrometheusRecorder) SetClusterTotal(n int) {
	if p == nil || p.clusters == nil {
		return
	}
	p.clusters.Set(float64(n))
}

func (p *PrometheusRecorder) IncHTTPCache(result CacheResult) {
	if p == nil || p.httpCache == nil {
		return
	}
	p.httpCache.WithLabelValues(string(result)).Inc()
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
// The write is atomic so a collector never reads a partial file.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if p == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
