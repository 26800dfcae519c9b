// Package metrics exposes Prometheus counters for map interaction and dataset loading.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Click outcomes.
const (
	ClickRecord = "record" // a record was dispatched
	ClickInert  = "inert"  // shape without a record
	ClickMiss   = "miss"   // ocean / no shape
)

var (
	ClicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eemap_clicks_total",
		Help: "Map clicks by outcome",
	}, []string{"result"})
	DatasetLoadSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eemap_dataset_load_seconds",
		Help:    "Dataset fetch and decode duration",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"dataset"})
	DatasetLoadFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eemap_dataset_load_failures_total",
		Help: "Dataset loads that failed",
	}, []string{"dataset"})
	SceneRebuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eemap_scene_rebuilds_total",
		Help: "Number of times the draw command list was rebuilt",
	})
	ImageLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eemap_image_loads_total",
		Help: "Overlay image loads by status",
	}, []string{"status"})
	RecordsPublishedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eemap_records_published_total",
		Help: "Record selections broadcast to websocket clients",
	})
)

func init() {
	prometheus.MustRegister(ClicksTotal)
	prometheus.MustRegister(DatasetLoadSeconds)
	prometheus.MustRegister(DatasetLoadFailuresTotal)
	prometheus.MustRegister(SceneRebuildsTotal)
	prometheus.MustRegister(ImageLoadsTotal)
	prometheus.MustRegister(RecordsPublishedTotal)
}

// Handler serves the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
