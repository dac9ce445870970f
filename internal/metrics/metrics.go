package metrics

import (
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UploadsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cvmatch_uploads_total",
			Help: "Total number of CV uploads by terminal status.",
		},
		[]string{"status"},
	)
	SearchesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cvmatch_searches_total",
			Help: "Total number of job searches by outcome.",
		},
		[]string{"outcome"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cvmatch_backend_request_duration_seconds",
			Help:    "Duration of backend requests in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)
	NormalizationDiagnostics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cvmatch_job_normalization_diagnostics_total",
			Help: "Total number of job fields that were defaulted during normalization.",
		},
		[]string{"field"},
	)
)

var registerOnce sync.Once

// Register adds all collectors to the registerer once.
func Register(reg prometheus.Registerer) error {
	var err error
	registerOnce.Do(func() {
		for _, c := range []prometheus.Collector{
			UploadsCounter, SearchesCounter, RequestDuration, NormalizationDiagnostics,
		} {
			if regErr := reg.Register(c); regErr != nil {
				err = errors.Join(err, regErr)
			}
		}
	})
	return err
}

// Serve exposes the default registry on addr in the background.
func Serve(addr string, onError func(error)) error {
	if err := Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && onError != nil {
			onError(err)
		}
	}()

	return nil
}
