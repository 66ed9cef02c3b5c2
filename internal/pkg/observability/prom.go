package observability

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	ServiceName = "staffhours"
)

// Registry holds every metric of a run. A batch process has nothing to scrape,
// so the registry is pushed to a Pushgateway when one is configured.
var Registry = prometheus.NewRegistry()

var (
	SyncRecords = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "sync", "records_total"),
		Help: "Records written to the local store, by resource",
	}, []string{"resource"})
	SyncPages = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "sync", "pages_total"),
		Help: "Pages fetched from the time tracking service, by resource",
	}, []string{"resource"})
	FetchRetries = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "fetch", "retries_total"),
		Help: "Page fetch attempts that were retried after a transient failure",
	}, []string{"resource"})
	InvalidRecords = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "fetch", "invalid_records_total"),
		Help: "Fetched records dropped because they failed validation",
	}, []string{"resource"})
	SyncDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "sync", "duration_seconds"),
		Help:    "Duration of a sync stage in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	}, []string{"stage"})
	LastSuccess = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "sync", "last_success_timestamp_seconds"),
		Help: "Unix time of the last run that completed without error",
	})
)

// Push sends the registry to the Pushgateway at url, grouped by organization.
func Push(ctx context.Context, url string, organizationID int64) error {
	err := push.New(url, ServiceName).
		Gatherer(Registry).
		Grouping("organization", strconv.FormatInt(organizationID, 10)).
		PushContext(ctx)
	return errors.Wrap(err, "failed to push metrics")
}
