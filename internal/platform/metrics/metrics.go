package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync outcomes recorded by the book synchronization listener.
const (
	OutcomeInvalidISBN   = "invalid_isbn"
	OutcomeAlreadyExists = "already_exists"
	OutcomeLookupFailed  = "lookup_failed"
	OutcomeFetchFailed   = "fetch_failed"
	OutcomeSaveFailed    = "save_failed"
	OutcomeStored        = "stored"
)

// Metrics holds all Prometheus metrics for the catalog.
type Metrics struct {
	BookSync         *prometheus.CounterVec
	ReviewsVerified  *prometheus.CounterVec
	MetadataCacheHit *prometheus.CounterVec
}

// New creates and registers the catalog metrics on reg.
// Pass prometheus.DefaultRegisterer in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookSync: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_book_sync_total",
			Help: "Book synchronization events processed, by outcome",
		}, []string{"outcome"}),
		ReviewsVerified: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_reviews_verified_total",
			Help: "Reviews run through the quality verifier, by verdict reason",
		}, []string{"reason"}),
		MetadataCacheHit: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_metadata_cache_lookups_total",
			Help: "Open Library metadata cache lookups, by result",
		}, []string{"result"}),
	}
}

// IncBookSync is nil-safe so components can run without metrics wired.
func (m *Metrics) IncBookSync(outcome string) {
	if m == nil {
		return
	}
	m.BookSync.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncReviewVerified(reason string) {
	if m == nil {
		return
	}
	m.ReviewsVerified.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncMetadataCache(result string) {
	if m == nil {
		return
	}
	m.MetadataCacheHit.WithLabelValues(result).Inc()
}
