// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

func getGaugeValue(gauge prometheus.Gauge) float64 {
	var m io_prometheus_client.Metric
	if err := gauge.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func histogramCount(h prometheus.Histogram) uint64 {
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/dishes", "200"))

	RecordAPIRequest("GET", "/api/v1/dishes", "200", 12*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/dishes", "200"))
	if after != before+1 {
		t.Errorf("APIRequestsTotal = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := getGaugeValue(APIActiveRequests)

	TrackActiveRequest(true)
	if got := getGaugeValue(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := getGaugeValue(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordRecommendation(t *testing.T) {
	stageBefore := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("relaxed"))
	resetsBefore := testutil.ToFloat64(RecommendationHistoryResets)
	poolBefore := histogramCount(RecommendationPoolSize)

	RecordRecommendation("relaxed", 4, true)
	RecordRecommendation("relaxed", 3, false)

	if got := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("relaxed")); got != stageBefore+2 {
		t.Errorf("RecommendationsTotal = %v, want %v", got, stageBefore+2)
	}
	if got := testutil.ToFloat64(RecommendationHistoryResets); got != resetsBefore+1 {
		t.Errorf("RecommendationHistoryResets = %v, want %v", got, resetsBefore+1)
	}
	if got := histogramCount(RecommendationPoolSize); got != poolBefore+2 {
		t.Errorf("pool size samples = %d, want %d", got, poolBefore+2)
	}
}

func TestRecordEnrichLookupAndCache(t *testing.T) {
	before := testutil.ToFloat64(EnrichLookups.WithLabelValues("takeout", "cached"))
	RecordEnrichLookup("takeout", "cached", 0)
	if got := testutil.ToFloat64(EnrichLookups.WithLabelValues("takeout", "cached")); got != before+1 {
		t.Errorf("EnrichLookups = %v, want %v", got, before+1)
	}

	hits := testutil.ToFloat64(CacheHits.WithLabelValues("enrich"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("enrich"))
	RecordCacheAccess("enrich", true)
	RecordCacheAccess("enrich", false)
	RecordCacheAccess("enrich", false)
	if got := testutil.ToFloat64(CacheHits.WithLabelValues("enrich")); got != hits+1 {
		t.Errorf("CacheHits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("enrich")); got != misses+2 {
		t.Errorf("CacheMisses = %v, want %v", got, misses+2)
	}
}

func TestRecordEventPublished(t *testing.T) {
	ok := testutil.ToFloat64(EventsPublished.WithLabelValues("dish.recommended", "success"))
	failed := testutil.ToFloat64(EventsPublished.WithLabelValues("dish.recommended", "error"))

	RecordEventPublished("dish.recommended", nil)
	RecordEventPublished("dish.recommended", errors.New("nats: connection closed"))

	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("dish.recommended", "success")); got != ok+1 {
		t.Errorf("success = %v, want %v", got, ok+1)
	}
	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("dish.recommended", "error")); got != failed+1 {
		t.Errorf("error = %v, want %v", got, failed+1)
	}
}
