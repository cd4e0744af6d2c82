package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"musicmeta/amazonmusic"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFetch(t *testing.T) {
	m := New()
	m.ObserveFetch("tracks", amazonmusic.OutcomeOK, 20*time.Millisecond)
	m.ObserveFetch("tracks", amazonmusic.OutcomeOK, 30*time.Millisecond)
	m.ObserveFetch("albums", amazonmusic.OutcomeTimeout, time.Second)

	if got := testutil.ToFloat64(m.FetchesTotal.WithLabelValues("tracks", "ok")); got != 2 {
		t.Errorf("tracks/ok fetches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.FetchesTotal.WithLabelValues("albums", "timeout")); got != 1 {
		t.Errorf("albums/timeout fetches = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.FetchDuration); got != 2 {
		t.Errorf("fetch duration series = %d, want 2", got)
	}
}

func TestObserveResolveAndSearch(t *testing.T) {
	m := New()
	m.ObserveResolve(amazonmusic.KindUserPlaylist, amazonmusic.OutcomeNotFound)
	m.ObserveSearch("tracks", 4)
	m.ObserveSearch("site", 0)
	m.ObserveSearch("tracks", 2)

	if got := testutil.ToFloat64(m.ResolvesTotal.WithLabelValues("user-playlist", "not_found")); got != 1 {
		t.Errorf("resolves = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SearchesTotal.WithLabelValues("tracks")); got != 2 {
		t.Errorf("track-phase searches = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(m.SearchResults); got != 1 {
		t.Errorf("search result histograms = %d, want 1", got)
	}
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/tracks/:id", http.StatusOK, time.Millisecond)
	m.ObserveRequest("", http.StatusNotFound, time.Millisecond)

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/tracks/:id", "200")); got != 1 {
		t.Errorf("track requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("unmatched", "404")); got != 1 {
		t.Errorf("unmatched requests = %v, want 1", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveFetch("artists", amazonmusic.OutcomeHTTPError, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`musicmeta_upstream_fetches_total{outcome="http_error",segment="artists"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveResolve(amazonmusic.KindTrack, amazonmusic.OutcomeOK)

	if got := testutil.ToFloat64(b.ResolvesTotal.WithLabelValues("track", "ok")); got != 0 {
		t.Errorf("second instance saw %v resolves, want 0", got)
	}
}
