package osm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/mapposter/mapposter/internal/cache"
	"github.com/mapposter/mapposter/internal/ratelimit"
)

var paris = orb.Point{2.3522, 48.8566}

func newOverpassForTest(t *testing.T, handler http.HandlerFunc) (*Overpass, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := cache.NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	o := NewOverpass(store, srv.Client(), srv.URL,
		ratelimit.New(0), ratelimit.New(0), zerolog.New(io.Discard))
	return o, srv
}

const graphBody = `{
  "elements": [
    {"type":"way","id":1,"tags":{"highway":"primary"},
     "geometry":[{"lat":48.85,"lon":2.35},{"lat":48.86,"lon":2.36}]}
  ]
}`

func TestFetchGraph_FetchesThenServesFromCache(t *testing.T) {
	calls := 0
	o, _ := newOverpassForTest(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		q := r.PostForm.Get("data")
		if !strings.Contains(q, `way["highway"]`) {
			t.Errorf("query %q lacks highway filter", q)
		}
		if !strings.Contains(q, "[out:json]") || !strings.Contains(q, "out geom;") {
			t.Errorf("query %q lacks framing", q)
		}
		io.WriteString(w, graphBody)
	})

	g, err := o.FetchGraph(context.Background(), paris, 12000)
	if err != nil {
		t.Fatalf("FetchGraph: %v", err)
	}
	if len(g.Ways) != 1 {
		t.Fatalf("ways=%d want 1", len(g.Ways))
	}

	g2, err := o.FetchGraph(context.Background(), paris, 12000)
	if err != nil {
		t.Fatalf("FetchGraph (cached): %v", err)
	}
	if calls != 1 {
		t.Fatalf("provider calls=%d want 1", calls)
	}
	if len(g2.Ways) != len(g.Ways) {
		t.Fatalf("cached graph differs: %d vs %d ways", len(g2.Ways), len(g.Ways))
	}
}

func TestFetchGraph_DifferentRadiusRefetches(t *testing.T) {
	calls := 0
	o, _ := newOverpassForTest(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		io.WriteString(w, graphBody)
	})

	if _, err := o.FetchGraph(context.Background(), paris, 12000); err != nil {
		t.Fatalf("FetchGraph: %v", err)
	}
	if _, err := o.FetchGraph(context.Background(), paris, 6000); err != nil {
		t.Fatalf("FetchGraph (smaller radius): %v", err)
	}
	if calls != 2 {
		t.Fatalf("provider calls=%d want 2", calls)
	}
}

func TestFetchGraph_EmptyResultIsError(t *testing.T) {
	o, _ := newOverpassForTest(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"elements":[]}`)
	})

	_, err := o.FetchGraph(context.Background(), paris, 12000)
	if err == nil {
		t.Fatalf("FetchGraph succeeded on empty result")
	}
	if !strings.Contains(err.Error(), "no ways") {
		t.Fatalf("err=%v, want empty-radius message", err)
	}
}

func TestFetchGraph_ProviderErrorIsError(t *testing.T) {
	o, _ := newOverpassForTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too busy", http.StatusTooManyRequests)
	})

	_, err := o.FetchGraph(context.Background(), paris, 12000)
	if err == nil {
		t.Fatalf("FetchGraph succeeded on provider failure")
	}
	if !strings.Contains(err.Error(), "status 429") {
		t.Fatalf("err=%v, want provider status", err)
	}
}

func TestFetchFeatures_FetchesThenServesFromCache(t *testing.T) {
	calls := 0
	o, _ := newOverpassForTest(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		q := r.PostForm.Get("data")
		// tag clauses appear in sorted key order, ways and relations both
		if !strings.Contains(q, `way["natural"="water"]`) ||
			!strings.Contains(q, `relation["natural"="water"]`) ||
			!strings.Contains(q, `way["waterway"="riverbank"]`) {
			t.Errorf("query %q lacks expected tag clauses", q)
		}
		if strings.Index(q, `"natural"`) > strings.Index(q, `"waterway"`) {
			t.Errorf("query %q has unsorted tag clauses", q)
		}
		io.WriteString(w, `{
		  "elements": [
		    {"type":"way","id":1,"tags":{"natural":"water"},
		     "geometry":[{"lat":0,"lon":0},{"lat":0,"lon":1},{"lat":1,"lon":1},{"lat":0,"lon":0}]}
		  ]
		}`)
	})

	fc, err := o.FetchFeatures(context.Background(), paris, 12000, WaterTags, "water")
	if err != nil {
		t.Fatalf("FetchFeatures: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("features=%d want 1", len(fc.Features))
	}

	fc2, err := o.FetchFeatures(context.Background(), paris, 12000, WaterTags, "water")
	if err != nil {
		t.Fatalf("FetchFeatures (cached): %v", err)
	}
	if calls != 1 {
		t.Fatalf("provider calls=%d want 1", calls)
	}
	if len(fc2.Features) != 1 {
		t.Fatalf("cached features=%d want 1", len(fc2.Features))
	}
}

func TestFetchFeatures_EmptyLayerIsNotAnError(t *testing.T) {
	o, _ := newOverpassForTest(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"elements":[]}`)
	})

	fc, err := o.FetchFeatures(context.Background(), paris, 12000, ParkTags, "parks")
	if err != nil {
		t.Fatalf("FetchFeatures: %v", err)
	}
	if len(fc.Features) != 0 {
		t.Fatalf("features=%d want 0", len(fc.Features))
	}
}

func TestBBoxClause_SouthWestNorthEastOrder(t *testing.T) {
	b := orb.Bound{Min: orb.Point{2.30, 48.80}, Max: orb.Point{2.40, 48.90}}
	got := bboxClause(b)
	want := "(48.800000,2.300000,48.900000,2.400000)"
	if got != want {
		t.Fatalf("bboxClause=%q want %q", got, want)
	}
}
