package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/xeij/tellme/pkg/tellme"
	"github.com/xeij/tellme/pkg/tellme/content"
	"github.com/xeij/tellme/pkg/tellme/store/memstore"
	"github.com/xeij/tellme/pkg/tellme/topic"
)

func newTestServer(t *testing.T) (*httptest.Server, *memstore.Store, *tellme.Service) {
	t.Helper()
	st := memstore.New()
	svc := tellme.New(tellme.Options{Store: st})
	srv := NewServer(svc, zerolog.Nop())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, st, svc
}

func seedUnit(t *testing.T, st *memstore.Store, tp topic.Topic, title string) content.Unit {
	t.Helper()
	u := content.NewUnit(tp, title, strings.Repeat("word ", 60), "https://example.org/"+title)
	if err := st.InsertContent(context.Background(), &u); err != nil {
		t.Fatalf("InsertContent: %v", err)
	}
	return u
}

func TestRandomContentEmpty(t *testing.T) {
	ts, _, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/api/content/random")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "no content available" {
		t.Errorf("error = %q, want %q", body["error"], "no content available")
	}
}

func TestRandomContent(t *testing.T) {
	ts, st, _ := newTestServer(t)
	seeded := seedUnit(t, st, topic.Facts, "Honey never spoils")

	res, err := http.Get(ts.URL + "/api/content/random")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	var got content.Unit
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != seeded.ID || got.Title != seeded.Title || got.Topic != topic.Facts {
		t.Errorf("got unit %+v, want seeded %+v", got, seeded)
	}
}

func TestRecordInteraction(t *testing.T) {
	ts, st, _ := newTestServer(t)
	u := seedUnit(t, st, topic.History, "Rosetta Stone")

	body, _ := json.Marshal(map[string]any{"fully_read": true, "duration_seconds": 42})
	res, err := http.Post(ts.URL+"/api/content/1/interaction", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", res.StatusCode)
	}

	n, err := st.InteractionCount(context.Background())
	if err != nil {
		t.Fatalf("InteractionCount: %v", err)
	}
	if n != 1 {
		t.Fatalf("interaction count = %d, want 1", n)
	}
	recent, err := st.RecentTopics(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentTopics: %v", err)
	}
	if len(recent) != 1 || recent[0] != u.Topic {
		t.Errorf("recent = %v, want [%s]", recent, u.Topic)
	}
}

func TestRecordInteractionBadRequests(t *testing.T) {
	ts, st, _ := newTestServer(t)
	seedUnit(t, st, topic.Science, "Tardigrades")

	cases := []struct {
		name string
		path string
		body string
	}{
		{"non-numeric id", "/api/content/abc/interaction", `{"fully_read":true}`},
		{"zero id", "/api/content/0/interaction", `{"fully_read":true}`},
		{"malformed body", "/api/content/1/interaction", `{"fully_read":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := http.Post(ts.URL+tc.path, "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			res.Body.Close()
			if res.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", res.StatusCode)
			}
		})
	}
}

func TestStats(t *testing.T) {
	ts, st, svc := newTestServer(t)
	seedUnit(t, st, topic.Facts, "A")
	seedUnit(t, st, topic.Facts, "B")
	if err := svc.Record(context.Background(), content.FullyRead(1, 0)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	res, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	var stats tellme.Stats
	if err := json.NewDecoder(res.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalContent != 2 || stats.TotalInteractions != 1 {
		t.Errorf("totals = (%d, %d), want (2, 1)", stats.TotalContent, stats.TotalInteractions)
	}
	if len(stats.Topics) != len(topic.All()) {
		t.Errorf("topics = %d, want %d", len(stats.Topics), len(topic.All()))
	}
}

func TestIndexPage(t *testing.T) {
	ts, _, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}
}
