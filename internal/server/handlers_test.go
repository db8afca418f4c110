package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hyperjump/ugcdrift/internal/config"
	"github.com/hyperjump/ugcdrift/internal/embedding"
	"github.com/hyperjump/ugcdrift/internal/evaluation"
	"github.com/hyperjump/ugcdrift/internal/models"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, withEvaluator bool) *Server {
	t.Helper()
	opts := []Option{WithLogger(zap.NewNop())}
	if withEvaluator {
		embedder := embedding.NewMockEmbedder(16)
		t.Cleanup(func() { embedder.Close() })
		opts = append(opts, WithEvaluator(evaluation.NewEvaluator(embedder, "mock")))
	}
	srv, err := NewServer(&config.ServerConfig{Host: "localhost", Port: 8501, MaxPairs: 3}, opts...)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func getPage(t *testing.T, srv *Server, query url.Values) string {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/?"+query.Encode(), nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	return w.Body.String()
}

func TestHandlePage_default(t *testing.T) {
	srv := newTestServer(t, false)
	body := getPage(t, srv, url.Values{})
	for _, want := range []string{
		"Dynamic Text Input Boxes (Side by Side)",
		"Enter standard text here:",
		"Enter non-standard text here:",
		"Add Text Input Pair",
		"Text Input Pairs:",
		"Text Input Pair 1:",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "Text Input Pair 2:") {
		t.Error("default page should show a single pair")
	}
	if strings.Contains(body, "Encoder:") {
		t.Error("page without an encoder should not name one")
	}
}

func TestHandlePage_echoesPairs(t *testing.T) {
	srv := newTestServer(t, false)
	q := url.Values{"pairs": {"2"}, "std": {"see you", "thank you"}, "ugc": {"c u", "thx"}}
	body := getPage(t, srv, q)
	if !strings.Contains(body, "Text Input Pair 1: see you - c u") {
		t.Errorf("pair 1 not echoed:\n%s", body)
	}
	if !strings.Contains(body, "Text Input Pair 2: thank you - thx") {
		t.Errorf("pair 2 not echoed:\n%s", body)
	}
	if strings.Contains(body, "cosine distance") {
		t.Error("distance shown without an evaluator")
	}
}

func TestHandlePage_addPairCapped(t *testing.T) {
	srv := newTestServer(t, false)

	body := getPage(t, srv, url.Values{"pairs": {"1"}, "add": {"1"}})
	if !strings.Contains(body, "Text Input Pair 2:") {
		t.Error("add should show a second pair")
	}

	body = getPage(t, srv, url.Values{"pairs": {"3"}, "add": {"1"}})
	if strings.Contains(body, "Text Input Pair 4:") {
		t.Error("pair count exceeded max_pairs")
	}
	if !strings.Contains(body, "disabled") {
		t.Error("add button should be disabled at max_pairs")
	}

	body = getPage(t, srv, url.Values{"pairs": {"0"}})
	if !strings.Contains(body, "Text Input Pair 1:") || strings.Contains(body, "Text Input Pair 2:") {
		t.Error("pair count below 1 should fall back to 1")
	}
}

func TestHandlePage_escapesInput(t *testing.T) {
	srv := newTestServer(t, false)
	body := getPage(t, srv, url.Values{"std": {"<b>bold</b>"}, "ugc": {"x"}})
	if strings.Contains(body, "<b>bold</b>") {
		t.Error("page input was not escaped")
	}
}

func TestHandlePage_withDistance(t *testing.T) {
	srv := newTestServer(t, true)
	q := url.Values{"pairs": {"2"}, "std": {"see you tomorrow", "only one side"}, "ugc": {"c u tmrw", ""}}
	body := getPage(t, srv, q)
	if !strings.Contains(body, "Text Input Pair 1: see you tomorrow - c u tmrw (cosine distance") {
		t.Errorf("pair 1 distance missing:\n%s", body)
	}
	if strings.Count(body, "cosine distance") != 1 {
		t.Error("incomplete pair should not be scored")
	}
	if !strings.Contains(body, "Encoder: mock") {
		t.Error("page should name the encoder")
	}
}

func TestHandleDistance(t *testing.T) {
	srv := newTestServer(t, true)
	payload := `{"pairs":[{"std":"see you","ugc":"see you"},{"std":"thank you","ugc":"thx"}]}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/distance", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var out models.Result
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Model != "mock" || len(out.Pairs) != 2 {
		t.Fatalf("unexpected result: %+v", out)
	}
	if out.Pairs[0].Cos > 1e-5 {
		t.Errorf("identical sentences: distance %v, want ~0", out.Pairs[0].Cos)
	}
	if out.Pairs[1].Cos < 0 || out.Pairs[1].Cos > 2 {
		t.Errorf("distance out of range: %v", out.Pairs[1].Cos)
	}
	if out.Pairs[1].Edit == 0 {
		t.Error("edit distance not reported")
	}
}

func TestHandleDistance_errors(t *testing.T) {
	t.Run("no evaluator", func(t *testing.T) {
		srv := newTestServer(t, false)
		r := httptest.NewRequest(http.MethodPost, "/api/v1/distance", bytes.NewBufferString(`{"pairs":[{"std":"a","ugc":"b"}]}`))
		w := httptest.NewRecorder()
		srv.handleDistance(w, r)
		if w.Code != http.StatusNotImplemented {
			t.Errorf("status: got %d, want 501", w.Code)
		}
	})
	t.Run("invalid body", func(t *testing.T) {
		srv := newTestServer(t, true)
		r := httptest.NewRequest(http.MethodPost, "/api/v1/distance", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		srv.handleDistance(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", w.Code)
		}
	})
	t.Run("no pairs", func(t *testing.T) {
		srv := newTestServer(t, true)
		r := httptest.NewRequest(http.MethodPost, "/api/v1/distance", bytes.NewBufferString(`{"pairs":[]}`))
		w := httptest.NewRecorder()
		srv.handleDistance(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", w.Code)
		}
	})
}

func TestHandleHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, false)
	h := srv.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("health: got %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ugcdrift_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}
