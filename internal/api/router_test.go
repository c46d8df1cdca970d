package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/tradelens/tradelens/internal/api"
	"github.com/tradelens/tradelens/internal/service"
	"github.com/tradelens/tradelens/internal/store"
)

func newTestServer(t *testing.T) (http.Handler, string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	dir := filepath.Join(t.TempDir(), "data")
	log := testLogger()
	fs := store.NewFileStore(dir, log)

	return api.NewRouter(ctx, &api.RouterDeps{
		Log:          log,
		Documents:    service.NewDocumentService(fs, nil, log),
		Storage:      fs,
		CORSOrigins:  []string{"http://localhost:3000"},
		Version:      "test",
		ServeMetrics: true,
	}), dir
}

func TestRouter_SaveThenLoad(t *testing.T) {
	t.Parallel()

	r, dir := newTestServer(t)

	if w := doRequest(r, http.MethodGet, "/api/v1/data/industry", ""); w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("empty load = %d %s", w.Code, w.Body.String())
	}

	doc := `[{"id":"steel","name":"Steel","exportValue":10,"importValue":5,"tariffImpact":-2,"gdpImpact":0.1,"riskLevel":"High","subIndustries":[]}]`

	w := doRequest(r, http.MethodPost, "/api/v1/data/industry", doc)
	if w.Code != http.StatusOK {
		t.Fatalf("save = %d %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/v1/data/industry", "")
	if w.Body.String() != doc {
		t.Errorf("load after save = %s", w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Errorf("Cache-Control = %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}

	if _, err := os.Stat(filepath.Join(dir, "industry-data.json")); err != nil {
		t.Errorf("document file not written: %v", err)
	}
}

func TestRouter_LegacyAndVersionedShareStorage(t *testing.T) {
	t.Parallel()

	r, _ := newTestServer(t)

	payload := `{"gdpData":{"all":{"gdpGrowth":[{"year":2020,"consumption":1,"investment":2,"government":3,"netExports":4,"gdpGrowth":5,"tradeVolume":6}],"tradeBalance":[]}}}`
	if w := doRequest(r, http.MethodPost, "/api/save-data", payload); w.Code != http.StatusOK {
		t.Fatalf("legacy save = %d %s", w.Code, w.Body.String())
	}

	w := doRequest(r, http.MethodGet, "/api/v1/data/macro", "")
	var macro map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &macro); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := macro["all"]; !ok {
		t.Errorf("macro document = %s", w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/load-data", "")
	var legacy map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &legacy) //nolint:errcheck
	if string(legacy["gdpData"]) != string(legacy["tradeData"]) || string(legacy["gdpData"]) == "null" {
		t.Errorf("legacy load = %s", w.Body.String())
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	t.Parallel()

	r, _ := newTestServer(t)

	if w := doRequest(r, http.MethodGet, "/api/v1/health", ""); w.Code != http.StatusOK {
		t.Errorf("health = %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/v1/ready", ""); w.Code != http.StatusOK {
		t.Errorf("ready = %d %s", w.Code, w.Body.String())
	}
	if w := doRequest(r, http.MethodGet, "/metrics", ""); w.Code != http.StatusOK {
		t.Errorf("metrics = %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/v1/ws", ""); w.Code != http.StatusNotFound {
		t.Errorf("ws without hub = %d, want 404", w.Code)
	}
}
