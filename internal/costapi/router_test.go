package costapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ametow/leakgate/internal/service"
	"github.com/ametow/leakgate/internal/upstream/leakosint"
)

func newTestRouter(t *testing.T, upstreamHandler http.HandlerFunc, origins []string) *httptest.Server {
	t.Helper()

	up := httptest.NewServer(upstreamHandler)
	t.Cleanup(up.Close)

	client := leakosint.New(leakosint.Config{
		Token:   "secret-token",
		BaseURL: up.URL,
		Timeout: 2 * time.Second,
	}, zap.NewNop())

	svc := service.NewProxyService(service.ProxyDeps{Upstream: client, Logger: zap.NewNop()})

	srv := httptest.NewServer(NewRouter(Deps{
		Service:        svc,
		Logger:         zap.NewNop(),
		AllowedOrigins: origins,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"List": map[string]any{"DB1": map[string]any{"Data": []any{}}},
		})
	}, nil)

	t.Run("success shape carries cost fields", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/search", "application/json", strings.NewReader(`{"query":"password","limit":100}`))
		if err != nil {
			t.Fatalf("POST /search: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}

		if body["cost"] != 0.003 {
			t.Errorf("cost = %v, want 0.003", body["cost"])
		}
		if body["balance_impact"] != "$0.003 will be deducted" {
			t.Errorf("balance_impact = %v", body["balance_impact"])
		}
		if _, ok := body["List"]; !ok {
			t.Errorf("upstream payload should pass through: %v", body)
		}
	})

	t.Run("missing query rejected", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/search", "application/json", strings.NewReader(`{"limit":100}`))
		if err != nil {
			t.Fatalf("POST /search: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}

		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if _, ok := body["error"]; !ok {
			t.Errorf("error responses must carry an error field: %v", body)
		}
	})

	t.Run("preflight acknowledged", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/search", nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("OPTIONS: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("preflight status = %d, want 200", resp.StatusCode)
		}
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin = %q, want wildcard", got)
		}
	})
}

func TestSearchEndpointUpstreamDown(t *testing.T) {
	srv := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}, nil)

	resp, err := http.Post(srv.URL+"/search", "application/json", strings.NewReader(`{"query":"password"}`))
	if err != nil {
		t.Fatalf("POST /search: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Contains(body["text"].(string), "secret-token") {
		t.Errorf("error body must not contain the token")
	}
}

func TestSearchEndpointErrorShapeHasNoCost(t *testing.T) {
	srv := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"Error code": "ERR_TOKEN", "Description": "bad token"})
	}, nil)

	resp, err := http.Post(srv.URL+"/search", "application/json", strings.NewReader(`{"query":"password"}`))
	if err != nil {
		t.Fatalf("POST /search: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["cost"]; ok {
		t.Errorf("cost must not be attached to upstream error responses")
	}
}
