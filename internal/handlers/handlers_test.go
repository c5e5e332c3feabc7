package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeSource struct {
	sel models.Selection
	err error
}

func (f fakeSource) LatestSelection(ctx context.Context) (models.Selection, error) {
	return f.sel, f.err
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)
	r.Mount("/api/v1", h.Routes())
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := do(t, newRouter(NewHandler(quietLogger())), http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "healthy" || body["service"] != "picks-api" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestGetLatestPicks_FallsBack(t *testing.T) {
	sel := models.Selection{RunID: "run-9", Straight: []models.Pick{{PlayerName: "Jayson Tatum"}}}
	h := NewHandler(quietLogger(),
		fakeSource{err: errors.New("redis: connection refused")},
		fakeSource{err: models.ErrNoSelection},
		fakeSource{sel: sel},
	)

	w := do(t, newRouter(h), http.MethodGet, "/api/v1/picks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got models.Selection
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RunID != "run-9" || len(got.Straight) != 1 {
		t.Errorf("unexpected selection %+v", got)
	}
}

func TestGetLatestPicks_NotFound(t *testing.T) {
	h := NewHandler(quietLogger(), fakeSource{err: models.ErrNoSelection})
	w := do(t, newRouter(h), http.MethodGet, "/api/v1/picks", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestGetPicksSummary(t *testing.T) {
	h := NewHandler(quietLogger(), fakeSource{sel: models.Selection{StraightStake: "14.00"}})
	w := do(t, newRouter(h), http.MethodGet, "/api/v1/picks/summary", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("unexpected content type %q", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "Budget per Straight Bet: 14.00") {
		t.Errorf("unexpected summary:\n%s", w.Body.String())
	}
}

func TestPriceParlay(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantOdds   float64
		wantReturn string
	}{
		{"two legs", `{"legs": [200, -150], "stake": "6"}`, http.StatusOK, 5.0, "24.00"},
		{"no stake", `{"legs": [100]}`, http.StatusOK, 2.0, "0.00"},
		{"no legs", `{"legs": []}`, http.StatusBadRequest, 0, ""},
		{"zero odds", `{"legs": [0]}`, http.StatusBadRequest, 0, ""},
		{"bad stake", `{"legs": [100], "stake": "-1"}`, http.StatusBadRequest, 0, ""},
		{"bad json", `{`, http.StatusBadRequest, 0, ""},
	}

	router := newRouter(NewHandler(quietLogger()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/v1/parlay", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp ParlayResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if math.Abs(resp.DecimalOdds-tt.wantOdds) > 1e-3 || resp.ExpectedReturn != tt.wantReturn {
				t.Errorf("unexpected response %+v", resp)
			}
		})
	}
}

func TestScorePrediction(t *testing.T) {
	router := newRouter(NewHandler(quietLogger()))

	w := do(t, router, http.MethodPost, "/api/v1/edge",
		`{"player_name": "Bam Adebayo", "market": "R", "line": 10.5, "odds_over": 150, "odds_under": -150, "prediction": 0, "confidence": 0.2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var pick models.Pick
	json.NewDecoder(w.Body).Decode(&pick)
	if pick.Side != models.SideUnder || math.Abs(pick.AdjustedConfidence-0.8) > 1e-9 || math.Abs(pick.Edge-0.2) > 1e-9 {
		t.Errorf("unexpected pick %+v", pick)
	}

	w = do(t, router, http.MethodPost, "/api/v1/edge", `{"market": "R", "line": 10.5, "odds_over": 150, "prediction": 0, "confidence": 0.2}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing under price: expected 422, got %d", w.Code)
	}

	w = do(t, router, http.MethodPost, "/api/v1/edge", `{"market": "XYZ", "prediction": 1, "confidence": 0.5}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown market: expected 400, got %d", w.Code)
	}
}
