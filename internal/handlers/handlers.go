package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dustykeyboard1/DKScraper/internal/selector"
	"github.com/dustykeyboard1/DKScraper/pkg/models"
	"github.com/dustykeyboard1/DKScraper/pkg/oddsmath"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// SelectionSource returns the most recent selection
type SelectionSource interface {
	LatestSelection(ctx context.Context) (models.Selection, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	sources []SelectionSource
	log     logrus.FieldLogger
}

// NewHandler creates a new handler. Sources are tried in order until one has a selection.
func NewHandler(log logrus.FieldLogger, sources ...SelectionSource) *Handler {
	return &Handler{
		sources: sources,
		log:     log,
	}
}

// Routes returns the API routes, to be mounted under /api/v1
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/picks", h.GetLatestPicks)
	r.Get("/picks/summary", h.GetPicksSummary)
	r.Post("/parlay", h.PriceParlay)
	r.Post("/edge", h.ScorePrediction)
	return r
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "picks-api",
	})
}

// GetLatestPicks returns the most recent selection as JSON
func (h *Handler) GetLatestPicks(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.latest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sel)
}

// GetPicksSummary returns the most recent selection as the plain-text email body
func (h *Handler) GetPicksSummary(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.latest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, selector.Render(sel))
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) (models.Selection, bool) {
	for _, src := range h.sources {
		sel, err := src.LatestSelection(r.Context())
		if err == nil {
			return sel, true
		}
		if !errors.Is(err, models.ErrNoSelection) {
			h.log.WithError(err).Warn("selection source failed")
		}
	}
	respondError(w, http.StatusNotFound, "no picks available")
	return models.Selection{}, false
}

// ParlayRequest prices a parlay
type ParlayRequest struct {
	Legs  []int  `json:"legs"`  // American odds
	Stake string `json:"stake"` // decimal amount
}

// ParlayResponse is the priced parlay
type ParlayResponse struct {
	DecimalOdds        float64 `json:"decimal_odds"`
	ImpliedProbability float64 `json:"implied_probability"`
	Stake              string  `json:"stake"`
	ExpectedReturn     string  `json:"expected_return"`
}

// PriceParlay returns the combined odds of a set of legs and the return on a stake if every leg wins
func (h *Handler) PriceParlay(w http.ResponseWriter, r *http.Request) {
	var req ParlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	if len(req.Legs) == 0 {
		respondError(w, http.StatusBadRequest, "at least one leg is required")
		return
	}

	stake := decimal.Zero
	if req.Stake != "" {
		var err error
		if stake, err = decimal.NewFromString(req.Stake); err != nil || stake.IsNegative() {
			respondError(w, http.StatusBadRequest, "stake must be a non-negative amount")
			return
		}
	}

	combined, err := oddsmath.ParlayDecimal(req.Legs)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("calculation error: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, ParlayResponse{
		DecimalOdds:        combined,
		ImpliedProbability: 1 / combined,
		Stake:              stake.StringFixed(2),
		ExpectedReturn:     oddsmath.ExpectedParlayReturn(stake, combined).StringFixed(2),
	})
}

// EdgeRequest is a single model prediction to score against the book
type EdgeRequest struct {
	PlayerName string            `json:"player_name"`
	Market     models.MarketType `json:"market"`
	Line       float64           `json:"line"`
	OddsOver   *int              `json:"odds_over"`
	OddsUnder  *int              `json:"odds_under"`
	Prediction int               `json:"prediction"`
	Confidence float64           `json:"confidence"` // P(over)
}

// ScorePrediction returns the pick a prediction implies, with its adjusted confidence and edge
func (h *Handler) ScorePrediction(w http.ResponseWriter, r *http.Request) {
	var req EdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	if !req.Market.Valid() {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown market: %s", req.Market))
		return
	}
	if req.Prediction != 0 && req.Prediction != 1 {
		respondError(w, http.StatusBadRequest, "prediction must be 0 or 1")
		return
	}
	if req.Confidence < 0 || req.Confidence > 1 {
		respondError(w, http.StatusBadRequest, "confidence must be between 0 and 1")
		return
	}

	row := models.NewEnrichedRow(models.OddsRow{
		PlayerName: req.PlayerName,
		Line:       models.NewLine(req.Line),
		Market:     req.Market,
	})
	if req.OddsOver != nil {
		row.OddsOver = models.Price(*req.OddsOver)
	}
	if req.OddsUnder != nil {
		row.OddsUnder = models.Price(*req.OddsUnder)
	}
	row.Predicted = true
	row.Prediction = req.Prediction
	row.Confidence = req.Confidence

	pick, err := selector.NewPick(req.Market, row)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, pick)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
