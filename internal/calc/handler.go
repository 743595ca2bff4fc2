package calc

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cryptocoin/app/internal/httpx"
)

// Handler exposes the calculators over HTTP so the frontend and the
// backend never disagree on the numbers.
type Handler struct{}

// NewHandler creates the calculators handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Routes mounts the calculator endpoints on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/calculators/profitability", h.profitability)
	r.Post("/api/calculators/capacity", h.capacity)
}

// profitabilityResponse bundles the profit result with its forecast
// table; they derive from the same inputs so one request serves both.
type profitabilityResponse struct {
	Result    ProfitResult  `json:"result"`
	Forecasts []ForecastRow `json:"forecasts"`
}

func (h *Handler) profitability(w http.ResponseWriter, r *http.Request) {
	var in Inputs
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	result := Profit(in)
	httpx.JSON(w, http.StatusOK, profitabilityResponse{
		Result:    result,
		Forecasts: RewardForecasts(result, in),
	})
}

func (h *Handler) capacity(w http.ResponseWriter, r *http.Request) {
	var in CapacityInputs
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	httpx.JSON(w, http.StatusOK, Capacity(in))
}
