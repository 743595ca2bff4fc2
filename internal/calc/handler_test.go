package calc_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/cryptocoin/app/internal/calc"
)

func newRouter() chi.Router {
	r := chi.NewRouter()
	calc.NewHandler().Routes(r)
	return r
}

func TestProfitabilityEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("returns the result with forecasts", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/calculators/profitability",
			strings.NewReader(`{"hashrate":1000,"powerConsumption":32.5,"energyCost":0.05,"btcPrice":100000,"poolFee":2}`))
		newRouter().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Result    calc.ProfitResult  `json:"result"`
			Forecasts []calc.ForecastRow `json:"forecasts"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.InDelta(t, 0.006*0.98*100000, body.Result.DailyRevenue, 1e-6)
		require.Len(t, body.Forecasts, 5)
	})

	t.Run("pool fee over 100 is rejected", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/calculators/profitability",
			strings.NewReader(`{"hashrate":1000,"powerConsumption":32.5,"energyCost":0.05,"btcPrice":100000,"poolFee":250}`))
		newRouter().ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCapacityEndpoint(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/calculators/capacity",
		strings.NewReader(`{"containerCount":10,"minersPerContainer":100,"powerPerMiner":3.25,"sitePowerCapacity":5000,"hashratePerMiner":110}`))
	newRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body calc.CapacityResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.InDelta(t, 110000, body.TotalHashrate, 1e-9)
	require.Equal(t, 15, body.MaxContainersPossible)
}
