// Package calc holds the mining economics engine: profitability, site
// capacity, and reward forecasts. Everything here is a pure function of
// its inputs; handlers and the scenario store share these types.
package calc

// btcPerDayPerTH is the simplified yield assumption: 1 TH/s mines
// roughly this much BTC per day. Real yield depends on network
// difficulty and block rewards; the market endpoint exposes those for
// clients that want to refine the estimate.
const btcPerDayPerTH = 0.000006

// daysPerMonth and monthsPerYear fix the canonical calendar: 30-day
// months, 12-month years. The forecasts table annualizes from the same
// month, so both views always agree.
const (
	daysPerMonth  = 30
	monthsPerYear = 12
)

// Inputs is the profitability calculator state.
type Inputs struct {
	Hashrate         float64 `json:"hashrate" validate:"gte=0"`         // TH/s
	PowerConsumption float64 `json:"powerConsumption" validate:"gte=0"` // kW
	EnergyCost       float64 `json:"energyCost" validate:"gte=0"`       // $/kWh
	BTCPrice         float64 `json:"btcPrice" validate:"gte=0"`         // USD
	PoolFee          float64 `json:"poolFee" validate:"gte=0,lte=100"`  // percent
	HardwareCostUSD  float64 `json:"hardwareCostUsd,omitempty" validate:"gte=0"`
}

// ProfitResult is the profitability breakdown across the three time
// horizons, plus ROI and the monthly yield constant the forecasts table
// derives from.
type ProfitResult struct {
	DailyRevenue     float64 `json:"dailyRevenue"`
	DailyCost        float64 `json:"dailyCost"`
	DailyProfit      float64 `json:"dailyProfit"`
	MonthlyRevenue   float64 `json:"monthlyRevenue"`
	MonthlyCost      float64 `json:"monthlyCost"`
	MonthlyProfit    float64 `json:"monthlyProfit"`
	YearlyRevenue    float64 `json:"yearlyRevenue"`
	YearlyCost       float64 `json:"yearlyCost"`
	YearlyProfit     float64 `json:"yearlyProfit"`
	ROI              float64 `json:"roi"` // percent
	BTCPerMonthPerTH float64 `json:"btcPerMonthPerTh"`
}

// Profit computes the mining profitability breakdown. Revenue is net of
// the pool fee; costs are pure energy (24h draw at the given rate). ROI
// is yearly profit over the hardware cost when one is given, otherwise
// over a rough 10x-yearly-cost investment estimate.
func Profit(in Inputs) ProfitResult {
	dailyBTC := in.Hashrate * btcPerDayPerTH
	dailyBTCAfterFee := dailyBTC * (1 - in.PoolFee/100)

	dailyRevenue := dailyBTCAfterFee * in.BTCPrice
	dailyCost := 24 * in.EnergyCost * in.PowerConsumption
	monthlyRevenue := dailyRevenue * daysPerMonth
	monthlyCost := dailyCost * daysPerMonth
	yearlyRevenue := monthlyRevenue * monthsPerYear
	yearlyCost := monthlyCost * monthsPerYear
	yearlyProfit := yearlyRevenue - yearlyCost

	investment := in.HardwareCostUSD
	if investment <= 0 {
		investment = yearlyCost * 10
	}
	var roi float64
	if investment > 0 {
		roi = yearlyProfit / investment * 100
	}

	return ProfitResult{
		DailyRevenue:     dailyRevenue,
		DailyCost:        dailyCost,
		DailyProfit:      dailyRevenue - dailyCost,
		MonthlyRevenue:   monthlyRevenue,
		MonthlyCost:      monthlyCost,
		MonthlyProfit:    monthlyRevenue - monthlyCost,
		YearlyRevenue:    yearlyRevenue,
		YearlyCost:       yearlyCost,
		YearlyProfit:     yearlyProfit,
		ROI:              roi,
		BTCPerMonthPerTH: btcPerDayPerTH * daysPerMonth,
	}
}
