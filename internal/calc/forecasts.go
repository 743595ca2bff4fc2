package calc

// Forecast time frames, in table order.
const (
	TimeFrameHourly   = "Hourly"
	TimeFrameDaily    = "Daily"
	TimeFrameWeekly   = "Weekly"
	TimeFrameMonthly  = "Monthly"
	TimeFrameAnnually = "Annually"
)

// ForecastRow is one line of the reward forecasts table. Revenue is
// gross (before pool fee) so the fee column adds up against it; profit
// is gross revenue minus power cost minus pool fees.
type ForecastRow struct {
	TimeFrame    string  `json:"timeFrame"`
	BTCReward    float64 `json:"btcReward"`
	RevenueUSD   float64 `json:"revenueUsd"`
	PowerCostUSD float64 `json:"powerCostUsd"`
	PoolFeesUSD  float64 `json:"poolFeesUsd"`
	ProfitUSD    float64 `json:"profitUsd"`
}

// safeFeeMultiplier clamps the fee percentage to [0,100] and returns
// the net-revenue multiplier.
func safeFeeMultiplier(poolFeePercent float64) float64 {
	fee := poolFeePercent
	if fee < 0 {
		fee = 0
	}
	if fee > 100 {
		fee = 100
	}
	return 1 - fee/100
}

// RewardForecasts builds the five-row reward forecasts table from a
// profitability result and its inputs. BTC rewards derive from the
// canonical monthly yield; the daily pool fee is backed out of the
// net daily revenue, or equals the full gross revenue at a 100% fee.
func RewardForecasts(result ProfitResult, in Inputs) []ForecastRow {
	monthlyBTC := in.Hashrate * result.BTCPerMonthPerTH
	dailyBTC := monthlyBTC / daysPerMonth
	hourlyBTC := dailyBTC / 24
	weeklyBTC := dailyBTC * 7
	annualBTC := monthlyBTC * monthsPerYear

	dailyCost := result.DailyCost

	feeMultiplier := safeFeeMultiplier(in.PoolFee)
	dailyGross := dailyBTC * in.BTCPrice
	var dailyPoolFees float64
	if feeMultiplier > 0 {
		dailyPoolFees = result.DailyRevenue * (1/feeMultiplier - 1)
	} else {
		dailyPoolFees = dailyGross
	}

	row := func(frame string, btc, revenue, powerCost, poolFees float64) ForecastRow {
		return ForecastRow{
			TimeFrame:    frame,
			BTCReward:    btc,
			RevenueUSD:   revenue,
			PowerCostUSD: powerCost,
			PoolFeesUSD:  poolFees,
			ProfitUSD:    revenue - powerCost - poolFees,
		}
	}

	return []ForecastRow{
		row(TimeFrameHourly, hourlyBTC, hourlyBTC*in.BTCPrice, dailyCost/24, dailyPoolFees/24),
		row(TimeFrameDaily, dailyBTC, dailyGross, dailyCost, dailyPoolFees),
		row(TimeFrameWeekly, weeklyBTC, weeklyBTC*in.BTCPrice, dailyCost*7, dailyPoolFees*7),
		row(TimeFrameMonthly, monthlyBTC, monthlyBTC*in.BTCPrice, result.MonthlyCost, dailyPoolFees*daysPerMonth),
		row(TimeFrameAnnually, annualBTC, annualBTC*in.BTCPrice, result.MonthlyCost*monthsPerYear, dailyPoolFees*daysPerMonth*monthsPerYear),
	}
}
