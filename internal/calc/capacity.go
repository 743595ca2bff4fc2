package calc

import "math"

// CapacityInputs is the site capacity calculator state.
type CapacityInputs struct {
	ContainerCount     float64 `json:"containerCount" validate:"gte=0"`
	MinersPerContainer float64 `json:"minersPerContainer" validate:"gte=0"`
	PowerPerMiner      float64 `json:"powerPerMiner" validate:"gte=0"`     // kW
	SitePowerCapacity  float64 `json:"sitePowerCapacity" validate:"gte=0"` // kW
	HashratePerMiner   float64 `json:"hashratePerMiner" validate:"gte=0"`  // TH/s
}

// CapacityResult is the site power and hashrate summary.
type CapacityResult struct {
	TotalHashrate         float64 `json:"totalHashrate"`  // TH/s
	TotalPowerDraw        float64 `json:"totalPowerDraw"` // kW
	UtilizationPercent    float64 `json:"utilizationPercent"`
	MaxContainersPossible int     `json:"maxContainersPossible"`
	RemainingCapacity     float64 `json:"remainingCapacity"` // kW
}

// Capacity computes site capacity and power utilization. Utilization is
// zero when the site has no power capacity; max containers is how many
// full containers the capacity could feed at the given per-miner draw.
func Capacity(in CapacityInputs) CapacityResult {
	totalHashrate := in.ContainerCount * in.MinersPerContainer * in.HashratePerMiner
	totalPowerDraw := in.ContainerCount * in.MinersPerContainer * in.PowerPerMiner

	var utilization float64
	if in.SitePowerCapacity > 0 {
		utilization = totalPowerDraw / in.SitePowerCapacity * 100
	}

	var maxContainers int
	if in.PowerPerMiner > 0 && in.MinersPerContainer > 0 {
		maxMiners := math.Floor(in.SitePowerCapacity / in.PowerPerMiner)
		maxContainers = int(math.Floor(maxMiners / in.MinersPerContainer))
	}

	return CapacityResult{
		TotalHashrate:         totalHashrate,
		TotalPowerDraw:        totalPowerDraw,
		UtilizationPercent:    utilization,
		MaxContainersPossible: maxContainers,
		RemainingCapacity:     in.SitePowerCapacity - totalPowerDraw,
	}
}
