package planner

// PowerProfile is the site power balance.
type PowerProfile struct {
	TotalRequired  float64 `json:"totalRequired"`  // kW
	TotalGenerated float64 `json:"totalGenerated"` // kW
	Utilization    float64 `json:"utilization"`    // percent
	Deficit        float64 `json:"deficit"`        // kW; negative means surplus
}

// Power sums the placed equipment into a power profile: container draw
// against generator capacity. Utilization is zero when nothing
// generates.
func Power(in Inputs) PowerProfile {
	var required float64
	for _, c := range in.Containers {
		required += float64(c.MinersPerContainer) * c.PowerPerMiner
	}

	var generated float64
	for _, g := range in.Generators {
		generated += g.Capacity
	}

	var utilization float64
	if generated > 0 {
		utilization = required / generated * 100
	}

	return PowerProfile{
		TotalRequired:  required,
		TotalGenerated: generated,
		Utilization:    utilization,
		Deficit:        required - generated,
	}
}
