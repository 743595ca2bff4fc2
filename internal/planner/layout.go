// Package planner generates site layouts: containers on a row-major
// grid, generators on a circle around the site center, and the
// resulting power profile. Pure functions over the planner state the
// frontend edits and the scenario store persists.
package planner

import (
	"fmt"
	"math"
)

// Per-container defaults applied to every generated container.
const (
	defaultMinersPerContainer = 100
	defaultPowerPerMiner      = 3.25 // kW
	generatorCapacityKW       = 1000
	// generatorInsetM pulls the generator circle inside the site edge.
	generatorInsetM = 5
)

// SiteDimensions is the physical site footprint in meters.
type SiteDimensions struct {
	Width  float64 `json:"width" validate:"gte=0"`
	Length float64 `json:"length" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

// LayoutParameters shape the container grid.
type LayoutParameters struct {
	Rows            int     `json:"rows" validate:"gte=0"`
	Columns         int     `json:"columns" validate:"gte=0"`
	Spacing         float64 `json:"spacing" validate:"gte=0"` // meters between containers
	ContainerWidth  float64 `json:"containerWidth" validate:"gte=0"`
	ContainerLength float64 `json:"containerLength" validate:"gte=0"`
	ContainerHeight float64 `json:"containerHeight" validate:"gte=0"`
}

// Container is one placed container. Positions are meters from the
// site origin; rotation is degrees.
type Container struct {
	ID                 string  `json:"id"`
	X                  float64 `json:"x"`
	Y                  float64 `json:"y"`
	Z                  float64 `json:"z"`
	Rotation           float64 `json:"rotation"`
	MinersPerContainer int     `json:"minersPerContainer"`
	PowerPerMiner      float64 `json:"powerPerMiner"` // kW
}

// Generator is one placed generator.
type Generator struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Rotation float64 `json:"rotation"` // degrees
	Capacity float64 `json:"capacity"` // kW
}

// Inputs is the full planner state.
type Inputs struct {
	ContainerCount   int              `json:"containerCount" validate:"gte=0"`
	GeneratorCount   int              `json:"generatorCount" validate:"gte=0"`
	SiteDimensions   SiteDimensions   `json:"siteDimensions"`
	LayoutParameters LayoutParameters `json:"layoutParameters"`
	Containers       []Container      `json:"containers"`
	Generators       []Generator      `json:"generators"`
}

// Layout is a generated arrangement plus the effective grid it used.
type Layout struct {
	Containers       []Container      `json:"containers"`
	Generators       []Generator      `json:"generators"`
	LayoutParameters LayoutParameters `json:"layoutParameters"`
}

// GenerateLayout places containers row-major on the grid and generators
// evenly on a circle inset from the site edge. The grid auto-expands
// its row count so the requested container count always fits; the
// parameters actually used come back in the Layout.
func GenerateLayout(in Inputs) Layout {
	params := in.LayoutParameters

	safeColumns := params.Columns
	if safeColumns < 1 {
		safeColumns = 1
	}
	neededRows := int(math.Ceil(float64(in.ContainerCount) / float64(safeColumns)))
	safeRows := max(1, max(params.Rows, neededRows))
	params.Rows = safeRows
	params.Columns = safeColumns

	containers := make([]Container, 0, in.ContainerCount)
	idx := 0
	for row := 0; row < params.Rows && idx < in.ContainerCount; row++ {
		for col := 0; col < params.Columns && idx < in.ContainerCount; col++ {
			containers = append(containers, Container{
				ID:                 fmt.Sprintf("container-%d", idx),
				X:                  float64(col)*(params.ContainerWidth+params.Spacing) + params.ContainerWidth/2,
				Y:                  float64(row)*(params.ContainerLength+params.Spacing) + params.ContainerLength/2,
				Z:                  0,
				Rotation:           0,
				MinersPerContainer: defaultMinersPerContainer,
				PowerPerMiner:      defaultPowerPerMiner,
			})
			idx++
		}
	}

	generators := make([]Generator, 0, in.GeneratorCount)
	radius := math.Min(in.SiteDimensions.Width, in.SiteDimensions.Length)/2 - generatorInsetM
	for i := 0; i < in.GeneratorCount; i++ {
		angle := float64(i) / float64(in.GeneratorCount) * 2 * math.Pi
		generators = append(generators, Generator{
			ID:       fmt.Sprintf("generator-%d", i),
			X:        in.SiteDimensions.Width/2 + math.Cos(angle)*radius,
			Y:        in.SiteDimensions.Length/2 + math.Sin(angle)*radius,
			Z:        0,
			Rotation: angle * 180 / math.Pi,
			Capacity: generatorCapacityKW,
		})
	}

	return Layout{
		Containers:       containers,
		Generators:       generators,
		LayoutParameters: params,
	}
}
