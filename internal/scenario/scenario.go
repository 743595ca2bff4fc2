// Package scenario persists saved mining scenarios: a calculator state
// plus a planner state, stored as JSON documents keyed by id.
package scenario

import (
	"errors"
	"time"

	"github.com/cryptocoin/app/internal/calc"
	"github.com/cryptocoin/app/internal/planner"
)

// listLimit caps the listing at the most recent scenarios.
const listLimit = 20

// ErrNotFound is returned when no scenario matches the id.
var ErrNotFound = errors.New("scenario: not found")

// Scenario is one saved scenario. Name and Email are optional; the
// site lets visitors save anonymously.
type Scenario struct {
	ID             string         `json:"id"`
	Name           *string        `json:"name"`
	Email          *string        `json:"email"`
	CalculatorData calc.Inputs    `json:"calculatorData"`
	PlannerData    planner.Inputs `json:"plannerData"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Metadata is the listing projection: everything except the payloads.
type Metadata struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateRequest is the POST body.
type CreateRequest struct {
	Name           string         `json:"name,omitempty" validate:"omitempty,max=200"`
	Email          string         `json:"email,omitempty" validate:"omitempty,email"`
	CalculatorData calc.Inputs    `json:"calculatorData" validate:"required"`
	PlannerData    planner.Inputs `json:"plannerData" validate:"required"`
}
