package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence boundary for scenarios.
type Store interface {
	List(ctx context.Context) ([]Metadata, error)
	Get(ctx context.Context, id string) (*Scenario, error)
	Create(ctx context.Context, s Scenario) (*Scenario, error)
	Delete(ctx context.Context, id string) error
}

// PgxStore backs Store with postgres; payloads live in jsonb columns.
type PgxStore struct {
	pool *pgxpool.Pool
}

// NewPgxStore creates a store on the given pool.
func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{pool: pool}
}

// List returns the most recent scenarios, newest first, metadata only.
func (s *PgxStore) List(ctx context.Context) ([]Metadata, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, created_at, updated_at
		 FROM scenarios
		 ORDER BY created_at DESC
		 LIMIT $1`,
		listLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	list := make([]Metadata, 0, listLimit)
	for rows.Next() {
		var m Metadata
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan scenario metadata: %w", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	return list, nil
}

// Get returns one scenario with its payloads, or ErrNotFound.
func (s *PgxStore) Get(ctx context.Context, id string) (*Scenario, error) {
	var (
		sc             Scenario
		calculatorData []byte
		plannerData    []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, calculator_data, planner_data, created_at, updated_at
		 FROM scenarios WHERE id = $1`,
		id,
	).Scan(&sc.ID, &sc.Name, &sc.Email, &calculatorData, &plannerData, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get scenario: %w", err)
	}

	if err := json.Unmarshal(calculatorData, &sc.CalculatorData); err != nil {
		return nil, fmt.Errorf("decode calculator data: %w", err)
	}
	if err := json.Unmarshal(plannerData, &sc.PlannerData); err != nil {
		return nil, fmt.Errorf("decode planner data: %w", err)
	}
	return &sc, nil
}

// Create inserts a scenario and returns it with timestamps filled in.
func (s *PgxStore) Create(ctx context.Context, sc Scenario) (*Scenario, error) {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}

	calculatorData, err := json.Marshal(sc.CalculatorData)
	if err != nil {
		return nil, fmt.Errorf("encode calculator data: %w", err)
	}
	plannerData, err := json.Marshal(sc.PlannerData)
	if err != nil {
		return nil, fmt.Errorf("encode planner data: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO scenarios (id, name, email, calculator_data, planner_data)
		 VALUES ($1, $2, $3, $4::jsonb, $5::jsonb)
		 RETURNING created_at, updated_at`,
		sc.ID, sc.Name, sc.Email, string(calculatorData), string(plannerData),
	).Scan(&sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create scenario: %w", err)
	}
	return &sc, nil
}

// Delete removes a scenario; ErrNotFound when no row matched.
func (s *PgxStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
