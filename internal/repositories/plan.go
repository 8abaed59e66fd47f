package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/heydj/internal/models"
	"github.com/desertthunder/heydj/internal/shared"
)

// PlanRepository persists [models.PersistedPlan] records.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new [PlanRepository] with the given database connection
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, sequence, input, search_function, search_query, playlist_name, description, created_at`

// Create stores plan with a generated ID and sequence
func (r *PlanRepository) Create(plan models.PlaylistPlan) (*models.PersistedPlan, error) {
	record := &models.PersistedPlan{
		ID:        shared.GenerateID(),
		Plan:      plan,
		CreatedAt: time.Now().UTC(),
	}

	sequence, err := NextSequence(r.db, "plans")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}
	record.Sequence = sequence

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `INSERT INTO plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		record.ID, record.Sequence, plan.Input, plan.SearchFunction, plan.SearchQuery,
		plan.PlaylistName, plan.Description, record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert plan: %w", err)
	}

	return record, nil
}

// Get retrieves a plan by ID
func (r *PlanRepository) Get(id string) (*models.PersistedPlan, error) {
	row := r.db.QueryRow(`SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlanNotFound, id)
	}
	return plan, err
}

// GetBySequence retrieves a plan by its sequence number
func (r *PlanRepository) GetBySequence(sequence int) (*models.PersistedPlan, error) {
	row := r.db.QueryRow(`SELECT `+planColumns+` FROM plans WHERE sequence = ?`, sequence)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: #%d", shared.ErrPlanNotFound, sequence)
	}
	return plan, err
}

// List returns the most recent plans first. A limit of zero or less returns every plan.
func (r *PlanRepository) List(limit int) ([]*models.PersistedPlan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY sequence DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.PersistedPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}

	return plans, nil
}

// Delete removes a plan by ID
func (r *PlanRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlanNotFound, id)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(s scanner) (*models.PersistedPlan, error) {
	var p models.PersistedPlan
	err := s.Scan(
		&p.ID, &p.Sequence, &p.Plan.Input, &p.Plan.SearchFunction, &p.Plan.SearchQuery,
		&p.Plan.PlaylistName, &p.Plan.Description, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan plan: %w", err)
	}
	return &p, nil
}
