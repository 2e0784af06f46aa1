package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/KevinDKao/running-diary/internal/db"
	"github.com/KevinDKao/running-diary/internal/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("not found")

// Store is the persistence layer for plans and workout logs. It performs no
// input validation and keeps no cache; every call goes to the database.
type Store struct {
	db db.Querier
}

func New(q db.Querier) *Store {
	return &Store{db: q}
}

func (s *Store) CreatePlan(ctx context.Context, sess session.Session, name string, weeks int, raceDistance string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO training_plans (id, session_id, name, weeks, race_distance)
		VALUES ($1,$2,$3,$4,$5)
	`, id, sess.ID, name, weeks, raceDistance)
	if err != nil {
		return "", fmt.Errorf("create plan: %w", err)
	}
	return id, nil
}

// GetPlans lists the session's plans, most recent first.
func (s *Store) GetPlans(ctx context.Context, sess session.Session) ([]Plan, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, session_id, name, weeks, race_distance, created_at
		FROM training_plans WHERE session_id=$1
		ORDER BY created_at DESC
	`, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := []Plan{}
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Name, &p.Weeks, &p.RaceDistance, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (s *Store) GetPlan(ctx context.Context, planID string) (Plan, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, session_id, name, weeks, race_distance, created_at
		FROM training_plans WHERE id=$1
	`, planID)
	var p Plan
	if err := row.Scan(&p.ID, &p.SessionID, &p.Name, &p.Weeks, &p.RaceDistance, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, ErrNotFound
		}
		return Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// DeletePlan removes the plan's logs and then the plan in one transaction.
// The result reports whether a plan row was removed.
func (s *Store) DeletePlan(ctx context.Context, planID string) (bool, error) {
	var removed bool
	err := db.InTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM workout_logs WHERE plan_id=$1`, planID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM training_plans WHERE id=$1`, planID)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete plan: %w", err)
	}
	return removed, nil
}
