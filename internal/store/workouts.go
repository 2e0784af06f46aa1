package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/KevinDKao/running-diary/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const logColumns = `id, plan_id, week, day, actual_time, actual_distance, actual_pace,
		COALESCE(distance_unit, 'miles'), intensity, COALESCE(notes, ''), created_at, updated_at`

// SaveWorkoutLog upserts the log for (plan, week, day). The lookup and the
// write share a transaction but are not an atomic upsert: two concurrent
// writers for the same cell can still both insert.
func (s *Store) SaveWorkoutLog(ctx context.Context, in WorkoutInput) (string, error) {
	unit := in.DistanceUnit
	if unit == "" {
		unit = Miles
	}

	var logID string
	err := db.InTx(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT id FROM workout_logs
			WHERE plan_id=$1 AND week=$2 AND day=$3
		`, in.PlanID, in.Week, in.Day).Scan(&logID)

		switch {
		case err == nil:
			_, err = tx.Exec(ctx, `
				UPDATE workout_logs
				SET actual_time=$2, actual_distance=$3, actual_pace=$4,
					distance_unit=$5, intensity=$6, notes=$7, updated_at=now()
				WHERE id=$1
			`, logID, in.ActualTime, in.ActualDistance, in.ActualPace, string(unit), in.Intensity, in.Notes)
			return err
		case errors.Is(err, pgx.ErrNoRows):
			logID = uuid.NewString()
			_, err = tx.Exec(ctx, `
				INSERT INTO workout_logs (id, plan_id, week, day, actual_time, actual_distance, actual_pace, distance_unit, intensity, notes)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			`, logID, in.PlanID, in.Week, in.Day, in.ActualTime, in.ActualDistance, in.ActualPace, string(unit), in.Intensity, in.Notes)
			return err
		default:
			return err
		}
	})
	if err != nil {
		return "", fmt.Errorf("save workout log: %w", err)
	}
	return logID, nil
}

func (s *Store) GetWorkoutLog(ctx context.Context, planID string, week, day int) (WorkoutLog, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+logColumns+`
		FROM workout_logs WHERE plan_id=$1 AND week=$2 AND day=$3
	`, planID, week, day)
	l, err := scanLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WorkoutLog{}, ErrNotFound
		}
		return WorkoutLog{}, fmt.Errorf("get workout log: %w", err)
	}
	return l, nil
}

// GetLogs returns every log of a plan ordered by week then day.
func (s *Store) GetLogs(ctx context.Context, planID string) ([]WorkoutLog, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+logColumns+`
		FROM workout_logs WHERE plan_id=$1
		ORDER BY week, day
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("list workout logs: %w", err)
	}
	defer rows.Close()

	logs := []WorkoutLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workout logs: %w", err)
	}
	return logs, nil
}

// GetCompletedCells returns every cell that has a log, whatever its contents.
func (s *Store) GetCompletedCells(ctx context.Context, planID string) (CellSet, error) {
	rows, err := s.db.Query(ctx, `SELECT week, day FROM workout_logs WHERE plan_id=$1`, planID)
	if err != nil {
		return nil, fmt.Errorf("completed cells: %w", err)
	}
	defer rows.Close()

	cells := CellSet{}
	for rows.Next() {
		var week, day int
		if err := rows.Scan(&week, &day); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		cells.Add(week, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("completed cells: %w", err)
	}
	return cells, nil
}

func scanLog(row pgx.Row) (WorkoutLog, error) {
	var l WorkoutLog
	var unit string
	err := row.Scan(&l.ID, &l.PlanID, &l.Week, &l.Day, &l.ActualTime, &l.ActualDistance, &l.ActualPace,
		&unit, &l.Intensity, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	l.DistanceUnit = DistanceUnit(unit)
	return l, err
}
