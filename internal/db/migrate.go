package db

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS training_plans (
	id            TEXT PRIMARY KEY,
	session_id    TEXT NOT NULL,
	name          TEXT NOT NULL,
	weeks         INT NOT NULL CHECK (weeks >= 1),
	race_distance TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS workout_logs (
	id              TEXT PRIMARY KEY,
	plan_id         TEXT NOT NULL REFERENCES training_plans(id) ON DELETE CASCADE,
	week            INT NOT NULL,
	day             INT NOT NULL,
	actual_time     DOUBLE PRECISION,
	actual_distance DOUBLE PRECISION,
	actual_pace     DOUBLE PRECISION,
	distance_unit   TEXT DEFAULT 'miles',
	intensity       INT,
	notes           TEXT DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_training_plans_session ON training_plans(session_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_workout_logs_cell ON workout_logs(plan_id, week, day);
`

// Migrate ensures tables exist. Call once at startup.
func Migrate(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, schema)
	return err
}
