package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

const createAttemptsSQL = `
CREATE TABLE IF NOT EXISTS rooms (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	slug text UNIQUE NOT NULL,
	name text NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS participants (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS attempts (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	room_id uuid REFERENCES rooms(id),
	room_slug text NOT NULL DEFAULT '',
	participant_id uuid REFERENCES participants(id),
	started_at timestamptz NOT NULL,
	finished_at timestamptz,
	question_count int NOT NULL,
	correct_count int,
	score_percent int,
	total_points int,
	status text
);

CREATE INDEX IF NOT EXISTS attempts_started_at_idx ON attempts (started_at DESC);
`

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createAttemptsSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`DROP TABLE IF EXISTS attempts; DROP TABLE IF EXISTS participants; DROP TABLE IF EXISTS rooms`)
			return err
		},
	)
}
