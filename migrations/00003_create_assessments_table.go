package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateAssessmentsTable, downCreateAssessmentsTable)
}

func upCreateAssessmentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE assessments (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID UNIQUE NOT NULL REFERENCES users(id),
	  status TEXT NOT NULL DEFAULT 'NOT_STARTED',
	  score NUMERIC(5,2),
	  completed_at TIMESTAMP WITH TIME ZONE,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateAssessmentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS assessments;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
