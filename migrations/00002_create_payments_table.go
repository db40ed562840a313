package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePaymentsTable, downCreatePaymentsTable)
}

func upCreatePaymentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE payments (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID NOT NULL REFERENCES users(id),
	  transaction_ref TEXT UNIQUE NOT NULL,
	  cart_id TEXT NOT NULL,
	  amount NUMERIC(12,2) NOT NULL,
	  currency TEXT NOT NULL,
	  status TEXT NOT NULL,
	  payment_method TEXT NOT NULL DEFAULT '',
	  card_type TEXT NOT NULL DEFAULT '',
	  response_code TEXT NOT NULL DEFAULT '',
	  response_message TEXT NOT NULL DEFAULT '',
	  transaction_at TIMESTAMP WITH TIME ZONE NOT NULL,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX idx_payments_user_id ON payments(user_id);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreatePaymentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS payments;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
