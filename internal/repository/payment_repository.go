package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/mounirActualMarketing/online-sub000/internal/model"
)

// ErrDuplicateTransaction signals that a payment with the same transaction
// reference already exists. Callers treat it as "already processed", not as a
// failure, so a redelivered webhook cannot create a second financial record.
var ErrDuplicateTransaction = errors.New("transaction reference already recorded")

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByTransactionRef(ctx context.Context, tranRef string) (*model.Payment, error)
	List(ctx context.Context, limit, offset int) ([]model.Payment, error)
}

type postgresPaymentRepository struct {
	db *sqlx.DB
}

func NewPostgresPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &postgresPaymentRepository{db: db}
}

func (r *postgresPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (user_id, transaction_ref, cart_id, amount, currency, status, payment_method, card_type, response_code, response_message, transaction_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		payment.UserID, payment.TransactionRef, payment.CartID, payment.Amount, payment.Currency,
		payment.Status, payment.PaymentMethod, payment.CardType, payment.ResponseCode, payment.ResponseMessage,
		payment.TransactionAt,
	)
	err := row.Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateTransaction
		}
		return err
	}

	return nil
}

func (r *postgresPaymentRepository) FindByTransactionRef(ctx context.Context, tranRef string) (*model.Payment, error) {
	var payment model.Payment
	query := `SELECT id, user_id, transaction_ref, cart_id, amount, currency, status, payment_method, card_type, response_code, response_message, transaction_at, created_at FROM payments WHERE transaction_ref = $1`
	err := r.db.GetContext(ctx, &payment, query, tranRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &payment, nil
}

func (r *postgresPaymentRepository) List(ctx context.Context, limit, offset int) ([]model.Payment, error) {
	var payments []model.Payment
	query := `SELECT id, user_id, transaction_ref, cart_id, amount, currency, status, payment_method, card_type, response_code, response_message, transaction_at, created_at FROM payments ORDER BY transaction_at DESC LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &payments, query, limit, offset)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []model.Payment{}
	}

	return payments, nil
}
