package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/mounirActualMarketing/online-sub000/internal/model"
	repo "github.com/mounirActualMarketing/online-sub000/internal/repository"
)

func newPayment(userID uuid.UUID) *model.Payment {
	return &model.Payment{
		UserID:          userID,
		TransactionRef:  "T1",
		CartID:          "C1",
		Amount:          47,
		Currency:        "SAR",
		Status:          model.PaymentCompleted,
		PaymentMethod:   "card",
		CardType:        "Visa",
		ResponseCode:    "100",
		ResponseMessage: "Approved",
		TransactionAt:   time.Now(),
	}
}

func TestPostgresPaymentRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresPaymentRepository(sqlxDB)

	userID := uuid.New()
	paymentID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments`)).
		WithArgs(userID, "T1", "C1", 47.0, "SAR", "COMPLETED", "card", "Visa", "100", "Approved", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(paymentID, time.Now()))

	payment := newPayment(userID)
	require.NoError(t, r.Create(context.Background(), payment))
	require.Equal(t, paymentID, payment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPaymentRepository_Create_DuplicateTranRef(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresPaymentRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "payments_transaction_ref_key"})

	err = r.Create(context.Background(), newPayment(uuid.New()))
	require.ErrorIs(t, err, repo.ErrDuplicateTransaction)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPaymentRepository_FindByTransactionRef_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresPaymentRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM payments WHERE transaction_ref = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	payment, err := r.FindByTransactionRef(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, payment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPaymentRepository_FindByTransactionRef_Found(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresPaymentRepository(sqlxDB)

	id := uuid.New()
	userID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "user_id", "transaction_ref", "cart_id", "amount", "currency", "status"}).
		AddRow(id, userID, "T1", "C1", 47.0, "SAR", "COMPLETED")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM payments WHERE transaction_ref = $1`)).
		WithArgs("T1").WillReturnRows(rows)

	payment, err := r.FindByTransactionRef(context.Background(), "T1")
	require.NoError(t, err)
	require.Equal(t, userID, payment.UserID)
	require.Equal(t, model.PaymentCompleted, payment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
