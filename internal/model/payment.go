package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentCompleted = "COMPLETED"
	PaymentPending   = "PENDING"
	PaymentFailed    = "FAILED"
)

// Payment is an immutable record of one gateway transaction. TransactionRef
// carries a unique constraint so replayed webhooks cannot create a second row.
type Payment struct {
	ID              uuid.UUID `db:"id"`
	UserID          uuid.UUID `db:"user_id"`
	TransactionRef  string    `db:"transaction_ref"`
	CartID          string    `db:"cart_id"`
	Amount          float64   `db:"amount"`
	Currency        string    `db:"currency"`
	Status          string    `db:"status"`
	PaymentMethod   string    `db:"payment_method"`
	CardType        string    `db:"card_type"`
	ResponseCode    string    `db:"response_code"`
	ResponseMessage string    `db:"response_message"`
	TransactionAt   time.Time `db:"transaction_at"`
	CreatedAt       time.Time `db:"created_at"`
}
