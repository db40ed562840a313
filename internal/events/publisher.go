package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type EventPublisher interface {
	PublishEnrollmentCompleted(userID uuid.UUID, email, tranRef string, amount float64, currency string) error
	PublishPaymentFailed(tranRef, cartID, reason string) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type EnrollmentCompletedEvent struct {
	EventType  string    `json:"event_type"`
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	TranRef    string    `json:"tran_ref"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentFailedEvent is the manual-follow-up record for callbacks that blew
// up mid-pipeline: the gateway still gets a 200, but operators get a trail.
type PaymentFailedEvent struct {
	EventType  string    `json:"event_type"`
	TranRef    string    `json:"tran_ref"`
	CartID     string    `json:"cart_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (p *NatsPublisher) PublishEnrollmentCompleted(userID uuid.UUID, email, tranRef string, amount float64, currency string) error {
	event := EnrollmentCompletedEvent{
		EventType:  "enrollment.completed",
		UserID:     userID,
		Email:      email,
		TranRef:    tranRef,
		Amount:     amount,
		Currency:   currency,
		OccurredAt: time.Now(),
	}

	eventJSON, err := json.Marshal(event)

	if err != nil {
		log.Printf("Error marshalling event JSON: %v", err)
		return err
	}

	subject := "enrollment.completed"
	err = p.conn.Publish(subject, eventJSON)

	if err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	log.Printf("Published event to NATS on subject '%s'", subject)

	return nil
}

func (p *NatsPublisher) PublishPaymentFailed(tranRef, cartID, reason string) error {
	event := PaymentFailedEvent{
		EventType:  "payment.failed",
		TranRef:    tranRef,
		CartID:     cartID,
		Reason:     reason,
		OccurredAt: time.Now(),
	}

	eventJSON, err := json.Marshal(event)

	if err != nil {
		return err
	}

	subject := "payment.failed"
	err = p.conn.Publish(subject, eventJSON)

	if err != nil {
		log.Printf("Error publishing to NATS: %v", err)

		return err
	}

	log.Printf("Published event to NATS on subject '%s' for tran_ref '%s'", subject, tranRef)

	return nil
}
