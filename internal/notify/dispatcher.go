package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Notification carries everything the delivery channels need. The plaintext
// password lives only in this value for the duration of the dispatch; it is
// never persisted and never echoed back over HTTP.
type Notification struct {
	Name           string
	Email          string
	Phone          string
	Password       string
	LoginURL       string
	Amount         float64
	Currency       string
	TransactionRef string
}

type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification)
}

// dispatcher fans a notification out to the customer email, WhatsApp and
// admin email channels. Channels run concurrently and every attempt is
// wrapped so that a failure or panic in one can never prevent the others
// from running or bubble up into the webhook response.
type dispatcher struct {
	mailer         Mailer
	whatsapp       WhatsAppSender
	channelTimeout time.Duration
}

func NewDispatcher(mailer Mailer, whatsapp WhatsAppSender) Dispatcher {
	return &dispatcher{
		mailer:         mailer,
		whatsapp:       whatsapp,
		channelTimeout: 15 * time.Second,
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, n Notification) {
	var wg sync.WaitGroup

	if d.mailer != nil {
		d.run(ctx, &wg, "email", n, d.mailer.SendCredentials)
		d.run(ctx, &wg, "admin_email", n, d.mailer.SendAdminAlert)
	} else {
		slog.Warn("email channel not configured, skipping", "email", n.Email)
	}

	if d.whatsapp != nil {
		d.run(ctx, &wg, "whatsapp", n, d.whatsapp.SendTemplate)
	} else {
		slog.Warn("whatsapp channel not configured, skipping", "email", n.Email)
	}

	wg.Wait()
}

func (d *dispatcher) run(ctx context.Context, wg *sync.WaitGroup, channel string, n Notification, send func(context.Context, Notification) error) {
	wg.Add(1)

	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "notification channel panicked",
					"channel", channel, "email", n.Email, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(ctx, d.channelTimeout)
		defer cancel()

		if err := send(ctx, n); err != nil {
			slog.ErrorContext(ctx, "notification delivery failed",
				"channel", channel, "email", n.Email, "tran_ref", n.TransactionRef, "error", err)
			return
		}

		slog.InfoContext(ctx, "notification delivered", "channel", channel, "email", n.Email)
	}()
}
