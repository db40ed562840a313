package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mounirActualMarketing/online-sub000/internal/gateway"
)

var ErrPaymentNotApproved = errors.New("payment is not approved")

type CheckoutRequest struct {
	CartID      string
	Amount      string
	Currency    string
	Description string
	Name        string
	Email       string
	Phone       string
}

// CheckoutService starts a hosted-page payment and reconciles return-URL
// visits that arrive before (or without) the webhook.
type CheckoutService interface {
	StartCheckout(ctx context.Context, req CheckoutRequest) (redirectURL string, tranRef string, err error)
	ReconcileReturn(ctx context.Context, tranRef string) (*ProvisionResult, error)
}

type checkoutService struct {
	gateway    gateway.Client
	enrollment EnrollmentService
}

func NewCheckoutService(gw gateway.Client, enrollment EnrollmentService) CheckoutService {
	return &checkoutService{gateway: gw, enrollment: enrollment}
}

func (s *checkoutService) StartCheckout(ctx context.Context, req CheckoutRequest) (string, string, error) {
	page, err := s.gateway.CreateHostedPage(ctx, gateway.HostedPageRequest{
		CartID:      req.CartID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		CustomerDetails: gateway.CustomerDetails{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("create hosted payment page: %w", err)
	}

	return page.RedirectURL, page.TranRef, nil
}

// ReconcileReturn asks the gateway for the authoritative result and, when the
// payment is approved, runs the same provisioning pipeline the webhook runs.
// The pipeline's idempotency check makes it safe to race the webhook delivery.
func (s *checkoutService) ReconcileReturn(ctx context.Context, tranRef string) (*ProvisionResult, error) {
	tx, err := s.gateway.Verify(ctx, tranRef)
	if err != nil {
		return nil, fmt.Errorf("verify transaction %s: %w", tranRef, err)
	}

	if !tx.PaymentResult.Approved() {
		slog.InfoContext(ctx, "return visit for non-approved transaction",
			"tran_ref", tranRef, "response_status", tx.PaymentResult.ResponseStatus)
		return nil, ErrPaymentNotApproved
	}

	return s.enrollment.ProcessApprovedPayment(ctx, tx)
}
