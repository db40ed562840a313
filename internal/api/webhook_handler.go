package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mounirActualMarketing/online-sub000/internal/events"
	"github.com/mounirActualMarketing/online-sub000/internal/gateway"
	"github.com/mounirActualMarketing/online-sub000/internal/service"
)

type WebhookHandler struct {
	enrollment service.EnrollmentService
	publisher  events.EventPublisher
	validate   *validator.Validate
}

func NewWebhookHandler(enrollment service.EnrollmentService, publisher events.EventPublisher) *WebhookHandler {
	return &WebhookHandler{
		enrollment: enrollment,
		publisher:  publisher,
		validate:   validator.New(),
	}
}

type webhookRequest struct {
	TranRef         string                  `json:"tran_ref" validate:"required"`
	CartID          string                  `json:"cart_id" validate:"required"`
	CartAmount      string                  `json:"cart_amount"`
	CartCurrency    string                  `json:"cart_currency"`
	CustomerDetails gateway.CustomerDetails `json:"customer_details"`
	PaymentResult   *gateway.PaymentResult  `json:"payment_result" validate:"required"`
	PaymentInfo     gateway.PaymentInfo     `json:"payment_info"`
}

// HandlePaymentCallback receives the gateway's POST callback. Malformed
// payloads are the only case that may return a client error; once the payload
// is accepted the handler always acknowledges with HTTP 200, whatever happens
// inside the pipeline, because the gateway retries non-2xx deliveries
// indefinitely.
func (h *WebhookHandler) HandlePaymentCallback(c *fiber.Ctx) error {
	var req webhookRequest

	if err := c.BodyParser(&req); err != nil {
		slog.WarnContext(c.UserContext(), "unparseable webhook payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON", "details": err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		slog.WarnContext(c.UserContext(), "malformed webhook payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	isApproved := req.PaymentResult.Approved()
	processed := false

	if !isApproved {
		slog.InfoContext(c.UserContext(), "payment declined, no provisioning",
			"tran_ref", req.TranRef,
			"cart_id", req.CartID,
			"response_status", req.PaymentResult.ResponseStatus,
			"response_message", req.PaymentResult.ResponseMessage,
		)
	} else {
		tx := &gateway.Transaction{
			TranRef:         req.TranRef,
			CartID:          req.CartID,
			CartAmount:      req.CartAmount,
			CartCurrency:    req.CartCurrency,
			CustomerDetails: req.CustomerDetails,
			PaymentResult:   *req.PaymentResult,
			PaymentInfo:     req.PaymentInfo,
		}

		result, err := h.safeProcess(c.UserContext(), tx)
		if err != nil {
			slog.ErrorContext(c.UserContext(), "payment pipeline failed, acknowledging anyway",
				"tran_ref", req.TranRef, "cart_id", req.CartID, "email", req.CustomerDetails.Email, "error", err)
			go h.publisher.PublishPaymentFailed(req.TranRef, req.CartID, err.Error())
		} else {
			// A redelivered webhook is acknowledged but not re-processed.
			processed = !result.AlreadyProcessed
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     "received",
		"cart_id":    req.CartID,
		"tran_ref":   req.TranRef,
		"processed":  processed,
		"isApproved": isApproved,
	})
}

// safeProcess converts a pipeline panic into an error so the acknowledgement
// above is still sent.
func (h *WebhookHandler) safeProcess(ctx context.Context, tx *gateway.Transaction) (result *service.ProvisionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic in payment pipeline: %v", r)
		}
	}()

	return h.enrollment.ProcessApprovedPayment(ctx, tx)
}
