package api

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mounirActualMarketing/online-sub000/internal/service"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	validate *validator.Validate
}

func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		validate: validator.New(),
	}
}

type checkoutRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	Amount      string `json:"amount" validate:"required,numeric"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Description string `json:"description"`
}

func (h *CheckoutHandler) StartCheckout(c *fiber.Ctx) error {
	var req checkoutRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	redirectURL, tranRef, err := h.checkout.StartCheckout(c.Context(), service.CheckoutRequest{
		CartID:      uuid.NewString(),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
	})
	if err != nil {
		slog.ErrorContext(c.UserContext(), "failed to start checkout", "email", req.Email, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payment gateway is unavailable"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"redirect_url": redirectURL,
		"tran_ref":     tranRef,
	})
}

// HandleReturn reconciles the customer's return-URL visit: when the browser
// beats the webhook here, verification against the gateway provisions the
// account without waiting for the callback.
func (h *CheckoutHandler) HandleReturn(c *fiber.Ctx) error {
	tranRef := c.Query("tranRef")
	if tranRef == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tranRef query parameter is required"})
	}

	result, err := h.checkout.ReconcileReturn(c.Context(), tranRef)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotApproved) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "not_approved", "tran_ref": tranRef})
		}
		slog.ErrorContext(c.UserContext(), "return reconciliation failed", "tran_ref", tranRef, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not verify payment"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":            "approved",
		"tran_ref":          tranRef,
		"already_processed": result.AlreadyProcessed,
	})
}
