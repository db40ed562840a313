package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mounirActualMarketing/online-sub000/internal/service"
)

type AdminHandler struct {
	admin    service.AdminService
	validate *validator.Validate
}

func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		validate: validator.New(),
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var request LoginRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	accessToken, err := h.admin.Login(c.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		if errors.Is(err, service.ErrNotAdmin) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"access_token": accessToken})
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, limit := pagination(c)

	users, err := h.admin.ListUsers(c.Context(), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, UserResponse{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Name,
			Phone:     u.Phone,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": response, "page": page, "per_page": limit})
}

type PaymentResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	TransactionRef  string    `json:"transaction_ref"`
	CartID          string    `json:"cart_id"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	PaymentMethod   string    `json:"payment_method"`
	CardType        string    `json:"card_type"`
	ResponseCode    string    `json:"response_code"`
	ResponseMessage string    `json:"response_message"`
	TransactionAt   time.Time `json:"transaction_at"`
}

func (h *AdminHandler) ListPayments(c *fiber.Ctx) error {
	page, limit := pagination(c)

	payments, err := h.admin.ListPayments(c.Context(), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	response := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, PaymentResponse{
			ID:              p.ID,
			UserID:          p.UserID,
			TransactionRef:  p.TransactionRef,
			CartID:          p.CartID,
			Amount:          p.Amount,
			Currency:        p.Currency,
			Status:          p.Status,
			PaymentMethod:   p.PaymentMethod,
			CardType:        p.CardType,
			ResponseCode:    p.ResponseCode,
			ResponseMessage: p.ResponseMessage,
			TransactionAt:   p.TransactionAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": response, "page": page, "per_page": limit})
}

func (h *AdminHandler) GetUserAssessment(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID format"})
	}

	assessment, err := h.admin.GetUserAssessment(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if assessment == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assessment not found"})
	}

	return c.Status(fiber.StatusOK).JSON(assessment)
}

func pagination(c *fiber.Ctx) (page int, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
