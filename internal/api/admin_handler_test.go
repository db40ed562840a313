package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mounirActualMarketing/online-sub000/internal/api"
	"github.com/mounirActualMarketing/online-sub000/internal/model"
)

type fakeAdminService struct {
	payments []model.Payment
	users    []model.User
}

func (f *fakeAdminService) Login(ctx context.Context, email, password string) (string, error) {
	return "", nil
}

func (f *fakeAdminService) ListUsers(ctx context.Context, page, limit int) ([]model.User, error) {
	return f.users, nil
}

func (f *fakeAdminService) ListPayments(ctx context.Context, page, limit int) ([]model.Payment, error) {
	return f.payments, nil
}

func (f *fakeAdminService) GetUserAssessment(ctx context.Context, userID uuid.UUID) (*model.Assessment, error) {
	return nil, nil
}

func TestListPayments_SnakeCaseResponse(t *testing.T) {
	payment := model.Payment{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		TransactionRef: "TST2609260001234",
		CartID:         "cart-1001",
		Amount:         1500,
		Currency:       "SAR",
		Status:         model.PaymentCompleted,
		PaymentMethod:  "card",
		CardType:       "Visa",
		ResponseCode:   "100",
		TransactionAt:  time.Now().UTC(),
	}

	handler := api.NewAdminHandler(&fakeAdminService{payments: []model.Payment{payment}})

	app := fiber.New()
	app.Get("/v1/admin/payments", handler.ListPayments)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/payments", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		Data    []map[string]any `json:"data"`
		Page    int              `json:"page"`
		PerPage int              `json:"per_page"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, 1, body.Page)
	require.Equal(t, 20, body.PerPage)

	got := body.Data[0]
	require.Equal(t, payment.TransactionRef, got["transaction_ref"])
	require.Equal(t, payment.UserID.String(), got["user_id"])
	require.Equal(t, payment.CartID, got["cart_id"])
	require.Equal(t, model.PaymentCompleted, got["status"])
	require.Equal(t, "card", got["payment_method"])
	require.NotContains(t, got, "TransactionRef")
	require.NotContains(t, got, "PaymentMethod")
}
