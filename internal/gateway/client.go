package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mounirActualMarketing/online-sub000/internal/config"
)

// CustomerDetails mirrors the gateway's customer block, shared by the hosted
// page request and the webhook callback.
type CustomerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type PaymentResult struct {
	ResponseStatus  string `json:"response_status"`
	ResponseCode    string `json:"response_code"`
	ResponseMessage string `json:"response_message"`
}

func (r PaymentResult) Approved() bool {
	return r.ResponseStatus == "A"
}

type PaymentInfo struct {
	PaymentMethod string `json:"payment_method"`
	CardType      string `json:"card_type"`
}

// Transaction is the gateway's authoritative view of one payment, returned by
// the verification query and delivered by the webhook callback.
type Transaction struct {
	TranRef         string          `json:"tran_ref"`
	CartID          string          `json:"cart_id"`
	CartAmount      string          `json:"cart_amount"`
	CartCurrency    string          `json:"cart_currency"`
	CustomerDetails CustomerDetails `json:"customer_details"`
	PaymentResult   PaymentResult   `json:"payment_result"`
	PaymentInfo     PaymentInfo     `json:"payment_info"`
}

type HostedPageRequest struct {
	CartID          string
	Amount          string
	Currency        string
	Description     string
	CustomerDetails CustomerDetails
}

type HostedPageResponse struct {
	TranRef     string `json:"tran_ref"`
	RedirectURL string `json:"redirect_url"`
}

type Client interface {
	CreateHostedPage(ctx context.Context, req HostedPageRequest) (*HostedPageResponse, error)
	Verify(ctx context.Context, tranRef string) (*Transaction, error)
}

type httpClient struct {
	cfg    config.GatewayConfig
	client *http.Client
}

func NewClient(cfg config.GatewayConfig) Client {
	return &httpClient{
		cfg: cfg,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   20 * time.Second,
		},
	}
}

type hostedPagePayload struct {
	ProfileID       string          `json:"profile_id"`
	TranType        string          `json:"tran_type"`
	TranClass       string          `json:"tran_class"`
	CartID          string          `json:"cart_id"`
	CartAmount      string          `json:"cart_amount"`
	CartCurrency    string          `json:"cart_currency"`
	CartDescription string          `json:"cart_description"`
	CustomerDetails CustomerDetails `json:"customer_details"`
	Callback        string          `json:"callback"`
	Return          string          `json:"return"`
}

func (c *httpClient) CreateHostedPage(ctx context.Context, req HostedPageRequest) (*HostedPageResponse, error) {
	payload := hostedPagePayload{
		ProfileID:       c.cfg.ProfileID,
		TranType:        "sale",
		TranClass:       "ecom",
		CartID:          req.CartID,
		CartAmount:      req.Amount,
		CartCurrency:    req.Currency,
		CartDescription: req.Description,
		CustomerDetails: req.CustomerDetails,
		Callback:        c.cfg.CallbackURL,
		Return:          c.cfg.ReturnURL,
	}

	var out HostedPageResponse
	if err := c.post(ctx, "/payment/request", payload, &out); err != nil {
		return nil, err
	}
	if out.RedirectURL == "" {
		return nil, fmt.Errorf("gateway returned no redirect URL for cart %s", req.CartID)
	}

	return &out, nil
}

type verifyPayload struct {
	ProfileID string `json:"profile_id"`
	TranRef   string `json:"tran_ref"`
}

func (c *httpClient) Verify(ctx context.Context, tranRef string) (*Transaction, error) {
	var out Transaction
	if err := c.post(ctx, "/payment/query", verifyPayload{ProfileID: c.cfg.ProfileID, TranRef: tranRef}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.cfg.ServerKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway %s returned status %d: %s", path, resp.StatusCode, raw)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
