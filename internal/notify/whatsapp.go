package notify

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

// WhatsAppSender submits a pre-approved message template to the business
// messaging provider. The password is never put in the template — messaging
// platform policy forbids credential content, so the template text refers the
// customer to the email instead.
type WhatsAppSender interface {
	SendTemplate(ctx context.Context, n Notification) error
}

type httpWhatsAppSender struct {
	cfg                config.WhatsAppConfig
	defaultCountryCode string
	client             *http.Client
}

func NewHTTPWhatsAppSender(cfg config.WhatsAppConfig, defaultCountryCode string) WhatsAppSender {
	return &httpWhatsAppSender{
		cfg:                cfg,
		defaultCountryCode: defaultCountryCode,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

type templateMessageRequest struct {
	To       string            `json:"to"`
	Template string            `json:"template"`
	Params   map[string]string `json:"params"`
}

func (s *httpWhatsAppSender) SendTemplate(ctx context.Context, n Notification) error {
	to := NormalizePhone(n.Phone, s.defaultCountryCode)
	if to == "" {
		return fmt.Errorf("customer %s has no usable phone number", n.Email)
	}

	payload, err := json.Marshal(templateMessageRequest{
		To:       to,
		Template: s.cfg.TemplateName,
		Params: map[string]string{
			"name":      n.Name,
			"email":     n.Email,
			"login_url": n.LoginURL,
		},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/accounts/%s/inboxes/%s/template-messages",
		s.cfg.BaseURL, s.cfg.AccountID, s.cfg.InboxID,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp provider returned status %d: %s", resp.StatusCode, body)
	}

	return nil
}
