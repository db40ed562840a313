package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mounirActualMarketing/online-sub000/internal/config"
)

const credentialsEmailTemplate = `
<html>
  <body style="font-family: Arial, sans-serif;">
    <h2>Welcome, {{.Name}}!</h2>
    <p>Your payment was received and your account is ready.</p>
    <p>Email: <strong>{{.Email}}</strong><br/>
       Password: <strong>{{.Password}}</strong></p>
    <p><a href="{{.LoginURL}}">Log in to start your assessment</a></p>
  </body>
</html>
`

const adminAlertEmailTemplate = `
<html>
  <body style="font-family: Arial, sans-serif;">
    <h3>New enrollment</h3>
    <p>{{.Name}} ({{.Email}}) paid {{.Amount}} {{.Currency}}.</p>
    <p>Transaction reference: {{.TransactionRef}}</p>
  </body>
</html>
`

type Mailer interface {
	SendCredentials(ctx context.Context, n Notification) error
	SendAdminAlert(ctx context.Context, n Notification) error
}

type httpMailer struct {
	cfg       config.EmailConfig
	client    *http.Client
	credTmpl  *template.Template
	alertTmpl *template.Template
}

func NewHTTPMailer(cfg config.EmailConfig) Mailer {
	return &httpMailer{
		cfg: cfg,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
		credTmpl:  template.Must(template.New("credentials").Parse(credentialsEmailTemplate)),
		alertTmpl: template.Must(template.New("admin_alert").Parse(adminAlertEmailTemplate)),
	}
}

type sendEmailRequest struct {
	Sender   string   `json:"sender"`
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	HTMLBody string   `json:"html_body"`
}

type sendEmailResponse struct {
	Data struct {
		Succeeded int      `json:"succeeded"`
		Failed    int      `json:"failed"`
		Errors    []string `json:"failures"`
	} `json:"data"`
}

func (m *httpMailer) SendCredentials(ctx context.Context, n Notification) error {
	var body bytes.Buffer
	if err := m.credTmpl.Execute(&body, n); err != nil {
		return fmt.Errorf("render credentials email: %w", err)
	}

	return m.send(ctx, n.Email, "Your account is ready", body.String())
}

func (m *httpMailer) SendAdminAlert(ctx context.Context, n Notification) error {
	if m.cfg.AdminEmail == "" {
		slog.WarnContext(ctx, "admin email not configured, skipping admin alert", "tran_ref", n.TransactionRef)
		return nil
	}

	var body bytes.Buffer
	if err := m.alertTmpl.Execute(&body, n); err != nil {
		return fmt.Errorf("render admin alert email: %w", err)
	}

	subject := fmt.Sprintf("New payment from %s (%s)", n.Name, n.TransactionRef)
	return m.send(ctx, m.cfg.AdminEmail, subject, body.String())
}

func (m *httpMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	payload, err := json.Marshal(sendEmailRequest{
		Sender:   m.cfg.Sender,
		To:       []string{to},
		Subject:  subject,
		HTMLBody: htmlBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/email/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Smtp2go-Api-Key", m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("email provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	var result sendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.Data.Failed > 0 {
		return fmt.Errorf("email provider rejected delivery to %s: %v", to, result.Data.Errors)
	}

	return nil
}
