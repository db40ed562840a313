package config

import (
	"errors"
	"fmt"
	"os"
)

// Config is read once at startup and injected into the pipeline, instead of
// letting every component call os.Getenv at point of use. Missing credentials
// for a notification channel disable that channel only; the corresponding
// Enabled methods are checked by the dispatcher before each attempt.
type Config struct {
	AppPort    string
	AppBaseURL string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	NATSURL            string
	JWTSecret          string
	DefaultCountryCode string

	Gateway  GatewayConfig
	Email    EmailConfig
	WhatsApp WhatsAppConfig
}

type GatewayConfig struct {
	BaseURL     string
	ProfileID   string
	ServerKey   string
	CallbackURL string
	ReturnURL   string
}

type EmailConfig struct {
	BaseURL    string
	APIKey     string
	Sender     string
	AdminEmail string
}

type WhatsAppConfig struct {
	BaseURL      string
	AccountID    string
	Token        string
	InboxID      string
	TemplateName string
}

func (c EmailConfig) Enabled() bool {
	return c.APIKey != "" && c.Sender != ""
}

func (c WhatsAppConfig) Enabled() bool {
	return c.AccountID != "" && c.Token != "" && c.InboxID != "" && c.TemplateName != ""
}

func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// LoginURL is the link embedded in credential notifications.
func (c Config) LoginURL() string {
	return c.AppBaseURL + "/login"
}

func Load() (*Config, error) {
	cfg := &Config{
		AppPort:    getEnv("APP_PORT", "8001"),
		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),

		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     os.Getenv("DB_NAME"),

		NATSURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "966"),

		Gateway: GatewayConfig{
			BaseURL:     getEnv("GATEWAY_BASE_URL", "https://secure.paytabs.sa"),
			ProfileID:   os.Getenv("GATEWAY_PROFILE_ID"),
			ServerKey:   os.Getenv("GATEWAY_SERVER_KEY"),
			CallbackURL: os.Getenv("GATEWAY_CALLBACK_URL"),
			ReturnURL:   os.Getenv("GATEWAY_RETURN_URL"),
		},
		Email: EmailConfig{
			BaseURL:    getEnv("EMAIL_API_URL", "https://api.smtp2go.com/v3"),
			APIKey:     os.Getenv("EMAIL_API_KEY"),
			Sender:     os.Getenv("EMAIL_SENDER"),
			AdminEmail: os.Getenv("ADMIN_EMAIL"),
		},
		WhatsApp: WhatsAppConfig{
			BaseURL:      getEnv("WHATSAPP_API_URL", "https://waba.360dialog.io"),
			AccountID:    os.Getenv("WHATSAPP_ACCOUNT_ID"),
			Token:        os.Getenv("WHATSAPP_TOKEN"),
			InboxID:      os.Getenv("WHATSAPP_INBOX_ID"),
			TemplateName: os.Getenv("WHATSAPP_TEMPLATE_NAME"),
		},
	}

	if cfg.DBUser == "" || cfg.DBHost == "" || cfg.DBName == "" {
		return nil, errors.New("database configuration is incomplete: DB_USER, DB_HOST and DB_NAME are required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
