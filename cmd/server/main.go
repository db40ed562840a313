package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mounirActualMarketing/online-sub000/internal/api"
	"github.com/mounirActualMarketing/online-sub000/internal/config"
	"github.com/mounirActualMarketing/online-sub000/internal/events"
	"github.com/mounirActualMarketing/online-sub000/internal/gateway"
	"github.com/mounirActualMarketing/online-sub000/internal/notify"
	"github.com/mounirActualMarketing/online-sub000/internal/repository"
	"github.com/mounirActualMarketing/online-sub000/internal/service"
	"github.com/mounirActualMarketing/online-sub000/internal/tracing"
	_ "github.com/mounirActualMarketing/online-sub000/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables provided by Docker")
	}

	api.SetupGlobalHandler("enrollment-service")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	shutdownTracer, err := tracing.InitTracerProvider("enrollment-service")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations(cfg)
		return
	}

	db := connectDB(cfg)
	defer db.Close()

	eventPublisher, err := events.NewNatsPublisher(cfg.NATSURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	log.Println("Successfully connected to NATS.")

	userRepo := repository.NewPostgresUserRepository(db)
	paymentRepo := repository.NewPostgresPaymentRepository(db)
	assessmentRepo := repository.NewPostgresAssessmentRepository(db)

	var mailer notify.Mailer
	if cfg.Email.Enabled() {
		mailer = notify.NewHTTPMailer(cfg.Email)
	} else {
		log.Println("WARNING: email credentials missing, email channel disabled")
	}

	var whatsapp notify.WhatsAppSender
	if cfg.WhatsApp.Enabled() {
		whatsapp = notify.NewHTTPWhatsAppSender(cfg.WhatsApp, cfg.DefaultCountryCode)
	} else {
		log.Println("WARNING: whatsapp credentials missing, whatsapp channel disabled")
	}

	dispatcher := notify.NewDispatcher(mailer, whatsapp)
	gatewayClient := gateway.NewClient(cfg.Gateway)

	enrollmentService := service.NewEnrollmentService(userRepo, paymentRepo, assessmentRepo, dispatcher, eventPublisher, cfg.LoginURL())
	checkoutService := service.NewCheckoutService(gatewayClient, enrollmentService)
	adminService := service.NewAdminService(userRepo, paymentRepo, assessmentRepo, cfg.JWTSecret)

	webhookHandler := api.NewWebhookHandler(enrollmentService, eventPublisher)
	checkoutHandler := api.NewCheckoutHandler(checkoutService)
	adminHandler := api.NewAdminHandler(adminService)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "enrollment-service"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")

	checkoutRoutes := v1.Group("/checkout")
	checkoutRoutes.Use(limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many request, please try again later.",
			})
		},
	}))
	checkoutRoutes.Post("/", checkoutHandler.StartCheckout)
	checkoutRoutes.Get("/return", checkoutHandler.HandleReturn)

	v1.Post("/payments/callback", webhookHandler.HandlePaymentCallback)

	v1.Post("/auth/login", adminHandler.Login)

	adminRoutes := v1.Group("/admin")
	adminRoutes.Use(api.AdminAuthMiddleware(cfg.JWTSecret))
	adminRoutes.Get("/users", adminHandler.ListUsers)
	adminRoutes.Get("/payments", adminHandler.ListPayments)
	adminRoutes.Get("/users/:id/assessment", adminHandler.GetUserAssessment)

	log.Printf("Listening enrollment-service on port %s", cfg.AppPort)
	log.Fatal(app.Listen(":" + cfg.AppPort))
}

func connectDB(cfg *config.Config) *sqlx.DB {
	db, err := sqlx.Connect("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func handleMigrations(cfg *config.Config) {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
