package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ima-jin/imajin-coffee/app/repository"
	"github.com/ima-jin/imajin-coffee/internal/pkg/cache"
	"github.com/ima-jin/imajin-coffee/internal/pkg/database"
	"github.com/ima-jin/imajin-coffee/internal/pkg/env"
	"github.com/ima-jin/imajin-coffee/internal/pkg/identity"
	"github.com/ima-jin/imajin-coffee/internal/pkg/payments"
	"github.com/ima-jin/imajin-coffee/internal/pkg/router"
	"github.com/ima-jin/imajin-coffee/internal/pkg/tips"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "3009")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	factory := repository.GetGlobalFactory()
	stripeClient := payments.NewStripeClientFromEnv()
	ledger := tips.NewService(
		factory.GetPageRepository(),
		factory.GetTipRepository(),
		payments.NewCardRail(stripeClient),
		payments.NewSolanaRailFromEnv(),
	)

	app := fiber.New(fiber.Config{
		AppName: "imajin-coffee",
	})

	app.Use(recover.New(), logger.New())

	router.InstallRouter(app, router.Dependencies{
		Pages:         factory.GetPageRepository(),
		Ledger:        ledger,
		Stripe:        stripeClient,
		Identity:      identity.NewClientFromEnv(),
		WebhookSecret: env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		BaseURL:       strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "http://localhost:3009"), "/"),
	})

	return app
}
