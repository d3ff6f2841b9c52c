package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ima-jin/imajin-coffee/app/controllers"
	"github.com/ima-jin/imajin-coffee/app/repository"
	"github.com/ima-jin/imajin-coffee/internal/pkg/identity"
	"github.com/ima-jin/imajin-coffee/internal/pkg/middleware"
	"github.com/ima-jin/imajin-coffee/internal/pkg/payments"
	"github.com/ima-jin/imajin-coffee/internal/pkg/tips"
)

// Dependencies carries the explicitly constructed collaborators the
// HTTP surface is wired with.
type Dependencies struct {
	Pages         repository.PageRepository
	Ledger        *tips.Service
	Stripe        *payments.StripeClient
	Identity      *identity.Client
	WebhookSecret string
	BaseURL       string
}

// InstallRouter mounts the JSON API under /api.
func InstallRouter(app *fiber.App, deps Dependencies) {
	pageCtrl := controllers.NewPageController(deps.Pages)
	tipCtrl := controllers.NewTipController(deps.Ledger)
	webhookCtrl := controllers.NewWebhookController(deps.WebhookSecret, deps.Ledger)
	checkoutCtrl := controllers.NewCheckoutController(deps.Stripe, deps.BaseURL)

	requireAuth := middleware.RequireAuth(deps.Identity)
	optionalAuth := middleware.OptionalAuth(deps.Identity)

	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	api.Post("/pages", requireAuth, pageCtrl.HandleCreatePage)
	api.Get("/pages/:handle", optionalAuth, pageCtrl.HandleGetPage)
	api.Put("/pages/:handle", requireAuth, pageCtrl.HandleUpdatePage)
	api.Delete("/pages/:handle", requireAuth, pageCtrl.HandleDeletePage)

	api.Post("/tip", optionalAuth, tipCtrl.HandleCreateTip)
	api.Get("/tips/:did", requireAuth, tipCtrl.HandleListTips)

	api.Post("/webhook", webhookCtrl.HandleStripeWebhook)
	api.Post("/checkout", checkoutCtrl.HandleCreateCheckout)
}
