package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ima-jin/imajin-coffee/internal/pkg/payments"
	"github.com/ima-jin/imajin-coffee/internal/pkg/tips"
)

// WebhookController reconciles asynchronous provider events into the
// tip ledger.
type WebhookController struct {
	secret string
	ledger *tips.Service
	now    func() time.Time
}

// NewWebhookController creates a webhook controller with the shared
// signing secret.
func NewWebhookController(secret string, ledger *tips.Service) *WebhookController {
	return &WebhookController{secret: secret, ledger: ledger, now: time.Now}
}

// HandleStripeWebhook verifies the delivery signature against the raw
// payload before anything in it is trusted, decodes the event, and
// applies it. Deliveries this system cannot act on are acknowledged so
// the provider stops retrying; only signature failures are rejected.
func (ctrl *WebhookController) HandleStripeWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("Stripe-Signature")

	if signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing signature"})
	}

	if !payments.VerifyStripeWebhookSignature(body, signature, ctrl.secret, ctrl.now()) {
		log.Print("webhook: signature verification failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}

	event, err := payments.ParsePaymentEvent(body)
	if err != nil {
		log.Printf("webhook: failed to decode verified payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payload"})
	}

	if err := ctrl.ledger.ApplyPaymentEvent(c.Context(), event); err != nil {
		log.Printf("webhook: failed to apply event %s: %v", event.EventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook handler failed"})
	}

	return c.JSON(fiber.Map{"received": true})
}
