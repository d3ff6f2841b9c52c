package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ima-jin/imajin-coffee/internal/pkg/payments"
)

// CheckoutController serves the simplified one-shot donation flow: no
// page, no ledger row, just a hosted checkout redirect.
type CheckoutController struct {
	stripe  *payments.StripeClient
	baseURL string
}

// NewCheckoutController creates a checkout controller. baseURL is the
// public origin used for success/cancel redirects.
func NewCheckoutController(stripe *payments.StripeClient, baseURL string) *CheckoutController {
	return &CheckoutController{stripe: stripe, baseURL: baseURL}
}

type checkoutRequest struct {
	Amount    int64 `json:"amount"`
	Recurring bool  `json:"recurring"`
}

// HandleCreateCheckout creates a hosted checkout session and returns
// its redirect URL.
func (ctrl *CheckoutController) HandleCreateCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Amount < 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Minimum amount is $1"})
	}

	session, err := ctrl.stripe.CreateCheckoutSession(c.Context(), payments.CheckoutSessionParams{
		Amount:             req.Amount,
		Currency:           "usd",
		ProductName:        "Support Imajin",
		ProductDescription: "Thank you for supporting sovereign infrastructure!",
		Recurring:          req.Recurring,
		SuccessURL:         ctrl.baseURL + "/success",
		CancelURL:          ctrl.baseURL,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"url": session.URL})
}
