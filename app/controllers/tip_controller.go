package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ima-jin/imajin-coffee/app/models"
	"github.com/ima-jin/imajin-coffee/internal/pkg/middleware"
	"github.com/ima-jin/imajin-coffee/internal/pkg/tips"
)

// TipController serves tip creation and the owner's tip listing.
type TipController struct {
	ledger *tips.Service
}

// NewTipController creates a tip controller over the injected ledger.
func NewTipController(ledger *tips.Service) *TipController {
	return &TipController{ledger: ledger}
}

type createTipRequest struct {
	PageHandle    string `json:"pageHandle"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"paymentMethod"`
	Message       string `json:"message"`
	FromName      string `json:"fromName"`
}

// HandleCreateTip creates a pending tip and returns the rail-specific
// initiation payload. Senders may be anonymous; a valid bearer token
// attaches their DID.
func (ctrl *TipController) HandleCreateTip(c *fiber.Ctx) error {
	var req createTipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	fromDID := ""
	if ident := middleware.IdentityFrom(c); ident != nil {
		fromDID = ident.ID
	}

	result, err := ctrl.ledger.CreateTip(c.Context(), tips.CreateTipInput{
		PageHandle:    req.PageHandle,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		Message:       req.Message,
		FromDID:       fromDID,
		FromName:      req.FromName,
	})
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{
		"tipId":         result.Tip.ID,
		"paymentMethod": result.Tip.PaymentMethod,
	}
	switch result.Tip.PaymentMethod {
	case models.RailStripe:
		resp["clientSecret"] = result.Initiation.ClientSecret
	case models.RailSolana:
		resp["solanaAddress"] = result.Initiation.Address
		resp["amount"] = result.Tip.Amount
	}
	return c.JSON(resp)
}

// HandleListTips returns the tips received by a DID. Callers may only
// read their own ledger.
func (ctrl *TipController) HandleListTips(c *fiber.Ctx) error {
	did := c.Params("did")
	ident := middleware.IdentityFrom(c)
	if ident == nil || ident.ID != did {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to view these tips"})
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	status := c.Query("status")

	result, err := ctrl.ledger.ListTips(c.Context(), did, status, limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"tips":   result.Tips,
		"totals": result.Totals,
		"pagination": fiber.Map{
			"limit":  result.Limit,
			"offset": result.Offset,
		},
	})
}
