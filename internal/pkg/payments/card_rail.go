package payments

import (
	"context"

	"github.com/ima-jin/imajin-coffee/app/models"
	"github.com/ima-jin/imajin-coffee/internal/pkg/apperr"
)

// CardMinimumAmount is the smallest accepted card tip: 100 cents ($1).
const CardMinimumAmount int64 = 100

// CardRail initiates card payments by creating a provider-side intent.
// The adapter never learns the outcome synchronously; completion
// arrives later through the webhook reconciler.
type CardRail struct {
	client *StripeClient
}

// NewCardRail creates the card rail over an injected Stripe client.
func NewCardRail(client *StripeClient) *CardRail {
	return &CardRail{client: client}
}

func (r *CardRail) Name() string {
	return models.RailStripe
}

func (r *CardRail) Minimum() int64 {
	return CardMinimumAmount
}

// Initiate creates a payment intent carrying the tip id and sender
// info as opaque metadata so the provider event can be mapped back to
// the ledger row. Funds route to the page's connected account when one
// is configured.
func (r *CardRail) Initiate(ctx context.Context, page *models.CoffeePage, req InitiateRequest) (*Initiation, error) {
	cfg := page.PaymentMethods.Stripe
	if cfg == nil || !cfg.Enabled {
		return nil, apperr.New(apperr.KindValidation, "Card payments not enabled for this page")
	}

	fromDID := req.FromDID
	if fromDID == "" {
		fromDID = "anonymous"
	}
	fromName := req.FromName
	if fromName == "" {
		fromName = "Anonymous"
	}

	intent, err := r.client.CreatePaymentIntent(ctx, PaymentIntentParams{
		Amount:   req.Amount,
		Currency: req.Currency,
		Metadata: map[string]string{
			"tipId":      req.TipID,
			"pageId":     req.PageID,
			"pageHandle": req.PageHandle,
			"fromDid":    fromDID,
			"fromName":   fromName,
			"message":    req.Message,
		},
		TransferDestination: cfg.AccountID,
	})
	if err != nil {
		return nil, err
	}

	return &Initiation{
		Rail:         models.RailStripe,
		Reference:    intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}
