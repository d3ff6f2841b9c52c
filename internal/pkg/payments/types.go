// Package payments holds the payment rail adapters: the Stripe card
// rail (intent + hosted checkout), the informational Solana rail, and
// the webhook verification/decoding used by reconciliation.
package payments

import (
	"context"

	"github.com/ima-jin/imajin-coffee/app/models"
)

// InitiateRequest carries everything a rail needs to start a payment.
// The metadata fields travel to the provider opaquely so asynchronous
// events can be mapped back to the ledger row.
type InitiateRequest struct {
	TipID      string
	PageID     string
	PageHandle string
	Amount     int64
	Currency   string
	FromDID    string
	FromName   string
	Message    string
}

// Initiation is the rail-specific result handed back to the client.
// Exactly one of ClientSecret (card) or Address (on-chain) is set.
type Initiation struct {
	Rail         string
	Reference    string // provider payment id, or models.PaymentRefPending
	ClientSecret string
	Address      string
}

// Rail is one payment channel able to initiate a payment for a page.
type Rail interface {
	Name() string
	// Minimum is the smallest accepted amount in the rail's minor unit.
	Minimum() int64
	Initiate(ctx context.Context, page *models.CoffeePage, req InitiateRequest) (*Initiation, error)
}
