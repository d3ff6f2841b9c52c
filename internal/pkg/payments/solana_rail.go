package payments

import (
	"context"
	"strconv"

	"github.com/ima-jin/imajin-coffee/app/models"
	"github.com/ima-jin/imajin-coffee/internal/pkg/apperr"
	"github.com/ima-jin/imajin-coffee/internal/pkg/env"
)

// DefaultSolanaMinimumLamports is the default floor for on-chain tips.
const DefaultSolanaMinimumLamports int64 = 100

// SolanaRail is purely informational: it hands back the page's
// receiving address and creates no state with any external system. The
// client builds and signs the transaction itself, and settlement
// confirmation is an unimplemented extension point — tips on this rail
// stay pending until an out-of-band mechanism confirms them.
type SolanaRail struct {
	MinLamports int64
}

// NewSolanaRailFromEnv builds the rail with SOLANA_MIN_LAMPORTS as its
// policy minimum.
func NewSolanaRailFromEnv() *SolanaRail {
	min := DefaultSolanaMinimumLamports
	if raw := env.GetEnv("SOLANA_MIN_LAMPORTS", ""); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			min = parsed
		}
	}
	return &SolanaRail{MinLamports: min}
}

func (r *SolanaRail) Name() string {
	return models.RailSolana
}

func (r *SolanaRail) Minimum() int64 {
	return r.MinLamports
}

func (r *SolanaRail) Initiate(ctx context.Context, page *models.CoffeePage, req InitiateRequest) (*Initiation, error) {
	_ = ctx
	cfg := page.PaymentMethods.Solana
	if cfg == nil || !cfg.Enabled {
		return nil, apperr.New(apperr.KindValidation, "Solana payments not enabled for this page")
	}
	if cfg.Address == "" {
		return nil, apperr.New(apperr.KindValidation, "Solana payments not configured for this page")
	}

	return &Initiation{
		Rail:      models.RailSolana,
		Reference: models.PaymentRefPending,
		Address:   cfg.Address,
	}, nil
}
