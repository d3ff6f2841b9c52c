// Package tips owns the tip ledger: creating tip rows, driving them
// through a payment rail, and reconciling asynchronous provider events
// into durable terminal statuses.
package tips

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ima-jin/imajin-coffee/app/models"
	"github.com/ima-jin/imajin-coffee/app/repository"
	"github.com/ima-jin/imajin-coffee/internal/pkg/apperr"
	"github.com/ima-jin/imajin-coffee/internal/pkg/payments"
	"gorm.io/gorm"
)

// Service is the tip ledger. Rails are injected so tests can swap the
// provider out; the service itself never mutates a tip's status — all
// terminal transitions go through ApplyPaymentEvent.
type Service struct {
	pages repository.PageRepository
	tips  repository.TipRepository
	rails map[string]payments.Rail
}

// NewService creates a ledger over injected repositories and rails.
func NewService(pages repository.PageRepository, tips repository.TipRepository, rails ...payments.Rail) *Service {
	m := make(map[string]payments.Rail, len(rails))
	for _, r := range rails {
		m[r.Name()] = r
	}
	return &Service{pages: pages, tips: tips, rails: m}
}

// CreateTipInput is one tip creation request. FromDID is empty for
// anonymous tippers.
type CreateTipInput struct {
	PageHandle    string
	Amount        int64
	Currency      string
	PaymentMethod string
	Message       string
	FromDID       string
	FromName      string
}

// CreateTipResult pairs the persisted pending row with the
// rail-specific initiation payload the client needs to complete the
// payment out of band.
type CreateTipResult struct {
	Tip        *models.Tip
	Initiation *payments.Initiation
}

// CreateTip resolves the page, validates the request against page
// policy and rail minimums, initiates the payment, and persists a
// pending ledger row. No row is written when initiation fails.
func (s *Service) CreateTip(ctx context.Context, in CreateTipInput) (*CreateTipResult, error) {
	if strings.TrimSpace(in.PageHandle) == "" {
		return nil, apperr.New(apperr.KindValidation, "pageHandle is required")
	}

	rail, ok := s.rails[in.PaymentMethod]
	if !ok {
		return nil, apperr.New(apperr.KindValidation, "paymentMethod must be stripe or solana")
	}

	page, err := s.pages.GetByHandle(in.PageHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "Coffee page not found")
		}
		return nil, err
	}

	if !page.IsPublic {
		return nil, apperr.New(apperr.KindForbidden, "This page is not accepting tips")
	}

	if !page.PaymentMethods.RailEnabled(rail.Name()) {
		switch rail.Name() {
		case models.RailStripe:
			return nil, apperr.New(apperr.KindValidation, "Card payments not enabled for this page")
		default:
			return nil, apperr.New(apperr.KindValidation, "Solana payments not enabled for this page")
		}
	}

	if in.Amount < rail.Minimum() {
		if rail.Name() == models.RailStripe {
			return nil, apperr.New(apperr.KindValidation, "amount must be at least 100 cents ($1)")
		}
		return nil, apperr.Newf(apperr.KindValidation, "amount must be at least %d lamports", rail.Minimum())
	}

	if in.Message != "" && !page.AllowMessages {
		return nil, apperr.New(apperr.KindValidation, "This page does not accept messages with tips")
	}

	currency := currencyForRail(rail.Name(), in.Currency)
	tipID := models.GenerateID("tip")

	initiation, err := rail.Initiate(ctx, page, payments.InitiateRequest{
		TipID:      tipID,
		PageID:     page.ID,
		PageHandle: page.Handle,
		Amount:     in.Amount,
		Currency:   currency,
		FromDID:    in.FromDID,
		FromName:   in.FromName,
		Message:    in.Message,
	})
	if err != nil {
		return nil, err
	}

	tip := &models.Tip{
		ID:            tipID,
		PageID:        page.ID,
		FromDID:       in.FromDID,
		FromName:      in.FromName,
		Amount:        in.Amount,
		Currency:      currency,
		Message:       in.Message,
		PaymentMethod: rail.Name(),
		PaymentID:     initiation.Reference,
		Status:        models.TipStatusPending,
	}
	if err := s.tips.Create(tip); err != nil {
		return nil, fmt.Errorf("persist tip %s: %w", tipID, err)
	}

	return &CreateTipResult{Tip: tip, Initiation: initiation}, nil
}

func currencyForRail(rail, requested string) string {
	if rail == models.RailSolana {
		return models.CurrencySOL
	}
	if requested == "" {
		return models.CurrencyUSD
	}
	return strings.ToUpper(requested)
}

// ApplyPaymentEvent reconciles a verified, decoded provider event into
// the ledger. Unknown event types, missing tip ids, and rows that are
// already terminal are all logged and treated as successful no-ops so
// the provider does not retry deliveries this system cannot act on.
func (s *Service) ApplyPaymentEvent(ctx context.Context, event *payments.PaymentEvent) error {
	_ = ctx

	switch event.Kind {
	case payments.EventKindPaymentSucceeded:
		if event.TipID == "" {
			log.Printf("webhook: succeeded event %s has no tipId metadata, ignoring", event.EventID)
			return nil
		}
		updated, err := s.tips.MarkCompleted(event.TipID, event.PaymentIntentID)
		if err != nil {
			return fmt.Errorf("complete tip %s: %w", event.TipID, err)
		}
		if !updated {
			log.Printf("webhook: tip %s not pending (unknown or already terminal), ignoring succeeded event", event.TipID)
			return nil
		}
		log.Printf("Tip %s completed", event.TipID)
		return nil

	case payments.EventKindPaymentFailed:
		if event.TipID == "" {
			log.Printf("webhook: failed event %s has no tipId metadata, ignoring", event.EventID)
			return nil
		}
		updated, err := s.tips.MarkFailed(event.TipID)
		if err != nil {
			return fmt.Errorf("fail tip %s: %w", event.TipID, err)
		}
		if !updated {
			log.Printf("webhook: tip %s not pending (unknown or already terminal), ignoring failed event", event.TipID)
			return nil
		}
		log.Printf("Tip %s failed", event.TipID)
		return nil

	default:
		log.Printf("webhook: unhandled event type %s, acknowledging", event.Type)
		return nil
	}
}

// Totals is the per-currency aggregation entry for a page.
type Totals struct {
	Total int64 `json:"total"`
	Count int64 `json:"count"`
}

// ListResult is the owner's tip listing with aggregation.
type ListResult struct {
	Tips   []models.Tip      `json:"tips"`
	Totals map[string]Totals `json:"totals"`
	Limit  int               `json:"-"`
	Offset int               `json:"-"`
}

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// ListTips returns the tips received by a DID's page, newest first,
// with per-currency totals over all of the page's tips. The totals
// intentionally include pending and failed rows.
func (s *Service) ListTips(ctx context.Context, did, status string, limit, offset int) (*ListResult, error) {
	_ = ctx

	page, err := s.pages.GetByDID(did)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "No coffee page found for this DID")
		}
		return nil, err
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.tips.ListByPage(page.ID, status, offset, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.tips.TotalsByPage(page.ID)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]Totals, len(rows))
	for _, row := range rows {
		totals[row.Currency] = Totals{Total: row.Total, Count: row.Count}
	}

	return &ListResult{
		Tips:   list,
		Totals: totals,
		Limit:  limit,
		Offset: offset,
	}, nil
}
