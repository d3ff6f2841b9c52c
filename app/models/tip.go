package models

import "time"

// Tip status lifecycle. Transitions are monotonic: pending rows move to
// exactly one terminal state and never change again.
const (
	TipStatusPending   = "pending"
	TipStatusCompleted = "completed"
	TipStatusFailed    = "failed"
)

// PaymentRefPending is the sentinel payment reference for rails that
// assign the real provider reference only after settlement (Solana).
const PaymentRefPending = "pending"

// Currencies implied by the rail: cents for Stripe, lamports for Solana.
const (
	CurrencyUSD = "USD"
	CurrencySOL = "SOL"
)

// Tip is one payment attempt against a page. Rows are created pending
// at request time and only ever mutated by webhook reconciliation.
// Rows are never deleted; they survive their page (accounting history
// is preserved over referential cleanliness).
type Tip struct {
	ID            string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	PageID        string    `gorm:"type:varchar(64);not null;index:idx_tips_page" json:"pageId"`
	FromDID       string    `gorm:"column:from_did;type:varchar(255)" json:"fromDid,omitempty"`
	FromName      string    `gorm:"type:varchar(255)" json:"fromName,omitempty"`
	Amount        int64     `gorm:"not null" json:"amount"`
	Currency      string    `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	Message       string    `gorm:"type:text" json:"message,omitempty"`
	PaymentMethod string    `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	PaymentID     string    `gorm:"type:varchar(255);not null" json:"paymentId"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending';index:idx_tips_status" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index:idx_tips_created" json:"createdAt"`
}

func (Tip) TableName() string {
	return "tips"
}

// IsTerminal reports whether the tip has reached a final status.
func (t *Tip) IsTerminal() bool {
	return t.Status == TipStatusCompleted || t.Status == TipStatusFailed
}
