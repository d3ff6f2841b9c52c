package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Known payment rails. PaymentMethods is a closed union over exactly
// these two; anything else in stored JSON is rejected at the boundary.
const (
	RailStripe = "stripe"
	RailSolana = "solana"
)

var handlePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// IsValidHandle reports whether handle is a valid page slug
// (3-30 chars, lowercase alphanumeric and underscores).
func IsValidHandle(handle string) bool {
	return handlePattern.MatchString(handle)
}

// GenerateID returns a prefixed opaque identifier, e.g. "page_3f2c…".
func GenerateID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// StripeMethod is the card rail configuration for a page. AccountID is
// an optional connected account that receives the funds directly.
type StripeMethod struct {
	Enabled   bool   `json:"enabled"`
	AccountID string `json:"accountId,omitempty"`
}

// SolanaMethod is the on-chain rail configuration for a page. Address
// is the receiving wallet shown to tippers.
type SolanaMethod struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address,omitempty"`
}

// PaymentMethods is the per-page rail configuration, stored as a JSON
// column. Only the known rails exist as fields.
type PaymentMethods struct {
	Stripe *StripeMethod `json:"stripe,omitempty"`
	Solana *SolanaMethod `json:"solana,omitempty"`
}

// HasEnabledRail reports whether at least one rail is enabled.
func (m PaymentMethods) HasEnabledRail() bool {
	return m.RailEnabled(RailStripe) || m.RailEnabled(RailSolana)
}

// RailEnabled reports whether the named rail is configured and enabled.
func (m PaymentMethods) RailEnabled(rail string) bool {
	switch rail {
	case RailStripe:
		return m.Stripe != nil && m.Stripe.Enabled
	case RailSolana:
		return m.Solana != nil && m.Solana.Enabled
	}
	return false
}

func (m PaymentMethods) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *PaymentMethods) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// Theme holds the page display colors, stored as a JSON column.
type Theme struct {
	PrimaryColor    string `json:"primaryColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

func (t Theme) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *Theme) Scan(value interface{}) error {
	return scanJSON(value, t)
}

// Presets is an ordered list of suggested tip amounts in minor units.
type Presets []int64

// DefaultPresets are the suggested amounts for new pages: $1, $5, $10.
func DefaultPresets() Presets {
	return Presets{100, 500, 1000}
}

func (p Presets) Value() (driver.Value, error) {
	if p == nil {
		p = Presets{}
	}
	return json.Marshal(p)
}

func (p *Presets) Scan(value interface{}) error {
	return scanJSON(value, p)
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T for JSON scan", value)
	}
}

// CoffeePage is a tip-collection page owned by a single DID.
type CoffeePage struct {
	ID                string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	DID               string         `gorm:"column:did;type:varchar(255);uniqueIndex;not null" json:"did"`
	Handle            string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"handle" validate:"required"`
	Title             string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=1,max=255"`
	Bio               string         `gorm:"type:text" json:"bio,omitempty"`
	Avatar            string         `gorm:"type:varchar(500)" json:"avatar,omitempty"`
	Theme             Theme          `gorm:"type:json" json:"theme"`
	PaymentMethods    PaymentMethods `gorm:"type:json;not null" json:"paymentMethods"`
	Presets           Presets        `gorm:"type:json" json:"presets"`
	AllowCustomAmount bool           `gorm:"default:true" json:"allowCustomAmount"`
	AllowMessages     bool           `gorm:"default:true" json:"allowMessages"`
	IsPublic          bool           `gorm:"default:true" json:"isPublic"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CoffeePage) TableName() string {
	return "coffee_pages"
}

// Validate checks structural constraints before persisting.
func (p *CoffeePage) Validate() error {
	if !IsValidHandle(p.Handle) {
		return errors.New("handle must be 3-30 characters, lowercase alphanumeric and underscores only")
	}
	if !p.PaymentMethods.HasEnabledRail() {
		return errors.New("at least one payment method must be enabled")
	}
	v := validator.New()
	return v.Struct(p)
}
