package repository

import (
	"github.com/ima-jin/imajin-coffee/app/models"
	"gorm.io/gorm"
)

// PageRepository defines the interface for coffee page operations
type PageRepository interface {
	Create(page *models.CoffeePage) error
	GetByID(id string) (*models.CoffeePage, error)
	GetByHandle(handle string) (*models.CoffeePage, error)
	GetByDID(did string) (*models.CoffeePage, error)
	Update(page *models.CoffeePage) error
	Delete(id string) error
	HandleExists(handle string) (bool, error)
}

// TipRepository defines the interface for tip ledger operations.
// Terminal status writes are compare-and-set on the pending state so
// that webhook redelivery and out-of-order events degrade to no-ops.
type TipRepository interface {
	Create(tip *models.Tip) error
	GetByID(id string) (*models.Tip, error)
	ListByPage(pageID string, status string, offset, limit int) ([]models.Tip, error)
	// MarkCompleted sets status=completed and records the provider's
	// canonical payment reference. Returns false when the row was not
	// pending (unknown id or already terminal).
	MarkCompleted(id, paymentID string) (bool, error)
	// MarkFailed sets status=failed. Returns false when the row was not
	// pending.
	MarkFailed(id string) (bool, error)
	TotalsByPage(pageID string) ([]CurrencyTotal, error)
}

// CurrencyTotal is one aggregation row: sum and count of a page's tips
// in a single currency, across all statuses.
type CurrencyTotal struct {
	Currency string
	Total    int64
	Count    int64
}

// Repositories struct holds all repository instances
type Repositories struct {
	Page PageRepository
	Tip  TipRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Page: NewPageRepository(db),
		Tip:  NewTipRepository(db),
	}
}
