package repository

import (
	"github.com/ima-jin/imajin-coffee/app/models"
	"gorm.io/gorm"
)

// tipRepository implements the TipRepository interface
type tipRepository struct {
	db *gorm.DB
}

// NewTipRepository creates a new tip repository instance
func NewTipRepository(db *gorm.DB) TipRepository {
	return &tipRepository{db: db}
}

// Create persists a new tip row
func (r *tipRepository) Create(tip *models.Tip) error {
	return r.db.Create(tip).Error
}

// GetByID retrieves a tip by its ID
func (r *tipRepository) GetByID(id string) (*models.Tip, error) {
	var tip models.Tip
	err := r.db.Where("id = ?", id).First(&tip).Error
	if err != nil {
		return nil, err
	}
	return &tip, nil
}

// ListByPage retrieves a page's tips newest first, optionally filtered
// by status
func (r *tipRepository) ListByPage(pageID string, status string, offset, limit int) ([]models.Tip, error) {
	var tips []models.Tip
	q := r.db.Where("page_id = ?", pageID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tips).Error
	return tips, err
}

// MarkCompleted transitions a pending tip to completed and stores the
// provider's canonical payment reference. The guard on the current
// status makes redelivered or out-of-order events zero-row no-ops.
func (r *tipRepository) MarkCompleted(id, paymentID string) (bool, error) {
	tx := r.db.Model(&models.Tip{}).
		Where("id = ? AND status = ?", id, models.TipStatusPending).
		Updates(map[string]interface{}{
			"status":     models.TipStatusCompleted,
			"payment_id": paymentID,
		})
	return tx.RowsAffected > 0, tx.Error
}

// MarkFailed transitions a pending tip to failed.
func (r *tipRepository) MarkFailed(id string) (bool, error) {
	tx := r.db.Model(&models.Tip{}).
		Where("id = ? AND status = ?", id, models.TipStatusPending).
		Update("status", models.TipStatusFailed)
	return tx.RowsAffected > 0, tx.Error
}

// TotalsByPage sums amount and counts rows grouped by currency over all
// of a page's tips. All statuses are included, matching the externally
// observed totals; restricting to completed is an open product call.
func (r *tipRepository) TotalsByPage(pageID string) ([]CurrencyTotal, error) {
	var totals []CurrencyTotal
	err := r.db.Model(&models.Tip{}).
		Select("currency, SUM(amount) AS total, COUNT(*) AS count").
		Where("page_id = ?", pageID).
		Group("currency").
		Scan(&totals).Error
	return totals, err
}
