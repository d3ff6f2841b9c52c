package repository

import (
	"github.com/ima-jin/imajin-coffee/app/models"
	"gorm.io/gorm"
)

// pageRepository implements the PageRepository interface
type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository creates a new page repository instance
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

// Create creates a new coffee page in the database
func (r *pageRepository) Create(page *models.CoffeePage) error {
	return r.db.Create(page).Error
}

// GetByID retrieves a page by its ID
func (r *pageRepository) GetByID(id string) (*models.CoffeePage, error) {
	var page models.CoffeePage
	err := r.db.Where("id = ?", id).First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetByHandle retrieves a page by its handle regardless of visibility;
// callers decide whether private pages may be shown.
func (r *pageRepository) GetByHandle(handle string) (*models.CoffeePage, error) {
	var page models.CoffeePage
	err := r.db.Where("handle = ?", handle).First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetByDID retrieves the page owned by a DID (at most one exists)
func (r *pageRepository) GetByDID(did string) (*models.CoffeePage, error) {
	var page models.CoffeePage
	err := r.db.Where("did = ?", did).First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Update updates an existing page in the database
func (r *pageRepository) Update(page *models.CoffeePage) error {
	return r.db.Save(page).Error
}

// Delete removes a page. Tips referencing it are intentionally kept.
func (r *pageRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.CoffeePage{}).Error
}

// HandleExists checks if a handle is already taken
func (r *pageRepository) HandleExists(handle string) (bool, error) {
	var count int64
	err := r.db.Model(&models.CoffeePage{}).Where("handle = ?", handle).Count(&count).Error
	return count > 0, err
}
