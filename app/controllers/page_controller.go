package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ima-jin/imajin-coffee/app/models"
	"github.com/ima-jin/imajin-coffee/app/repository"
	"github.com/ima-jin/imajin-coffee/internal/pkg/cache"
	"github.com/ima-jin/imajin-coffee/internal/pkg/middleware"
)

const pageCacheTTL = 30 * time.Second

// PageController serves the page directory HTTP surface.
type PageController struct {
	pages repository.PageRepository
}

// NewPageController creates a page controller over an injected
// repository.
func NewPageController(pages repository.PageRepository) *PageController {
	return &PageController{pages: pages}
}

type createPageRequest struct {
	Handle            string                `json:"handle"`
	Title             string                `json:"title"`
	Bio               string                `json:"bio"`
	Avatar            string                `json:"avatar"`
	Theme             *models.Theme         `json:"theme"`
	PaymentMethods    models.PaymentMethods `json:"paymentMethods"`
	Presets           models.Presets        `json:"presets"`
	AllowCustomAmount *bool                 `json:"allowCustomAmount"`
	AllowMessages     *bool                 `json:"allowMessages"`
}

// HandleCreatePage creates the caller's tip page. One page per DID.
func (ctrl *PageController) HandleCreatePage(c *fiber.Ctx) error {
	ident := middleware.IdentityFrom(c)
	if ident == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
	}

	var req createPageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Handle == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "handle is required"})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	if !models.IsValidHandle(req.Handle) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Handle must be 3-30 characters, lowercase alphanumeric and underscores only"})
	}
	if !req.PaymentMethods.HasEnabledRail() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "At least one payment method (stripe or solana) is required"})
	}

	if _, err := ctrl.pages.GetByDID(ident.ID); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You already have a coffee page"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, err)
	}

	taken, err := ctrl.pages.HandleExists(req.Handle)
	if err != nil {
		return respondError(c, err)
	}
	if taken {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Handle is already taken"})
	}

	page := &models.CoffeePage{
		ID:                models.GenerateID("page"),
		DID:               ident.ID,
		Handle:            req.Handle,
		Title:             req.Title,
		Bio:               req.Bio,
		Avatar:            req.Avatar,
		Presets:           req.Presets,
		AllowCustomAmount: req.AllowCustomAmount == nil || *req.AllowCustomAmount,
		AllowMessages:     req.AllowMessages == nil || *req.AllowMessages,
		IsPublic:          true,
	}
	if req.Theme != nil {
		page.Theme = *req.Theme
	}
	page.PaymentMethods = req.PaymentMethods
	if len(page.Presets) == 0 {
		page.Presets = models.DefaultPresets()
	}

	if err := page.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.pages.Create(page); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(page)
}

// HandleGetPage returns a page by handle. Private pages are visible to
// their owner only; everyone else gets a 403 distinct from 404.
func (ctrl *PageController) HandleGetPage(c *fiber.Ctx) error {
	handle := c.Params("handle")

	if cached, err := cache.Get(pageCacheKey(handle)); err == nil {
		var page models.CoffeePage
		if json.Unmarshal([]byte(cached), &page) == nil {
			return c.JSON(page)
		}
	}

	page, err := ctrl.pages.GetByHandle(handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coffee page not found"})
		}
		return respondError(c, err)
	}

	if !page.IsPublic {
		ident := middleware.IdentityFrom(c)
		if ident == nil || ident.ID != page.DID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This page is private"})
		}
		return c.JSON(page)
	}

	if encoded, err := json.Marshal(page); err == nil {
		if err := cache.Set(pageCacheKey(handle), encoded, pageCacheTTL); err != nil {
			log.Printf("page cache set failed for %s: %v", handle, err)
		}
	}
	return c.JSON(page)
}

type updatePageRequest struct {
	Title             *string                `json:"title"`
	Bio               *string                `json:"bio"`
	Avatar            *string                `json:"avatar"`
	Theme             *models.Theme          `json:"theme"`
	PaymentMethods    *models.PaymentMethods `json:"paymentMethods"`
	Presets           *models.Presets        `json:"presets"`
	AllowCustomAmount *bool                  `json:"allowCustomAmount"`
	AllowMessages     *bool                  `json:"allowMessages"`
	IsPublic          *bool                  `json:"isPublic"`
}

// HandleUpdatePage patches a page. Owner only.
func (ctrl *PageController) HandleUpdatePage(c *fiber.Ctx) error {
	handle := c.Params("handle")
	ident := middleware.IdentityFrom(c)

	page, err := ctrl.pages.GetByHandle(handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coffee page not found"})
		}
		return respondError(c, err)
	}

	if ident == nil || ident.ID != page.DID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to update this page"})
	}

	var req updatePageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Bio != nil {
		page.Bio = *req.Bio
	}
	if req.Avatar != nil {
		page.Avatar = *req.Avatar
	}
	if req.Theme != nil {
		page.Theme = *req.Theme
	}
	if req.PaymentMethods != nil {
		page.PaymentMethods = *req.PaymentMethods
	}
	if req.Presets != nil {
		page.Presets = *req.Presets
	}
	if req.AllowCustomAmount != nil {
		page.AllowCustomAmount = *req.AllowCustomAmount
	}
	if req.AllowMessages != nil {
		page.AllowMessages = *req.AllowMessages
	}
	if req.IsPublic != nil {
		page.IsPublic = *req.IsPublic
	}

	if err := page.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.pages.Update(page); err != nil {
		return respondError(c, err)
	}

	if err := cache.Delete(pageCacheKey(handle)); err != nil {
		log.Printf("page cache invalidation failed for %s: %v", handle, err)
	}
	return c.JSON(page)
}

// HandleDeletePage deletes a page. Owner only. Existing tips keep
// referencing the deleted page id.
func (ctrl *PageController) HandleDeletePage(c *fiber.Ctx) error {
	handle := c.Params("handle")
	ident := middleware.IdentityFrom(c)

	page, err := ctrl.pages.GetByHandle(handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coffee page not found"})
		}
		return respondError(c, err)
	}

	if ident == nil || ident.ID != page.DID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to delete this page"})
	}

	if err := ctrl.pages.Delete(page.ID); err != nil {
		return respondError(c, err)
	}

	if err := cache.Delete(pageCacheKey(handle)); err != nil {
		log.Printf("page cache invalidation failed for %s: %v", handle, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func pageCacheKey(handle string) string {
	return "page:handle:" + handle
}
