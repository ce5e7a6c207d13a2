package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bozor/internal/models"
	"github.com/example/bozor/internal/utils"
)

// CatalogHandler manages reference data: regions, districts, categories and sellers.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListRegions returns every region.
func (h *CatalogHandler) ListRegions(c *fiber.Ctx) error {
	var regions []models.Region
	if err := h.db.WithContext(c.UserContext()).Order("name asc").Find(&regions).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": regions})
}

// ListDistricts returns districts, optionally filtered by region_id.
func (h *CatalogHandler) ListDistricts(c *fiber.Ctx) error {
	query := h.db.WithContext(c.UserContext()).Model(&models.District{})

	if v := c.Query("region_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid region_id")
		}
		query = query.Where("region_id = ?", id)
	}

	var districts []models.District
	if err := query.Order("name asc").Find(&districts).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": districts})
}

// ListCategories returns paginated categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	db := h.db.WithContext(c.UserContext())

	var total int64
	if err := db.Model(&models.Category{}).Count(&total).Error; err != nil {
		return err
	}

	var categories []models.Category
	if err := db.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       categories,
		"pagination": pg.Meta(total),
	})
}

// GetCategory returns a single category by ID.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var category models.Category
	if err := h.db.WithContext(c.UserContext()).First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory persists a new category.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	category := models.Category{Name: name}
	if err := h.db.WithContext(c.UserContext()).Create(&category).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": category})
}

// UpdateCategory renames an existing category.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	db := h.db.WithContext(c.UserContext())
	var category models.Category
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	if err := db.Model(&category).Update("name", name).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// DeleteCategory removes a category by ID.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	res := h.db.WithContext(c.UserContext()).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "category not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type sellerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	About string `json:"about"`
}

// CreateSeller registers a storefront owned by the current user.
func (h *CatalogHandler) CreateSeller(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req sellerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	seller := models.Seller{
		Name:    strings.TrimSpace(req.Name),
		Phone:   utils.NormalizePhone(req.Phone),
		About:   req.About,
		OwnerID: userID,
	}
	if err := h.db.WithContext(c.UserContext()).Create(&seller).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": seller})
}
