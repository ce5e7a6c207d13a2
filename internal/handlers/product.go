package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bozor/internal/models"
	"github.com/example/bozor/internal/utils"
)

// ProductHandler manages product listing, creation and images.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

type productResponse struct {
	models.Product
	DiscountPrice int64  `json:"discount_price"`
	FirstImage    string `json:"first_image"`
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{Product: p, DiscountPrice: p.DiscountPrice(), FirstImage: p.FirstImage()}
}

func withImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

// ListProducts returns paginated products filtered by category_id and search.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.WithContext(c.UserContext()).Model(&models.Product{})

	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
		}
		query = query.Where("category_id = ?", id)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Scopes(withImages).Preload("Category").Preload("Seller").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	data := make([]productResponse, 0, len(products))
	for _, p := range products {
		data = append(data, newProductResponse(p))
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": pg.Meta(total),
	})
}

// GetProduct loads a product with its images.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var product models.Product
	if err := h.db.WithContext(c.UserContext()).Scopes(withImages).
		Preload("Category").Preload("Seller").
		First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": newProductResponse(product)})
}

type productRequest struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Price       int64      `json:"price"`
	Discount    int        `json:"discount"`
	Quantity    int        `json:"quantity"`
	CategoryID  *uuid.UUID `json:"category_id"`
	SellerID    *uuid.UUID `json:"seller_id"`
}

// CreateProduct validates and stores a product.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if req.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
	}
	if req.Discount < 0 || req.Discount > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "discount must be between 0 and 100")
	}
	if req.Quantity < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must not be negative")
	}

	db := h.db.WithContext(c.UserContext())

	if req.CategoryID != nil {
		if err := exists(db, &models.Category{}, *req.CategoryID); err != nil {
			return err
		}
	}
	if req.SellerID != nil {
		if err := exists(db, &models.Seller{}, *req.SellerID); err != nil {
			return err
		}
	}

	slug := utils.Slugify(req.Slug)
	if slug == "" {
		slug = utils.Slugify(name) + "-" + uuid.NewString()[:8]
	}

	var taken int64
	if err := db.Model(&models.Product{}).Where("slug = ?", slug).Count(&taken).Error; err != nil {
		return err
	}
	if taken > 0 {
		return fiber.NewError(fiber.StatusConflict, "product with this slug already exists")
	}

	product := models.Product{
		Name:        name,
		Slug:        slug,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		SellerID:    req.SellerID,
	}
	if err := db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": newProductResponse(product)})
}

type productImageRequest struct {
	ProductID uuid.UUID `json:"product"`
	Image     string    `json:"image"`
}

// CreateProductImage attaches an image path to a product.
func (h *ProductHandler) CreateProductImage(c *fiber.Ctx) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	var req productImageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == uuid.Nil || strings.TrimSpace(req.Image) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product and image are required")
	}

	db := h.db.WithContext(c.UserContext())
	if err := exists(db, &models.Product{}, req.ProductID); err != nil {
		return err
	}

	image := models.ProductImage{ProductID: req.ProductID, Image: strings.TrimSpace(req.Image)}
	if err := db.Create(&image).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": image})
}

// exists reports a 400 when no row of model has id.
func exists(db *gorm.DB, model interface{}, id uuid.UUID) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "referenced object does not exist")
	}
	return nil
}
