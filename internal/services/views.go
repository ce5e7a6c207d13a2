package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bozor/internal/models"
)

// ProductSummary is the product data denormalized into cart and favorite listings.
type ProductSummary struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Price         int64     `json:"price"`
	Discount      int       `json:"discount"`
	DiscountPrice int64     `json:"discount_price"`
	FirstImage    string    `json:"first_image"`
	SellerName    string    `json:"seller_name"`
}

func summarize(p *models.Product) ProductSummary {
	if p == nil {
		return ProductSummary{}
	}
	return ProductSummary{
		ProductID:     p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Price:         p.Price,
		Discount:      p.Discount,
		DiscountPrice: p.DiscountPrice(),
		FirstImage:    p.FirstImage(),
		SellerName:    p.SellerName(),
	}
}

// CartItemView is a cart line as shown to its owner.
type CartItemView struct {
	ID       uuid.UUID `json:"id"`
	Quantity int       `json:"quantity"`
	ProductSummary
	IsFavorite bool `json:"is_favorite"`
}

// FavoriteView is a favorite with the quantity currently in the owner's cart.
type FavoriteView struct {
	ID uuid.UUID `json:"id"`
	ProductSummary
	Quantity int `json:"quantity"`
}

// withProduct preloads the product fields used by ProductSummary.
func withProduct(db *gorm.DB) *gorm.DB {
	return db.Preload("Product.Seller").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

// userCartIDs is a subquery selecting the id of the user's cart.
func userCartIDs(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)
}

func ensureProduct(tx *gorm.DB, productID uuid.UUID) error {
	var product models.Product
	err := tx.Select("id").First(&product, "id = ?", productID).Error
	if err == gorm.ErrRecordNotFound {
		return newError(ErrNotFound, "product not found")
	}
	return err
}
