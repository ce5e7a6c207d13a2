package models

import "github.com/google/uuid"

// Product is a catalog entry. Price is in so'm; Discount is a whole percent.
type Product struct {
	BaseModel
	Name        string         `json:"name"`
	Slug        string         `gorm:"uniqueIndex" json:"slug"`
	Description string         `json:"description"`
	Price       int64          `json:"price"`
	Discount    int            `json:"discount"`
	Quantity    int            `json:"quantity"`
	CategoryID  *uuid.UUID     `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category      `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	SellerID    *uuid.UUID     `gorm:"type:uuid;index" json:"seller_id"`
	Seller      *Seller        `gorm:"constraint:OnDelete:SET NULL" json:"seller,omitempty"`
	Images      []ProductImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`
}

// DiscountPrice returns the price after the percentage discount, floored.
func (p *Product) DiscountPrice() int64 {
	return p.Price - p.Price*int64(p.Discount)/100
}

// FirstImage returns the first loaded image path, or an empty string.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Image
}

// SellerName returns the loaded seller's name, or an empty string.
func (p *Product) SellerName() string {
	if p.Seller == nil {
		return ""
	}
	return p.Seller.Name
}

type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Image     string    `json:"image"`
}
