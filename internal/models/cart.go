package models

import "github.com/google/uuid"

// Cart is created lazily, one per user.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// CartItem is unique per (cart, product).
type CartItem struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_items_cart_product" json:"cart_id"`
	Cart      *Cart     `json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_items_cart_product" json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
}
