package models

import "github.com/google/uuid"

type Region struct {
	BaseModel
	Name      string     `json:"name"`
	Districts []District `gorm:"constraint:OnDelete:CASCADE" json:"districts,omitempty"`
}

type District struct {
	BaseModel
	Name     string    `json:"name"`
	RegionID uuid.UUID `gorm:"type:uuid;index" json:"region_id"`
}

type Category struct {
	BaseModel
	Name string `json:"name"`
}

// Seller is a storefront owned by a user.
type Seller struct {
	BaseModel
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	About   string    `json:"about"`
	OwnerID uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
}
