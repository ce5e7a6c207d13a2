package models

import "github.com/google/uuid"

// Address is a shipping address. At most one per user has IsStandard set.
type Address struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	RegionID   *uuid.UUID `gorm:"type:uuid" json:"region_id"`
	DistrictID *uuid.UUID `gorm:"type:uuid" json:"district_id"`
	Street     string     `json:"street"`
	Home       string     `json:"home"`
	Apartment  string     `json:"apartment"`
	Landmark   string     `json:"landmark"`
	IsStandard bool       `gorm:"not null;default:false" json:"is_standard"`
}
