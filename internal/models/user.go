package models

import (
	"time"
)

// User represents a customer identified by phone number.
type User struct {
	BaseModel
	Phone        string     `gorm:"size:15;uniqueIndex" json:"phone"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	DisplayName  string     `json:"display_name"`
	Email        string     `json:"email"`
	BirthDate    *time.Time `gorm:"type:date" json:"birth_date"`
	PasswordHash string     `json:"-"`
	Addresses    []Address  `json:"addresses,omitempty"`
}

// PublicUser is the projection of a user returned to API clients.
type PublicUser struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DisplayName string  `json:"display_name"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	BirthDate   *string `json:"birth_date"`
}

// Public returns the restricted client-facing view of the user.
func (u *User) Public() PublicUser {
	pub := PublicUser{
		ID:          u.ID.String(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		Email:       u.Email,
	}
	if u.BirthDate != nil {
		s := u.BirthDate.Format(DateLayout)
		pub.BirthDate = &s
	}
	return pub
}
