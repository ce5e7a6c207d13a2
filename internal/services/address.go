package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/bozor/internal/models"
)

// AddressFields holds writable address columns. Nil fields are left untouched on update.
type AddressFields struct {
	Name       *string    `json:"name"`
	Phone      *string    `json:"phone"`
	RegionID   *uuid.UUID `json:"region_id"`
	DistrictID *uuid.UUID `json:"district_id"`
	Street     *string    `json:"street"`
	Home       *string    `json:"home"`
	Apartment  *string    `json:"apartment"`
	Landmark   *string    `json:"landmark"`
	IsStandard *bool      `json:"is_standard"`
}

func (f AddressFields) updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if f.Name != nil {
		updates["name"] = *f.Name
	}
	if f.Phone != nil {
		updates["phone"] = *f.Phone
	}
	if f.RegionID != nil {
		updates["region_id"] = *f.RegionID
	}
	if f.DistrictID != nil {
		updates["district_id"] = *f.DistrictID
	}
	if f.Street != nil {
		updates["street"] = *f.Street
	}
	if f.Home != nil {
		updates["home"] = *f.Home
	}
	if f.Apartment != nil {
		updates["apartment"] = *f.Apartment
	}
	if f.Landmark != nil {
		updates["landmark"] = *f.Landmark
	}
	if f.IsStandard != nil {
		updates["is_standard"] = *f.IsStandard
	}
	return updates
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// AddressService owns the user's address book. At most one address per user is standard.
type AddressService struct {
	db *gorm.DB
}

// NewAddressService constructs an AddressService.
func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// ListAddresses returns the user's addresses, oldest first.
func (s *AddressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at ASC").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// CreateAddress adds an address. A standard address demotes every other one of the user.
func (s *AddressService) CreateAddress(ctx context.Context, userID uuid.UUID, fields AddressFields) (*models.Address, error) {
	if strings.TrimSpace(deref(fields.Street)) == "" {
		return nil, newError(ErrValidation, "street is required")
	}

	address := models.Address{
		UserID:     userID,
		Name:       deref(fields.Name),
		Phone:      deref(fields.Phone),
		RegionID:   fields.RegionID,
		DistrictID: fields.DistrictID,
		Street:     deref(fields.Street),
		Home:       deref(fields.Home),
		Apartment:  deref(fields.Apartment),
		Landmark:   deref(fields.Landmark),
		IsStandard: fields.IsStandard != nil && *fields.IsStandard,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}
		if address.IsStandard {
			if err := clearStandard(tx, userID, uuid.Nil); err != nil {
				return err
			}
		}
		if err := tx.Create(&address).Error; err != nil {
			return fmt.Errorf("create address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// UpdateAddress applies fields to one of the user's addresses. Setting is_standard
// demotes the user's other addresses.
func (s *AddressService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, fields AddressFields) (*models.Address, error) {
	updates := fields.updates()
	if len(updates) == 0 {
		return nil, newError(ErrValidation, "no fields to update")
	}
	if street, ok := updates["street"]; ok && strings.TrimSpace(street.(string)) == "" {
		return nil, newError(ErrValidation, "street is required")
	}

	var address models.Address
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		if err := tx.First(&address, "id = ? AND user_id = ?", addressID, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return newError(ErrNotFound, "address not found")
			}
			return err
		}

		if fields.IsStandard != nil && *fields.IsStandard {
			if err := clearStandard(tx, userID, address.ID); err != nil {
				return err
			}
		}

		if err := tx.Model(&address).Updates(updates).Error; err != nil {
			return fmt.Errorf("update address: %w", err)
		}
		return tx.First(&address, "id = ?", address.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// DeleteAddress removes one of the user's addresses.
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&models.Address{})
	if res.Error != nil {
		return fmt.Errorf("delete address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return newError(ErrNotFound, "address not found")
	}
	return nil
}

// lockUser serializes address writes of one user on the user row.
func lockUser(tx *gorm.DB, userID uuid.UUID) error {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").First(&user, "id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return newError(ErrNotFound, "user not found")
	}
	return err
}

// clearStandard unsets is_standard on the user's addresses other than except.
func clearStandard(tx *gorm.DB, userID, except uuid.UUID) error {
	query := tx.Model(&models.Address{}).Where("user_id = ? AND is_standard = ?", userID, true)
	if except != uuid.Nil {
		query = query.Where("id <> ?", except)
	}
	if err := query.Update("is_standard", false).Error; err != nil {
		return fmt.Errorf("clear standard address: %w", err)
	}
	return nil
}
