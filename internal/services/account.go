package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bozor/internal/models"
	"github.com/example/bozor/internal/utils"
)

// ProfileFields holds the editable profile columns. Nil fields are left untouched.
type ProfileFields struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	BirthDate *string `json:"birth_date"`
}

// AccountService handles login, token refresh and the signed-in user's profile.
type AccountService struct {
	db     *gorm.DB
	tokens TokenIssuer
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *gorm.DB, tokens TokenIssuer) *AccountService {
	return &AccountService{db: db, tokens: tokens}
}

// Login exchanges a phone and password for a token pair.
func (s *AccountService) Login(ctx context.Context, phone, password string) (*models.User, utils.TokenPair, error) {
	phone = utils.NormalizePhone(phone)
	if phone == "" || password == "" {
		return nil, utils.TokenPair{}, newError(ErrValidation, "phone and password are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.TokenPair{}, newError(ErrInvalidCredential, "No active account found with the given credentials")
		}
		return nil, utils.TokenPair{}, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, utils.TokenPair{}, newError(ErrInvalidCredential, "No active account found with the given credentials")
	}

	tokens, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, utils.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return &user, tokens, nil
}

// RefreshAccess returns a new access token for a valid refresh token.
func (s *AccountService) RefreshAccess(refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", newError(ErrValidation, "refresh is required")
	}
	access, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return "", newError(ErrInvalidCredential, "Token is invalid or expired")
	}
	return access, nil
}

// Profile loads the user.
func (s *AccountService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, newError(ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields. An empty birth_date clears it.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, fields ProfileFields) (*models.User, error) {
	updates := map[string]interface{}{}
	if fields.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*fields.FirstName)
	}
	if fields.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*fields.LastName)
	}
	if fields.Email != nil {
		email := strings.TrimSpace(*fields.Email)
		if email != "" {
			addr, err := mail.ParseAddress(email)
			if err != nil || addr.Address != email {
				return nil, newError(ErrValidation, "Enter a valid email address.")
			}
		}
		updates["email"] = email
	}
	if fields.BirthDate != nil {
		if *fields.BirthDate == "" {
			updates["birth_date"] = nil
		} else {
			birthDate, err := time.Parse(models.DateLayout, *fields.BirthDate)
			if err != nil {
				return nil, newError(ErrValidation, "birth_date must be in YYYY-MM-DD format")
			}
			updates["birth_date"] = birthDate
		}
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.Profile(ctx, userID)
}

// ChangePassword replaces the user's password. Outstanding tokens stay valid.
func (s *AccountService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirmPassword string) error {
	required := []struct{ name, value string }{
		{"old_password", oldPassword},
		{"password", newPassword},
		{"confirm_password", confirmPassword},
	}
	for _, field := range required {
		if field.value == "" {
			return newError(ErrValidation, "%s field is required", field.name)
		}
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.PasswordHash, oldPassword) {
		return newError(ErrInvalidCredential, "Old password is not correct")
	}
	if newPassword != confirmPassword {
		return newError(ErrMismatch, "Passwords do not match")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
