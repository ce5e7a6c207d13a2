package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/bozor/internal/metrics"
	"github.com/example/bozor/internal/models"
	"github.com/example/bozor/internal/notify"
	"github.com/example/bozor/internal/otp"
	"github.com/example/bozor/internal/utils"
)

const (
	generatedPasswordLength = 6

	registerCodeMin = 10000
	registerCodeMax = 999999
)

// TokenIssuer mints token pairs for a user and exchanges refresh tokens.
type TokenIssuer interface {
	IssuePair(userID uuid.UUID) (utils.TokenPair, error)
	Refresh(refreshToken string) (string, error)
}

// RegisterResult is the outcome of a successful registration.
type RegisterResult struct {
	User   *models.User
	Tokens utils.TokenPair
}

// RegistrationService runs the phone check and OTP-gated sign-up flow.
type RegistrationService struct {
	db       *gorm.DB
	codes    *otp.Registry
	notifier notify.Dispatcher
	tokens   TokenIssuer
	log      *zap.Logger
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(db *gorm.DB, codes *otp.Registry, notifier notify.Dispatcher, tokens TokenIssuer, log *zap.Logger) *RegistrationService {
	return &RegistrationService{
		db:       db,
		codes:    codes,
		notifier: notifier,
		tokens:   tokens,
		log:      log,
	}
}

// CheckPhoneExists reports whether phone is registered. For an unregistered phone it
// makes sure a registration code is live and sends it to the phone.
func (s *RegistrationService) CheckPhoneExists(ctx context.Context, phone string) (bool, error) {
	phone = utils.NormalizePhone(phone)
	if !utils.ValidPhone(phone) {
		return false, newError(ErrValidation, "Enter a valid phone number.")
	}

	exists, err := s.phoneTaken(ctx, phone)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}

	code, created, err := s.codes.Issue(ctx, phone)
	if err != nil {
		s.log.Warn("issue registration code failed", zap.String("phone", phone), zap.Error(err))
		return false, nil
	}
	if created {
		metrics.OTPIssued.Inc()
	}

	s.notifier.Dispatch(ctx, phone, fmt.Sprintf("Tasdiqlash kodi: %s", code))
	return false, nil
}

// Register creates the user for phone once code matches the live registration code.
func (s *RegistrationService) Register(ctx context.Context, phone string, code int) (*RegisterResult, error) {
	phone = utils.NormalizePhone(phone)
	if !utils.ValidPhone(phone) {
		return nil, newError(ErrValidation, "Enter a valid phone number.")
	}

	exists, err := s.phoneTaken(ctx, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newError(ErrDuplicate, "user with this phone already exists")
	}

	if code < registerCodeMin || code > registerCodeMax {
		return nil, newError(ErrValidation, "code must be between %d and %d", registerCodeMin, registerCodeMax)
	}

	ok, err := s.codes.Matches(ctx, phone, strconv.Itoa(code))
	if err != nil {
		return nil, fmt.Errorf("check registration code: %w", err)
	}
	if !ok {
		return nil, newError(ErrInvalidCredential, "Invalid code")
	}

	password, err := utils.RandomPassword(generatedPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Phone: phone, PasswordHash: hash}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			DoNothing: true,
		}).Create(&user)
		if res.Error != nil {
			return fmt.Errorf("create user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return newError(ErrDuplicate, "user with this phone already exists")
		}

		// The id is only known once the row exists.
		user.DisplayName = "user-" + user.ID.String()
		user.FirstName = user.DisplayName
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"display_name": user.DisplayName,
			"first_name":   user.FirstName,
		}).Error; err != nil {
			return fmt.Errorf("set display name: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Registrations.Inc()
	s.notifier.Dispatch(ctx, phone, fmt.Sprintf("Bu sizning parolingiz %s", password))

	tokens, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return &RegisterResult{User: &user, Tokens: tokens}, nil
}

func (s *RegistrationService) phoneTaken(ctx context.Context, phone string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check phone: %w", err)
	}
	return count > 0, nil
}
