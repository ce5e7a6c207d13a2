package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/bozor/internal/models"
	"github.com/example/bozor/internal/otp"
	"github.com/example/bozor/internal/utils"
)

const testPhone = "998901234567"

type registrationFixture struct {
	svc      *RegistrationService
	registry *otp.Registry
	sent     *recordingDispatcher
	tokens   *utils.TokenIssuer
}

func newRegistrationFixture(t *testing.T) (*registrationFixture, func(time.Duration)) {
	t.Helper()

	db := newTestDB(t)
	registry, mr := newTestRegistry(t)
	sent := &recordingDispatcher{}
	tokens := utils.NewTokenIssuer("test-secret", time.Minute, time.Hour)

	fx := &registrationFixture{
		svc:      NewRegistrationService(db, registry, sent, tokens, zap.NewNop()),
		registry: registry,
		sent:     sent,
		tokens:   tokens,
	}
	return fx, mr.FastForward
}

func liveCode(t *testing.T, fx *registrationFixture) int {
	t.Helper()

	msgs := fx.sent.messages()
	require.NotEmpty(t, msgs)
	code, err := strconv.Atoi(strings.TrimPrefix(msgs[len(msgs)-1].Message, "Tasdiqlash kodi: "))
	require.NoError(t, err)
	return code
}

func TestCheckPhoneSendsCodeForNewPhone(t *testing.T) {
	fx, _ := newRegistrationFixture(t)

	exists, err := fx.svc.CheckPhoneExists(context.Background(), "+"+testPhone)
	require.NoError(t, err)
	assert.False(t, exists)

	msgs := fx.sent.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, testPhone, msgs[0].Phone)

	code := liveCode(t, fx)
	assert.GreaterOrEqual(t, code, 100000)
	assert.LessOrEqual(t, code, 999999)
}

func TestCheckPhoneKeepsFirstCode(t *testing.T) {
	fx, fastForward := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CheckPhoneExists(ctx, testPhone)
	require.NoError(t, err)
	first := liveCode(t, fx)

	fastForward(30 * time.Second)
	_, err = fx.svc.CheckPhoneExists(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, first, liveCode(t, fx))

	// The second check did not extend the window.
	fastForward(31 * time.Second)
	ok, err := fx.registry.Matches(ctx, testPhone, strconv.Itoa(first))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPhoneRegisteredUser(t *testing.T) {
	fx, _ := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CheckPhoneExists(ctx, testPhone)
	require.NoError(t, err)
	_, err = fx.svc.Register(ctx, testPhone, liveCode(t, fx))
	require.NoError(t, err)
	before := len(fx.sent.messages())

	exists, err := fx.svc.CheckPhoneExists(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Len(t, fx.sent.messages(), before)
}

func TestCheckPhoneRejectsMalformedPhone(t *testing.T) {
	fx, _ := newRegistrationFixture(t)

	_, err := fx.svc.CheckPhoneExists(context.Background(), "12345")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, fx.sent.messages())
}

func TestRegisterCreatesUser(t *testing.T) {
	fx, _ := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CheckPhoneExists(ctx, testPhone)
	require.NoError(t, err)

	res, err := fx.svc.Register(ctx, testPhone, liveCode(t, fx))
	require.NoError(t, err)

	assert.Equal(t, testPhone, res.User.Phone)
	assert.Equal(t, "user-"+res.User.ID.String(), res.User.DisplayName)
	assert.Equal(t, res.User.DisplayName, res.User.FirstName)
	assert.NotEmpty(t, res.Tokens.Access)
	assert.NotEmpty(t, res.Tokens.Refresh)

	userID, err := fx.tokens.ParseAccess(res.Tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	msgs := fx.sent.messages()
	require.Len(t, msgs, 2)
	password := strings.TrimPrefix(msgs[1].Message, "Bu sizning parolingiz ")
	assert.Len(t, password, 6)
	assert.True(t, utils.CheckPassword(res.User.PasswordHash, password))

	var stored models.User
	require.NoError(t, fx.svc.db.First(&stored, "phone = ?", testPhone).Error)
	assert.Equal(t, res.User.DisplayName, stored.DisplayName)
	assert.Equal(t, "user-"+stored.ID.String(), stored.FirstName)
	assert.NotEqual(t, password, stored.PasswordHash)
}

func TestRegisterWrongCode(t *testing.T) {
	fx, _ := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CheckPhoneExists(ctx, testPhone)
	require.NoError(t, err)
	code := liveCode(t, fx)

	wrong := code + 1
	if wrong > 999999 {
		wrong = 100000
	}
	_, err = fx.svc.Register(ctx, testPhone, wrong)
	assert.True(t, errors.Is(err, ErrInvalidCredential))

	var count int64
	require.NoError(t, fx.svc.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterExpiredCode(t *testing.T) {
	fx, fastForward := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CheckPhoneExists(ctx, testPhone)
	require.NoError(t, err)
	code := liveCode(t, fx)

	fastForward(61 * time.Second)
	_, err = fx.svc.Register(ctx, testPhone, code)
	assert.True(t, errors.Is(err, ErrInvalidCredential))
}

func TestRegisterWithoutCheck(t *testing.T) {
	fx, _ := newRegistrationFixture(t)

	_, err := fx.svc.Register(context.Background(), testPhone, 123456)
	assert.True(t, errors.Is(err, ErrInvalidCredential))
}

func TestRegisterCodeOutOfRange(t *testing.T) {
	fx, _ := newRegistrationFixture(t)

	_, err := fx.svc.Register(context.Background(), testPhone, 9999)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = fx.svc.Register(context.Background(), testPhone, 1000000)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestRegisterReplayIsDuplicate(t *testing.T) {
	fx, _ := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CheckPhoneExists(ctx, testPhone)
	require.NoError(t, err)
	code := liveCode(t, fx)

	_, err = fx.svc.Register(ctx, testPhone, code)
	require.NoError(t, err)

	_, err = fx.svc.Register(ctx, testPhone, code)
	assert.True(t, errors.Is(err, ErrDuplicate))
}
