package utils

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuerPair(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)
	userID := uuid.New()

	pair, err := issuer.IssuePair(userID)
	require.NoError(t, err)
	require.NotEqual(t, pair.Access, pair.Refresh)

	got, err := issuer.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = issuer.ParseAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	access, err := issuer.Refresh(pair.Refresh)
	require.NoError(t, err)
	got, err = issuer.ParseAccess(access)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = issuer.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	userID := uuid.New()

	expired, err := GenerateToken("secret", userID, TokenTypeAccess, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("secret", expired, TokenTypeAccess)
	assert.Error(t, err)

	foreign, err := GenerateToken("other", userID, TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("secret", foreign, TokenTypeAccess)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestRandomPassword(t *testing.T) {
	pw, err := RandomPassword(6)
	require.NoError(t, err)
	assert.Len(t, pw, 6)
	assert.Regexp(t, `^[A-Za-z0-9]{6}$`, pw)
}

func TestRandomCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := RandomCode(100000, 999999)
		require.NoError(t, err)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"998901234567", true},
		{"+998901234567", true},
		{" 998901234567 ", true},
		{"99890123456", false},
		{"9989012345678", false},
		{"79001234567", false},
		{"99890abc4567", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(NormalizePhone(tt.phone)))
		})
	}
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	var got Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParsePagination(c)
		return nil
	})

	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Page: 1, Limit: 20, Offset: 0}},
		{"?page=3&limit=10", Pagination{Page: 3, Limit: 10, Offset: 20}},
		{"?page=-1&limit=0", Pagination{Page: 1, Limit: 20, Offset: 0}},
		{"?limit=500", Pagination{Page: 1, Limit: 100, Offset: 0}},
	}

	for _, tt := range tests {
		_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.query)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "choynak-1-5-l", Slugify("  Choynak 1.5 L "))
	assert.Equal(t, "o-zbek-choyi", Slugify("O'zbek choyi"))
	assert.Equal(t, "", Slugify("--"))
}
