package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bozor/internal/services"
)

func TestFromService(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{&services.Error{Kind: services.ErrValidation, Msg: "bad"}, fiber.StatusBadRequest},
		{&services.Error{Kind: services.ErrMismatch, Msg: "bad"}, fiber.StatusBadRequest},
		{&services.Error{Kind: services.ErrInvalidCredential, Msg: "bad"}, fiber.StatusBadRequest},
		{&services.Error{Kind: services.ErrDuplicate, Msg: "bad"}, fiber.StatusConflict},
		{&services.Error{Kind: services.ErrNotFound, Msg: "bad"}, fiber.StatusNotFound},
	}

	for _, tc := range cases {
		var fe *fiber.Error
		require.True(t, errors.As(fromService(tc.err), &fe))
		assert.Equal(t, tc.code, fe.Code)
		assert.Equal(t, "bad", fe.Message)
	}

	plain := fmt.Errorf("load user: %w", errors.New("connection refused"))
	assert.Same(t, plain, fromService(plain))
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: password authentication failed")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fromService(&services.Error{Kind: services.ErrNotFound, Msg: "cart item not found"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"error":"cart item not found"}`, string(body))
}
