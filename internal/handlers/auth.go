package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/example/bozor/internal/services"
)

// AuthHandler bundles the registration and token endpoints.
type AuthHandler struct {
	registration *services.RegistrationService
	accounts     *services.AccountService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(registration *services.RegistrationService, accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{registration: registration, accounts: accounts}
}

// UserExists reports whether a phone is registered and sends a registration code when it is not.
func (h *AuthHandler) UserExists(c *fiber.Ctx) error {
	exists, err := h.registration.CheckPhoneExists(c.UserContext(), c.Params("phone"))
	if err != nil {
		return fromService(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"is_exists": exists},
	})
}

type registerRequest struct {
	Phone string      `json:"phone"`
	Code  json.Number `json:"code"`
}

// Register creates an account once the phone's registration code is confirmed.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Phone == "" || req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone and code are required")
	}

	code, err := strconv.Atoi(req.Code.String())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "code must be an integer")
	}

	res, err := h.registration.Register(c.UserContext(), req.Phone, code)
	if err != nil {
		return fromService(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    res.User.Public(),
		"access":  res.Tokens.Access,
		"refresh": res.Tokens.Refresh,
	})
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Login exchanges phone and password for a token pair.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, tokens, err := h.accounts.Login(c.UserContext(), req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredential) {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return fromService(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.Public(),
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshToken issues a new access token for a refresh token.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	access, err := h.accounts.RefreshAccess(req.Refresh)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredential) {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return fromService(err)
	}

	return c.JSON(fiber.Map{"success": true, "access": access})
}
