package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/bozor/internal/services"
)

// ProfileHandler manages the signed-in user's profile, password and address book.
type ProfileHandler struct {
	accounts  *services.AccountService
	addresses *services.AddressService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(accounts *services.AccountService, addresses *services.AddressService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, addresses: addresses}
}

// GetMe returns the authenticated user's profile.
func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.Profile(c.UserContext(), userID)
	if err != nil {
		return fromService(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": user.Public()})
}

// UpdateProfile applies a partial profile update.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req services.ProfileFields
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.accounts.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		return fromService(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": user.Public()})
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePassword replaces the user's password.
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.accounts.ChangePassword(c.UserContext(), userID, req.OldPassword, req.Password, req.ConfirmPassword); err != nil {
		return fromService(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListAddresses returns the user's addresses.
func (h *ProfileHandler) ListAddresses(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	addresses, err := h.addresses.ListAddresses(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": addresses})
}

// CreateAddress adds an address to the user's book.
func (h *ProfileHandler) CreateAddress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req services.AddressFields
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	address, err := h.addresses.CreateAddress(c.UserContext(), userID, req)
	if err != nil {
		return fromService(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": address})
}

// UpdateAddress modifies an address owned by the user.
func (h *ProfileHandler) UpdateAddress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	addressID, err := paramID(c)
	if err != nil {
		return err
	}

	var req services.AddressFields
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	address, err := h.addresses.UpdateAddress(c.UserContext(), userID, addressID, req)
	if err != nil {
		return fromService(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": address})
}

// DeleteAddress removes an address owned by the user.
func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	addressID, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.addresses.DeleteAddress(c.UserContext(), userID, addressID); err != nil {
		return fromService(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
