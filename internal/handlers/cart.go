package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/bozor/internal/services"
)

// CartHandler serves the user's cart and favorites.
type CartHandler struct {
	carts     *services.CartService
	favorites *services.FavoriteService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(carts *services.CartService, favorites *services.FavoriteService) *CartHandler {
	return &CartHandler{carts: carts, favorites: favorites}
}

// ListCart returns the user's cart lines.
func (h *CartHandler) ListCart(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.carts.ListItems(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

type addToCartRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  *int      `json:"quantity"`
}

// AddToCart adds a product to the cart, incrementing an existing line.
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := h.carts.AddItem(c.UserContext(), userID, req.ProductID, quantity)
	if err != nil {
		return fromService(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets the quantity of a cart line.
func (h *CartHandler) UpdateCartItem(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	itemID, err := paramID(c)
	if err != nil {
		return err
	}

	var req updateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.carts.UpdateItem(c.UserContext(), userID, itemID, req.Quantity)
	if err != nil {
		return fromService(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// RemoveCartItem deletes a cart line.
func (h *CartHandler) RemoveCartItem(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	itemID, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.carts.RemoveItem(c.UserContext(), userID, itemID); err != nil {
		return fromService(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListFavorites returns the user's favorites with their cart quantities.
func (h *CartHandler) ListFavorites(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	favorites, err := h.favorites.ListFavorites(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": favorites})
}

type addFavoriteRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

// AddFavorite marks a product as favorite.
func (h *CartHandler) AddFavorite(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req addFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}

	favorite, err := h.favorites.AddFavorite(c.UserContext(), userID, req.ProductID)
	if err != nil {
		return fromService(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": favorite})
}

// RemoveFavorite deletes a favorite.
func (h *CartHandler) RemoveFavorite(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	favoriteID, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.favorites.RemoveFavorite(c.UserContext(), userID, favoriteID); err != nil {
		return fromService(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
