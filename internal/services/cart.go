package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/bozor/internal/models"
)

// CartService owns the per-user cart and its line items.
type CartService struct {
	db *gorm.DB
}

// NewCartService constructs a CartService.
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// AddItem adds quantity of a product to the user's cart. An existing line for the
// product is incremented; a new line starts at exactly quantity.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, newError(ErrValidation, "quantity must be at least 1")
	}

	var item models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProduct(tx, productID); err != nil {
			return err
		}

		cart, err := ensureCart(tx, userID)
		if err != nil {
			return err
		}

		row := models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("upsert cart item: %w", err)
		}

		return tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem sets the quantity of one of the user's cart lines.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, newError(ErrValidation, "quantity must be at least 1")
	}

	db := s.db.WithContext(ctx)
	var item models.CartItem
	if err := db.Where("id = ? AND cart_id IN (?)", itemID, userCartIDs(db, userID)).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, newError(ErrNotFound, "cart item not found")
		}
		return nil, err
	}

	if err := db.Model(&item).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	item.Quantity = quantity
	return &item, nil
}

// RemoveItem deletes one of the user's cart lines.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	db := s.db.WithContext(ctx)
	res := db.Where("id = ? AND cart_id IN (?)", itemID, userCartIDs(db, userID)).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return newError(ErrNotFound, "cart item not found")
	}
	return nil
}

// ListItems returns the user's cart lines with product details and favorite flags.
func (s *CartService) ListItems(ctx context.Context, userID uuid.UUID) ([]CartItemView, error) {
	db := s.db.WithContext(ctx)

	var items []models.CartItem
	if err := db.Scopes(withProduct).
		Where("cart_id IN (?)", userCartIDs(db, userID)).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	var favoriteIDs []uuid.UUID
	if err := db.Model(&models.Favorite{}).Where("user_id = ?", userID).
		Pluck("product_id", &favoriteIDs).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	favorites := make(map[uuid.UUID]struct{}, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favorites[id] = struct{}{}
	}

	views := make([]CartItemView, 0, len(items))
	for i := range items {
		item := &items[i]
		_, fav := favorites[item.ProductID]
		view := CartItemView{
			ID:             item.ID,
			Quantity:       item.Quantity,
			ProductSummary: summarize(item.Product),
			IsFavorite:     fav,
		}
		view.ProductID = item.ProductID
		views = append(views, view)
	}
	return views, nil
}

func ensureCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	candidate := models.Cart{UserID: userID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&candidate).Error; err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}

	var cart models.Cart
	if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &cart, nil
}
