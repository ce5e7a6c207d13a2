package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/bozor/internal/models"
)

// FavoriteService owns the per-user set of favorited products.
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService constructs a FavoriteService.
func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// AddFavorite marks a product as favorite for the user.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, productID uuid.UUID) (*models.Favorite, error) {
	fav := models.Favorite{UserID: userID, ProductID: productID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProduct(tx, productID); err != nil {
			return err
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).Create(&fav)
		if res.Error != nil {
			return fmt.Errorf("create favorite: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return newError(ErrDuplicate, "product is already in favorites")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

// ListFavorites returns the user's favorites with the quantity held in their cart.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]FavoriteView, error) {
	db := s.db.WithContext(ctx)

	var favorites []models.Favorite
	if err := db.Scopes(withProduct).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	var lines []struct {
		ProductID uuid.UUID
		Quantity  int
	}
	if err := db.Model(&models.CartItem{}).
		Select("product_id, quantity").
		Where("cart_id IN (?)", userCartIDs(db, userID)).
		Scan(&lines).Error; err != nil {
		return nil, fmt.Errorf("load cart quantities: %w", err)
	}
	inCart := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		inCart[line.ProductID] = line.Quantity
	}

	views := make([]FavoriteView, 0, len(favorites))
	for i := range favorites {
		fav := &favorites[i]
		view := FavoriteView{
			ID:             fav.ID,
			ProductSummary: summarize(fav.Product),
			Quantity:       inCart[fav.ProductID],
		}
		view.ProductID = fav.ProductID
		views = append(views, view)
	}
	return views, nil
}

// RemoveFavorite deletes one of the user's favorites.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, favoriteID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", favoriteID, userID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return fmt.Errorf("delete favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return newError(ErrNotFound, "favorite not found")
	}
	return nil
}
