package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bozor/internal/models"
)

func TestAddItemUpsertsByProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, "998901234567", "secret")
	product := seedProduct(t, db, "choynak", 1000, 20)

	first, err := svc.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := svc.AddItem(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var carts int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&carts).Error)
	assert.Equal(t, int64(1), carts)
}

func TestAddItemValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, "998901234567", "secret")
	product := seedProduct(t, db, "choynak", 1000, 0)

	_, err := svc.AddItem(ctx, user.ID, product.ID, 0)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = svc.AddItem(ctx, user.ID, uuid.New(), 1)
	assert.True(t, errors.Is(err, ErrNotFound))

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListItemsEnrichesProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	favorites := NewFavoriteService(db)
	ctx := context.Background()

	user := seedUser(t, db, "998901234567", "secret")
	kettle := seedProduct(t, db, "choynak", 1000, 20)
	cup := seedProduct(t, db, "piyola", 250, 0)

	_, err := svc.AddItem(ctx, user.ID, kettle.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user.ID, cup.ID, 6)
	require.NoError(t, err)
	_, err = favorites.AddFavorite(ctx, user.ID, kettle.ID)
	require.NoError(t, err)

	items, err := svc.ListItems(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byProduct := map[uuid.UUID]CartItemView{}
	for _, item := range items {
		byProduct[item.ProductID] = item
	}

	k := byProduct[kettle.ID]
	assert.Equal(t, "choynak", k.Name)
	assert.Equal(t, int64(800), k.DiscountPrice)
	assert.Equal(t, "products/choynak.jpg", k.FirstImage)
	assert.Equal(t, "choynak do'koni", k.SellerName)
	assert.True(t, k.IsFavorite)

	c := byProduct[cup.ID]
	assert.Equal(t, 6, c.Quantity)
	assert.Equal(t, int64(250), c.DiscountPrice)
	assert.False(t, c.IsFavorite)
}

func TestListItemsEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)

	items, err := svc.ListItems(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateAndRemoveItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, "998901234567", "secret")
	product := seedProduct(t, db, "choynak", 1000, 0)

	item, err := svc.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, user.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = svc.UpdateItem(ctx, user.ID, item.ID, 0)
	assert.True(t, errors.Is(err, ErrValidation))

	require.NoError(t, svc.RemoveItem(ctx, user.ID, item.ID))
	assert.True(t, errors.Is(svc.RemoveItem(ctx, user.ID, item.ID), ErrNotFound))
}

func TestCartItemsAreOwnerScoped(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "998901234567", "secret")
	other := seedUser(t, db, "998907654321", "secret")
	product := seedProduct(t, db, "choynak", 1000, 0)

	item, err := svc.AddItem(ctx, owner.ID, product.ID, 2)
	require.NoError(t, err)

	// The other user has a cart of their own.
	_, err = svc.AddItem(ctx, other.ID, product.ID, 1)
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, other.ID, item.ID, 9)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(svc.RemoveItem(ctx, other.ID, item.ID), ErrNotFound))

	var reloaded models.CartItem
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	assert.Equal(t, 2, reloaded.Quantity)
}

func TestAddItemConcurrentCallsShareOneLine(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, "998901234567", "secret")
	product := seedProduct(t, db, "choynak", 1000, 0)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, user.ID, product.ID, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var items []models.CartItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, workers, items[0].Quantity)

	var carts int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
	assert.Equal(t, int64(1), carts)
}
