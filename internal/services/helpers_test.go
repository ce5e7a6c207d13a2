package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/bozor/internal/database"
	"github.com/example/bozor/internal/models"
	"github.com/example/bozor/internal/otp"
	"github.com/example/bozor/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestRegistry(t *testing.T) (*otp.Registry, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return otp.NewRegistry(otp.NewRedisStore(client), time.Minute), mr
}

func seedUser(t *testing.T, db *gorm.DB, phone, password string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Phone: phone, PasswordHash: hash}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, discount int) *models.Product {
	t.Helper()

	seller := models.Seller{Name: name + " do'koni"}
	require.NoError(t, db.Create(&seller).Error)

	product := models.Product{
		Name:     name,
		Slug:     name + "-" + uuid.NewString()[:8],
		Price:    price,
		Discount: discount,
		SellerID: &seller.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	require.NoError(t, db.Create(&models.ProductImage{ProductID: product.ID, Image: "products/" + name + ".jpg"}).Error)
	return &product
}

type sentMessage struct {
	Phone   string
	Message string
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (d *recordingDispatcher) Dispatch(_ context.Context, phone, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentMessage{Phone: phone, Message: message})
}

func (d *recordingDispatcher) messages() []sentMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]sentMessage(nil), d.sent...)
}
