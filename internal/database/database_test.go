package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/example/bozor/internal/models"
)

func TestMigrateEnforcesSingleStandardAddress(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	require.NoError(t, Ping(db))

	userID := uuid.New()
	require.NoError(t, db.Create(&models.Address{UserID: userID, Name: "Uy", IsStandard: true}).Error)
	require.NoError(t, db.Create(&models.Address{UserID: userID, Name: "Ish"}).Error)

	err = db.Create(&models.Address{UserID: userID, Name: "Dacha", IsStandard: true}).Error
	assert.Error(t, err)

	// Other users are unaffected.
	require.NoError(t, db.Create(&models.Address{UserID: uuid.New(), Name: "Uy", IsStandard: true}).Error)
}

func TestEnsureDatabaseSkipsNonURLDSN(t *testing.T) {
	assert.NoError(t, ensureDatabase("host=localhost user=postgres dbname=bozor"))
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = ConnectRedis(context.Background(), "not-a-url")
	assert.Error(t, err)
}
