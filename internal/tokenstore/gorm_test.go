package tokenstore

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mindease-app/edge/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.DeviceTokens{}))
	return db
}

func TestGormStore_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	store := NewGormStore(newTestDB(t), nil)
	ctx := context.Background()

	err := store.Save(ctx, "dev-1", Tokens{Access: "acc-1", Refresh: "ref-1"})
	require.NoError(t, err)

	got, err := store.Load(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, Tokens{Access: "acc-1", Refresh: "ref-1"}, got)
}

func TestGormStore_Save_OverwritesBothValues(t *testing.T) {
	t.Parallel()

	store := NewGormStore(newTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "dev-1", Tokens{Access: "old-a", Refresh: "old-r"}))
	require.NoError(t, store.Save(ctx, "dev-1", Tokens{Access: "new-a", Refresh: "new-r"}))

	got, err := store.Load(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, Tokens{Access: "new-a", Refresh: "new-r"}, got)
}

func TestGormStore_Load_MissingDevice_ReturnsAbsent(t *testing.T) {
	t.Parallel()

	store := NewGormStore(newTestDB(t), nil)

	got, err := store.Load(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, got.Present())
	assert.Empty(t, got.Refresh)
}

func TestGormStore_Clear_Idempotent(t *testing.T) {
	t.Parallel()

	store := NewGormStore(newTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "dev-1", Tokens{Access: "a", Refresh: "r"}))
	require.NoError(t, store.Clear(ctx, "dev-1"))
	require.NoError(t, store.Clear(ctx, "dev-1"))

	got, err := store.Load(ctx, "dev-1")
	require.NoError(t, err)
	assert.False(t, got.Present())
}

func TestGormStore_ScopesDevicesIndependently(t *testing.T) {
	t.Parallel()

	store := NewGormStore(newTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "dev-1", Tokens{Access: "a1", Refresh: "r1"}))
	require.NoError(t, store.Save(ctx, "dev-2", Tokens{Access: "a2", Refresh: "r2"}))
	require.NoError(t, store.Clear(ctx, "dev-1"))

	got, err := store.Load(ctx, "dev-2")
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Access)
}

func TestGormStore_SealedAtRest(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	sealer, err := NewSealer(hex.EncodeToString(make([]byte, 32)))
	require.NoError(t, err)

	store := NewGormStore(db, sealer)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "dev-1", Tokens{Access: "acc-1", Refresh: "ref-1"}))

	var raw models.DeviceTokens
	require.NoError(t, db.Where("device_id = ?", "dev-1").First(&raw).Error)
	assert.NotEqual(t, "acc-1", raw.AccessToken)
	assert.NotEqual(t, "ref-1", raw.RefreshToken)

	got, err := store.Load(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, Tokens{Access: "acc-1", Refresh: "ref-1"}, got)
}

func TestScoped_BindsDeviceID(t *testing.T) {
	t.Parallel()

	store := NewGormStore(newTestDB(t), nil)
	scoped := ForDevice(store, "dev-9")
	ctx := context.Background()

	require.NoError(t, scoped.Save(ctx, "a", "r"))

	got, err := store.Load(ctx, "dev-9")
	require.NoError(t, err)
	assert.Equal(t, Tokens{Access: "a", Refresh: "r"}, got)
}
