package services

import (
	"context"
	"testing"

	"github.com/Conceptual-Machines/melodycraft-api/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.GenerationLog{}))
	return db
}

func TestNewUsageStore_NilDB(t *testing.T) {
	store := NewUsageStore(nil)
	assert.IsType(t, nopUsageStore{}, store)
	assert.NoError(t, store.Record(context.Background(), &models.GenerationLog{Prompt: "x"}))
}

func TestGormUsageStore(t *testing.T) {
	db := openTestDB(t)
	store, ok := NewUsageStore(db).(*GormUsageStore)
	require.True(t, ok)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, &models.GenerationLog{Prompt: "first", Mood: "calm", Format: FormatABC}))
	require.NoError(t, store.Record(ctx, &models.GenerationLog{Prompt: "second", Mood: "epic", Format: FormatMIDI}))

	logs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "second", logs[0].Prompt)
	assert.Equal(t, FormatMIDI, logs[0].Format)
	assert.Equal(t, "first", logs[1].Prompt)
	assert.NotZero(t, logs[1].ID)
}
