package database

import (
	"testing"

	"github.com/Conceptual-Machines/melodycraft-api/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConnect_NoDSN(t *testing.T) {
	db, err := Connect("")
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.NoError(t, Migrate(nil))
}

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.GenerationLog{}))
}
