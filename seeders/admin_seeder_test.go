package seeders

import (
	"testing"

	"coleta-agenda/models"
	"coleta-agenda/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestSeedDefaultAdmin(t *testing.T) {
	db := newTestDB(t)
	log := zap.NewNop()

	admin, err := SeedDefaultAdmin(db, log, " Admin@Coleta.com ", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin@coleta.com", admin.Email)
	assert.Equal(t, "Administrador", admin.Name)
	assert.True(t, admin.MustReset)
	assert.True(t, utils.CheckPasswordHash("admin123", admin.PasswordHash))

	again, err := SeedDefaultAdmin(db, log, "admin@coleta.com", "outra")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
	assert.True(t, utils.CheckPasswordHash("admin123", again.PasswordHash))

	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeedDefaultAdminRequiresCredentials(t *testing.T) {
	db := newTestDB(t)
	_, err := SeedDefaultAdmin(db, zap.NewNop(), "", "x")
	assert.Error(t, err)
	_, err = SeedDefaultAdmin(db, zap.NewNop(), "a@b.com", "")
	assert.Error(t, err)
}
