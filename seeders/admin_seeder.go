package seeders

import (
	"errors"
	"strings"

	"coleta-agenda/models"
	"coleta-agenda/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultAdminName = "Administrador"

// SeedDefaultAdmin creates the bootstrap administrator when no admin with
// that email exists. The account is flagged so the first login forces a
// credential reset. Running it again is a no-op.
func SeedDefaultAdmin(db *gorm.DB, log *zap.Logger, email, password string) (*models.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("seed admin email and password are required")
	}

	var existing models.Admin
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Info("default admin already present, skipping", zap.String("email", email))
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("failed to look up default admin", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := models.Admin{
		Name:         defaultAdminName,
		Email:        email,
		PasswordHash: hash,
		MustReset:    true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Error("failed to create default admin", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	log.Info("default admin created", zap.Uint("admin_id", admin.ID), zap.String("email", email))
	return &admin, nil
}
