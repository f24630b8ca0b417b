package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"coleta-agenda/models"
	"coleta-agenda/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenIssuer signs administrator session tokens.
type TokenIssuer struct {
	Secret string
	TTL    time.Duration
}

func (t TokenIssuer) Issue(admin *models.Admin) (string, error) {
	return utils.GenerateToken(t.Secret, t.TTL, admin.ID, admin.Email, utils.RoleAdmin)
}

type AdminInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult carries either a token or the must-reset signal, never both.
type LoginResult struct {
	Token     string
	MustReset bool
	Admin     *models.Admin
}

type AdminService struct {
	db     *gorm.DB
	log    *zap.Logger
	tokens TokenIssuer
}

func NewAdminService(db *gorm.DB, log *zap.Logger, tokens TokenIssuer) *AdminService {
	return &AdminService{db: db, log: log, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AdminService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeError("find admin", err)
	}
	if !utils.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if admin.MustReset {
		return &LoginResult{MustReset: true, Admin: &admin}, nil
	}

	token, err := s.tokens.Issue(&admin)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Admin: &admin}, nil
}

func validateAdminInput(in AdminInput, requirePassword bool) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return validationf("Nome e email são obrigatórios")
	}
	if requirePassword && in.Password == "" {
		return validationf("Senha é obrigatória")
	}
	if in.Password != "" && len(in.Password) < 6 {
		return validationf("A senha deve ter pelo menos 6 caracteres")
	}
	return nil
}

// emailTaken checks uniqueness, ignoring the row with id exclude.
func emailTaken(tx *gorm.DB, model interface{}, email string, exclude uint) (bool, error) {
	var count int64
	q := tx.Model(model).Where("email = ?", email)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create stores a new administrator. mustReset marks accounts whose
// credentials have to be replaced on first login.
func (s *AdminService) Create(ctx context.Context, in AdminInput, mustReset bool) (*models.Admin, error) {
	if err := validateAdminInput(in, true); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	admin := models.Admin{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		MustReset:    mustReset,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, &models.Admin{}, admin.Email, 0)
		if err != nil {
			return storeError("check admin email", err)
		}
		if taken {
			return ErrAdminEmailTaken
		}
		return storeError("create admin", tx.Create(&admin).Error)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("admin created", zap.Uint("admin_id", admin.ID), zap.Bool("must_reset", mustReset))
	return &admin, nil
}

// Register creates an administrator and returns a session token for it.
func (s *AdminService) Register(ctx context.Context, in AdminInput) (*models.Admin, string, error) {
	admin, err := s.Create(ctx, in, false)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// CompleteReset sets the credentials of an admin flagged for reset and
// clears the flag. It is reachable without a session.
func (s *AdminService) CompleteReset(ctx context.Context, id uint, in AdminInput) (*models.Admin, error) {
	if err := validateAdminInput(in, true); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var admin models.Admin
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&admin, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdminNotFound
			}
			return storeError("find admin", err)
		}
		if !admin.MustReset {
			return ErrAdminResetNotPending
		}
		email := normalizeEmail(in.Email)
		taken, err := emailTaken(tx, &models.Admin{}, email, admin.ID)
		if err != nil {
			return storeError("check admin email", err)
		}
		if taken {
			return ErrAdminEmailTaken
		}
		admin.Name = strings.TrimSpace(in.Name)
		admin.Email = email
		admin.PasswordHash = hash
		admin.MustReset = false
		return storeError("reset admin", tx.Save(&admin).Error)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("admin credentials reset", zap.Uint("admin_id", admin.ID))
	return &admin, nil
}

func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&admins).Error; err != nil {
		return nil, storeError("list admins", err)
	}
	return admins, nil
}

func (s *AdminService) Get(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, storeError("find admin", err)
	}
	return &admin, nil
}

// Update replaces name and email. The password changes only when given.
func (s *AdminService) Update(ctx context.Context, id uint, in AdminInput) (*models.Admin, error) {
	if err := validateAdminInput(in, false); err != nil {
		return nil, err
	}
	var hash string
	if in.Password != "" {
		h, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	var admin models.Admin
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&admin, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdminNotFound
			}
			return storeError("find admin", err)
		}
		email := normalizeEmail(in.Email)
		taken, err := emailTaken(tx, &models.Admin{}, email, admin.ID)
		if err != nil {
			return storeError("check admin email", err)
		}
		if taken {
			return ErrAdminEmailTaken
		}
		admin.Name = strings.TrimSpace(in.Name)
		admin.Email = email
		if hash != "" {
			admin.PasswordHash = hash
		}
		return storeError("update admin", tx.Save(&admin).Error)
	})
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Delete removes an administrator. Nobody can delete themselves or the
// default account.
func (s *AdminService) Delete(ctx context.Context, requesterID, id uint) error {
	if id == requesterID {
		return ErrAdminDeleteSelf
	}
	if id == models.DefaultAdminID {
		return ErrAdminDeleteDefault
	}
	result := s.db.WithContext(ctx).Delete(&models.Admin{}, id)
	if result.Error != nil {
		return storeError("delete admin", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	s.log.Info("admin deleted", zap.Uint("admin_id", id), zap.Uint("by", requesterID))
	return nil
}
