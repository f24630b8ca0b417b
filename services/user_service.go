package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"coleta-agenda/models"
	"coleta-agenda/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const bulkDeleteConcurrency = 4

type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type BulkFailure struct {
	ID    uint   `json:"id"`
	Error string `json:"erro"`
}

type BulkDeleteResult struct {
	Deleted []uint        `json:"excluidos"`
	Failed  []BulkFailure `json:"falhas"`
}

type UserService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{db: db, log: log}
}

func validateUserInput(in UserInput, requirePassword bool) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Role) == "" {
		return validationf("Nome, email e tipo de usuário são obrigatórios")
	}
	if requirePassword && in.Password == "" {
		return validationf("Senha é obrigatória")
	}
	return nil
}

func (s *UserService) List(ctx context.Context, page *utils.Pagination) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)
	q := s.db.WithContext(ctx).Model(&models.User{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, storeError("count users", err)
	}
	q = q.Order("id ASC")
	if page != nil {
		q = q.Offset(page.Offset()).Limit(page.PerPage)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, storeError("list users", err)
	}
	return users, total, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("find user", err)
	}
	return &user, nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if err := validateUserInput(in, true); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         strings.TrimSpace(in.Role),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, &models.User{}, user.Email, 0)
		if err != nil {
			return storeError("check user email", err)
		}
		if taken {
			return ErrUserEmailTaken
		}
		return storeError("create user", tx.Create(&user).Error)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update replaces every field. Password is re-hashed only when given.
func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	if err := validateUserInput(in, false); err != nil {
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

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return storeError("find user", err)
		}
		email := normalizeEmail(in.Email)
		taken, err := emailTaken(tx, &models.User{}, email, user.ID)
		if err != nil {
			return storeError("check user email", err)
		}
		if taken {
			return ErrUserEmailTaken
		}
		user.Name = strings.TrimSpace(in.Name)
		user.Email = email
		user.Role = strings.TrimSpace(in.Role)
		if hash != "" {
			user.PasswordHash = hash
		}
		return storeError("update user", tx.Save(&user).Error)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Appointment{}).Where("user_id = ?", id).Count(&refs).Error; err != nil {
			return storeError("count user appointments", err)
		}
		if refs > 0 {
			return ErrUserInUse
		}
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return storeError("delete user", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// BulkDelete deletes each id independently. Failures are reported per id and
// do not undo the deletions that succeeded.
func (s *UserService) BulkDelete(ctx context.Context, ids []uint) BulkDeleteResult {
	var (
		mu     sync.Mutex
		result = BulkDeleteResult{Deleted: []uint{}, Failed: []BulkFailure{}}
		g      errgroup.Group
	)
	g.SetLimit(bulkDeleteConcurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := s.Delete(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				msg := err.Error()
				var svcErr *Error
				if !errors.As(err, &svcErr) {
					s.log.Error("bulk delete user failed", zap.Uint("user_id", id), zap.Error(err))
					msg = "Erro ao excluir usuário"
				}
				result.Failed = append(result.Failed, BulkFailure{ID: id, Error: msg})
				return nil
			}
			result.Deleted = append(result.Deleted, id)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(result.Deleted, func(i, j int) bool { return result.Deleted[i] < result.Deleted[j] })
	sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i].ID < result.Failed[j].ID })
	s.log.Info("bulk user delete",
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("failed", len(result.Failed)))
	return result
}

// Authenticate checks a collector's credentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeError("find user", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
