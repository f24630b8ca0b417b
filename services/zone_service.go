package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"coleta-agenda/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ZoneInput struct {
	Name                string
	Color               string
	ExpectedCollections *int
	Days                []string
}

type ZoneService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewZoneService(db *gorm.DB, log *zap.Logger) *ZoneService {
	return &ZoneService{db: db, log: log}
}

// normalize validates the input and returns the canonical day list as JSON.
func (in ZoneInput) normalize() (datatypes.JSON, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationf("Nome da zona é obrigatório")
	}
	if in.ExpectedCollections == nil {
		return nil, validationf("Quantidade de coletas esperadas é obrigatória")
	}
	if *in.ExpectedCollections < 0 {
		return nil, validationf("Quantidade de coletas esperadas não pode ser negativa")
	}
	if len(in.Days) == 0 {
		return nil, validationf("Informe ao menos um dia de coleta")
	}
	codes, err := CanonicalWeekdays(in.Days)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(codes)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (s *ZoneService) List(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&zones).Error; err != nil {
		return nil, storeError("list zones", err)
	}
	return zones, nil
}

func (s *ZoneService) Get(ctx context.Context, id uint) (*models.Zone, error) {
	var zone models.Zone
	if err := s.db.WithContext(ctx).First(&zone, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, storeError("find zone", err)
	}
	return &zone, nil
}

// FindByName looks a zone up by its exact name.
func (s *ZoneService) FindByName(ctx context.Context, name string) (*models.Zone, error) {
	var zone models.Zone
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&zone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, storeError("find zone", err)
	}
	return &zone, nil
}

func zoneNameTaken(tx *gorm.DB, name string, exclude uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Zone{}).Where("name = ?", name)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *ZoneService) Create(ctx context.Context, in ZoneInput) (*models.Zone, error) {
	days, err := in.normalize()
	if err != nil {
		return nil, err
	}
	zone := models.Zone{
		Name:                strings.TrimSpace(in.Name),
		Color:               strings.TrimSpace(in.Color),
		ExpectedCollections: *in.ExpectedCollections,
		Days:                days,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := zoneNameTaken(tx, zone.Name, 0)
		if err != nil {
			return storeError("check zone name", err)
		}
		if taken {
			return ErrZoneNameTaken
		}
		return storeError("create zone", tx.Create(&zone).Error)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("zone created", zap.Uint("zone_id", zone.ID), zap.String("name", zone.Name))
	return &zone, nil
}

func (s *ZoneService) Update(ctx context.Context, id uint, in ZoneInput) (*models.Zone, error) {
	days, err := in.normalize()
	if err != nil {
		return nil, err
	}
	var zone models.Zone
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&zone, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrZoneNotFound
			}
			return storeError("find zone", err)
		}
		name := strings.TrimSpace(in.Name)
		taken, err := zoneNameTaken(tx, name, zone.ID)
		if err != nil {
			return storeError("check zone name", err)
		}
		if taken {
			return ErrZoneNameTaken
		}
		zone.Name = name
		zone.Color = strings.TrimSpace(in.Color)
		zone.ExpectedCollections = *in.ExpectedCollections
		zone.Days = days
		return storeError("update zone", tx.Save(&zone).Error)
	})
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

// Delete refuses while any address still points at the zone.
func (s *ZoneService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Address{}).Where("zone_id = ?", id).Count(&refs).Error; err != nil {
			return storeError("count zone addresses", err)
		}
		if refs > 0 {
			return ErrZoneInUse
		}
		result := tx.Delete(&models.Zone{}, id)
		if result.Error != nil {
			return storeError("delete zone", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrZoneNotFound
		}
		return nil
	})
}
