package services

import (
	"context"
	"errors"
	"strings"

	"coleta-agenda/models"
	"coleta-agenda/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const qrCodeAttempts = 5

type AddressInput struct {
	Street       string
	Neighborhood string
	Number       string
}

type ClientInput struct {
	Name    string
	Type    models.ClientType
	Phone   string
	QRCode  string
	ZoneID  uint
	Address AddressInput
}

type ClientFilter struct {
	Name string
}

// PendingSummary is what the chatbot gets back for a phone number.
type PendingSummary struct {
	Client  *models.Client
	Pending []models.Appointment
}

type ClientService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewClientService(db *gorm.DB, log *zap.Logger) *ClientService {
	return &ClientService{db: db, log: log}
}

func (in *ClientInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = utils.NormalizePhone(in.Phone)
	in.QRCode = strings.TrimSpace(in.QRCode)
	in.Address.Street = strings.TrimSpace(in.Address.Street)
	in.Address.Neighborhood = strings.TrimSpace(in.Address.Neighborhood)
	in.Address.Number = strings.TrimSpace(in.Address.Number)

	if in.Name == "" || in.Phone == "" || in.ZoneID == 0 {
		return validationf("Nome, telefone e zona são obrigatórios")
	}
	if !in.Type.Valid() {
		return validationf("Tipo de cliente inválido: use %s ou %s", models.LargeGenerator, models.SmallGenerator)
	}
	if !utils.ValidatePhone(in.Phone) {
		return validationf("Telefone inválido")
	}
	if in.Address.Street == "" || in.Address.Neighborhood == "" || in.Address.Number == "" {
		return validationf("Endereço incompleto: rua, bairro e número são obrigatórios")
	}
	return nil
}

func clientColumnTaken(tx *gorm.DB, column, value string, exclude uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Client{}).Where(column+" = ?", value)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func checkClientKeys(tx *gorm.DB, phone, qrCode string, exclude uint) error {
	taken, err := clientColumnTaken(tx, "phone", phone, exclude)
	if err != nil {
		return storeError("check client phone", err)
	}
	if taken {
		return ErrClientPhoneTaken
	}
	if qrCode == "" {
		return nil
	}
	taken, err = clientColumnTaken(tx, "qr_code", qrCode, exclude)
	if err != nil {
		return storeError("check client qr code", err)
	}
	if taken {
		return ErrClientQRTaken
	}
	return nil
}

func uniqueQRCode(tx *gorm.DB) (string, error) {
	for i := 0; i < qrCodeAttempts; i++ {
		code := utils.GenerateQRCode()
		taken, err := clientColumnTaken(tx, "qr_code", code, 0)
		if err != nil {
			return "", storeError("check client qr code", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique qr code")
}

func requireZone(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Zone{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return storeError("find zone", err)
	}
	if count == 0 {
		return ErrZoneMissing
	}
	return nil
}

func withAddress(db *gorm.DB) *gorm.DB {
	return db.Preload("Address.Zone")
}

func (s *ClientService) List(ctx context.Context, filter ClientFilter, page *utils.Pagination) ([]models.Client, int64, error) {
	var (
		clients []models.Client
		total   int64
	)
	q := s.db.WithContext(ctx).Model(&models.Client{})
	if name := strings.TrimSpace(filter.Name); name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, storeError("count clients", err)
	}
	q = withAddress(q).Order("name ASC, id ASC")
	if page != nil {
		q = q.Offset(page.Offset()).Limit(page.PerPage)
	}
	if err := q.Find(&clients).Error; err != nil {
		return nil, 0, storeError("list clients", err)
	}
	return clients, total, nil
}

func (s *ClientService) findBy(ctx context.Context, column string, value interface{}) (*models.Client, error) {
	var client models.Client
	err := withAddress(s.db.WithContext(ctx)).Where(column+" = ?", value).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, storeError("find client", err)
	}
	return &client, nil
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	return s.findBy(ctx, "id", id)
}

func (s *ClientService) GetByPhone(ctx context.Context, phone string) (*models.Client, error) {
	return s.findBy(ctx, "phone", utils.NormalizePhone(phone))
}

func (s *ClientService) GetByQRCode(ctx context.Context, qrCode string) (*models.Client, error) {
	return s.findBy(ctx, "qr_code", strings.TrimSpace(qrCode))
}

// Create stores the address and the client together. A QR code is generated
// when none is given.
func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var client models.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireZone(tx, in.ZoneID); err != nil {
			return err
		}
		if err := checkClientKeys(tx, in.Phone, in.QRCode, 0); err != nil {
			return err
		}
		qrCode := in.QRCode
		if qrCode == "" {
			code, err := uniqueQRCode(tx)
			if err != nil {
				return err
			}
			qrCode = code
		}

		address := models.Address{
			Street:       in.Address.Street,
			Neighborhood: in.Address.Neighborhood,
			Number:       in.Address.Number,
			ZoneID:       in.ZoneID,
		}
		if err := tx.Create(&address).Error; err != nil {
			return storeError("create address", err)
		}
		client = models.Client{
			Name:      in.Name,
			Type:      in.Type,
			Phone:     in.Phone,
			QRCode:    qrCode,
			AddressID: address.ID,
		}
		return storeError("create client", tx.Create(&client).Error)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("client created", zap.Uint("client_id", client.ID), zap.String("qr_code", client.QRCode))
	return s.Get(ctx, client.ID)
}

// Update replaces the client and its address. An address shared with other
// clients is left alone and the client moves to a new one.
func (s *ClientService) Update(ctx context.Context, id uint, in ClientInput) (*models.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return storeError("find client", err)
		}
		if err := requireZone(tx, in.ZoneID); err != nil {
			return err
		}
		if err := checkClientKeys(tx, in.Phone, in.QRCode, client.ID); err != nil {
			return err
		}

		var sharing int64
		if err := tx.Model(&models.Client{}).
			Where("address_id = ? AND id <> ?", client.AddressID, client.ID).
			Count(&sharing).Error; err != nil {
			return storeError("count address clients", err)
		}
		address := models.Address{
			Street:       in.Address.Street,
			Neighborhood: in.Address.Neighborhood,
			Number:       in.Address.Number,
			ZoneID:       in.ZoneID,
		}
		if sharing > 0 {
			if err := tx.Create(&address).Error; err != nil {
				return storeError("create address", err)
			}
		} else {
			address.ID = client.AddressID
			if err := tx.Save(&address).Error; err != nil {
				return storeError("update address", err)
			}
		}

		client.Name = in.Name
		client.Type = in.Type
		client.Phone = in.Phone
		if in.QRCode != "" {
			client.QRCode = in.QRCode
		}
		client.AddressID = address.ID
		return storeError("update client", tx.Save(&client).Error)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the client and, when no other client uses it, its address.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return storeError("find client", err)
		}

		var refs int64
		if err := tx.Model(&models.Appointment{}).Where("client_id = ?", client.ID).Count(&refs).Error; err != nil {
			return storeError("count client appointments", err)
		}
		if refs > 0 {
			return ErrClientInUse
		}
		if err := tx.Delete(&client).Error; err != nil {
			return storeError("delete client", err)
		}

		var remaining int64
		if err := tx.Model(&models.Client{}).Where("address_id = ?", client.AddressID).Count(&remaining).Error; err != nil {
			return storeError("count address clients", err)
		}
		if remaining == 0 {
			if err := tx.Delete(&models.Address{}, client.AddressID).Error; err != nil {
				return storeError("delete address", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("client deleted", zap.Uint("client_id", id))
	return nil
}

// PendingByPhone returns the client behind a phone number with its pending
// appointments.
func (s *ClientService) PendingByPhone(ctx context.Context, phone string) (*PendingSummary, error) {
	client, err := s.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	var pending []models.Appointment
	if err := s.db.WithContext(ctx).
		Where("client_id = ? AND status = ?", client.ID, models.StatusPending).
		Order("scheduled_date ASC").
		Find(&pending).Error; err != nil {
		return nil, storeError("list pending appointments", err)
	}
	return &PendingSummary{Client: client, Pending: pending}, nil
}
