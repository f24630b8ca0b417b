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

// Actor identifies who triggered a change, for the event log.
type Actor struct {
	AdminID *uint
	UserID  *uint
	Source  string
}

type AppointmentInput struct {
	ClientID uint
	Date     time.Time
	Shift    string
	Notes    string
	UserID   *uint
}

type CompletionInput struct {
	Date   time.Time
	Time   string
	UserID *uint
	// Shift, when valid, replaces the appointment's shift.
	Shift string
}

type RescheduleInput struct {
	Date  time.Time
	Shift string
	Notes string
}

type AppointmentFilter struct {
	Status models.AppointmentStatus
}

type AppointmentService struct {
	db       *gorm.DB
	log      *zap.Logger
	notifier Notifier
	now      func() time.Time
}

func NewAppointmentService(db *gorm.DB, log *zap.Logger, notifier Notifier) *AppointmentService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &AppointmentService{db: db, log: log, notifier: notifier, now: time.Now}
}

func (s *AppointmentService) today() time.Time {
	return utils.CivilDate(s.now())
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Client.Address").Preload("Zone").Preload("User")
}

func (s *AppointmentService) load(ctx context.Context, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := withRelations(s.db.WithContext(ctx)).First(&appt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, storeError("find appointment", err)
	}
	return &appt, nil
}

func (s *AppointmentService) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.load(ctx, id)
}

func (s *AppointmentService) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	var appts []models.Appointment
	q := withRelations(s.db.WithContext(ctx))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Order("scheduled_date ASC, id ASC").Find(&appts).Error; err != nil {
		return nil, storeError("list appointments", err)
	}
	return appts, nil
}

func (s *AppointmentService) History(ctx context.Context, id uint) ([]models.AppointmentEvent, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	var events []models.AppointmentEvent
	if err := s.db.WithContext(ctx).
		Where("appointment_id = ?", id).
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, storeError("list appointment events", err)
	}
	return events, nil
}

func appendEvent(tx *gorm.DB, appt *models.Appointment, from models.AppointmentStatus, date time.Time, actor Actor) error {
	event := models.AppointmentEvent{
		AppointmentID: appt.ID,
		ClientID:      appt.ClientID,
		Date:          utils.CivilDate(date),
		FromStatus:    from,
		ToStatus:      appt.Status,
		UserID:        actor.UserID,
		AdminID:       actor.AdminID,
		Source:        actor.Source,
	}
	return storeError("append appointment event", tx.Create(&event).Error)
}

func clientZone(tx *gorm.DB, client *models.Client) (uint, error) {
	if client.Address == nil {
		var address models.Address
		if err := tx.First(&address, client.AddressID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrClientWithoutZone
			}
			return 0, storeError("find address", err)
		}
		client.Address = &address
	}
	if client.Address.ZoneID == 0 {
		return 0, ErrClientWithoutZone
	}
	return client.Address.ZoneID, nil
}

func requireUser(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return storeError("find user", err)
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func findClient(tx *gorm.DB, column string, value interface{}) (*models.Client, error) {
	var client models.Client
	if err := tx.Preload("Address").Where(column+" = ?", value).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, storeError("find client", err)
	}
	return &client, nil
}

func findPending(tx *gorm.DB, clientID uint) (*models.Appointment, error) {
	var appt models.Appointment
	err := tx.Where("client_id = ? AND status = ?", clientID, models.StatusPending).
		Order("scheduled_date ASC, id ASC").
		First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("find pending appointment", err)
	}
	return &appt, nil
}

func validateShift(shift string) (string, error) {
	shift = strings.TrimSpace(shift)
	if !models.ValidShift(shift) {
		return "", validationf("Turno inválido: use %s, %s ou %s", models.ShiftMorning, models.ShiftAfternoon, models.ShiftNight)
	}
	return shift, nil
}

// Create schedules a pickup for an existing client. A client can hold only
// one pending appointment at a time.
func (s *AppointmentService) Create(ctx context.Context, in AppointmentInput, actor Actor) (*models.Appointment, error) {
	return s.create(ctx, "id", in.ClientID, in, actor)
}

// CreateByPhone is the chatbot entry point: the client is resolved by phone
// and the date must not be in the past.
func (s *AppointmentService) CreateByPhone(ctx context.Context, phone string, in AppointmentInput, actor Actor) (*models.Appointment, error) {
	if utils.CivilDate(in.Date).Before(s.today()) {
		return nil, ErrDateInPast
	}
	return s.create(ctx, "phone", utils.NormalizePhone(phone), in, actor)
}

func (s *AppointmentService) create(ctx context.Context, column string, key interface{}, in AppointmentInput, actor Actor) (*models.Appointment, error) {
	if in.Date.IsZero() {
		return nil, validationf("Data do agendamento é obrigatória")
	}
	shift, err := validateShift(in.Shift)
	if err != nil {
		return nil, err
	}

	var (
		appt   models.Appointment
		client *models.Client
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findClient(tx, column, key)
		if err != nil {
			return err
		}
		client = c
		zoneID, err := clientZone(tx, client)
		if err != nil {
			return err
		}
		if err := requireUser(tx, in.UserID); err != nil {
			return err
		}
		pending, err := findPending(tx, client.ID)
		if err != nil {
			return err
		}
		if pending != nil {
			return ErrPendingAlreadyExists
		}

		appt = models.Appointment{
			ClientID:      client.ID,
			ZoneID:        zoneID,
			UserID:        in.UserID,
			ScheduledDate: utils.CivilDate(in.Date),
			Shift:         shift,
			Notes:         strings.TrimSpace(in.Notes),
			Status:        models.StatusPending,
		}
		if err := tx.Create(&appt).Error; err != nil {
			return storeError("create appointment", err)
		}
		return appendEvent(tx, &appt, "", appt.ScheduledDate, actor)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("appointment created",
		zap.Uint("appointment_id", appt.ID),
		zap.Uint("client_id", appt.ClientID),
		zap.String("source", actor.Source))
	s.notifier.Notify(ctx, NotificationScheduled, client, &appt)
	return s.load(ctx, appt.ID)
}

// complete moves a pending appointment to REALIZADO inside tx.
func complete(tx *gorm.DB, appt *models.Appointment, in CompletionInput, actor Actor) error {
	if appt.Status.Terminal() {
		return ErrAppointmentTerminal
	}
	done := utils.CivilDate(in.Date)
	if done.Before(utils.CivilDate(appt.ScheduledDate)) {
		return ErrRealizedBeforeSchedule
	}
	appt.Status = models.StatusRealized
	appt.RealizedDate = &done
	if t := strings.TrimSpace(in.Time); t != "" {
		appt.RealizedTime = &t
	}
	if in.UserID != nil {
		appt.UserID = in.UserID
	}
	if shift := strings.TrimSpace(in.Shift); models.ValidShift(shift) {
		appt.Shift = shift
	}
	if err := tx.Save(appt).Error; err != nil {
		return storeError("complete appointment", err)
	}
	return appendEvent(tx, appt, models.StatusPending, done, actor)
}

// MarkDone is the guarded PENDENTE to REALIZADO transition.
func (s *AppointmentService) MarkDone(ctx context.Context, id uint, in CompletionInput, actor Actor) (*models.Appointment, error) {
	if in.Date.IsZero() {
		return nil, validationf("Data de realização é obrigatória")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appt models.Appointment
		if err := tx.First(&appt, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return storeError("find appointment", err)
		}
		if err := requireUser(tx, in.UserID); err != nil {
			return err
		}
		return complete(tx, &appt, in, actor)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("appointment realized", zap.Uint("appointment_id", id), zap.String("source", actor.Source))
	return s.load(ctx, id)
}

// RegisterByQRCode records a pickup for the client behind a QR code on the
// given date. A pending appointment scheduled for that date is completed; a
// pickup already realized on that date is returned unchanged; otherwise a new
// realized appointment is created. created reports the last case.
func (s *AppointmentService) RegisterByQRCode(ctx context.Context, qrCode string, in CompletionInput, actor Actor) (appt *models.Appointment, created bool, err error) {
	if strings.TrimSpace(qrCode) == "" {
		return nil, false, validationf("QR code é obrigatório")
	}
	if in.Date.IsZero() {
		return nil, false, validationf("Data de realização é obrigatória")
	}
	day := utils.CivilDate(in.Date)

	var id uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := findClient(tx, "qr_code", strings.TrimSpace(qrCode))
		if err != nil {
			return err
		}
		zoneID, err := clientZone(tx, client)
		if err != nil {
			return err
		}
		if err := requireUser(tx, in.UserID); err != nil {
			return err
		}

		var existing models.Appointment
		err = tx.Where("client_id = ? AND status = ? AND realized_date = ?", client.ID, models.StatusRealized, day).
			Order("id ASC").First(&existing).Error
		if err == nil {
			id = existing.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeError("find realized appointment", err)
		}

		err = tx.Where("client_id = ? AND status = ? AND scheduled_date = ?", client.ID, models.StatusPending, day).
			Order("id ASC").First(&existing).Error
		if err == nil {
			id = existing.ID
			return complete(tx, &existing, in, actor)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeError("find pending appointment", err)
		}

		shift := strings.TrimSpace(in.Shift)
		if !models.ValidShift(shift) {
			shift = models.ShiftUnknown
		}
		adhoc := models.Appointment{
			ClientID:      client.ID,
			ZoneID:        zoneID,
			UserID:        in.UserID,
			ScheduledDate: day,
			Shift:         shift,
			Status:        models.StatusRealized,
			RealizedDate:  &day,
		}
		if t := strings.TrimSpace(in.Time); t != "" {
			adhoc.RealizedTime = &t
		}
		if err := tx.Create(&adhoc).Error; err != nil {
			return storeError("create appointment", err)
		}
		id = adhoc.ID
		created = true
		return appendEvent(tx, &adhoc, "", day, actor)
	})
	if err != nil {
		return nil, false, err
	}

	s.log.Info("pickup registered",
		zap.Uint("appointment_id", id),
		zap.Bool("created", created),
		zap.String("source", actor.Source))
	appt, err = s.load(ctx, id)
	return appt, created, err
}

func (s *AppointmentService) cancel(tx *gorm.DB, appt *models.Appointment, actor Actor) error {
	if appt.Status.Terminal() {
		return ErrAppointmentTerminal
	}
	appt.Status = models.StatusCancelled
	if err := tx.Save(appt).Error; err != nil {
		return storeError("cancel appointment", err)
	}
	return appendEvent(tx, appt, models.StatusPending, appt.ScheduledDate, actor)
}

// Cancel is the guarded PENDENTE to CANCELADO transition.
func (s *AppointmentService) Cancel(ctx context.Context, id uint, actor Actor) (*models.Appointment, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appt models.Appointment
		if err := tx.First(&appt, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return storeError("find appointment", err)
		}
		return s.cancel(tx, &appt, actor)
	})
	if err != nil {
		return nil, err
	}
	return s.afterCancel(ctx, id, actor)
}

// CancelByPhone cancels the client's pending appointment.
func (s *AppointmentService) CancelByPhone(ctx context.Context, phone string, actor Actor) (*models.Appointment, error) {
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := findClient(tx, "phone", utils.NormalizePhone(phone))
		if err != nil {
			return err
		}
		pending, err := findPending(tx, client.ID)
		if err != nil {
			return err
		}
		if pending == nil {
			return ErrNoPendingAppointment
		}
		id = pending.ID
		return s.cancel(tx, pending, actor)
	})
	if err != nil {
		return nil, err
	}
	return s.afterCancel(ctx, id, actor)
}

func (s *AppointmentService) afterCancel(ctx context.Context, id uint, actor Actor) (*models.Appointment, error) {
	s.log.Info("appointment cancelled", zap.Uint("appointment_id", id), zap.String("source", actor.Source))
	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, NotificationCancelled, appt.Client, appt)
	return appt, nil
}

// RescheduleByPhone moves the client's pending appointment to a new date.
func (s *AppointmentService) RescheduleByPhone(ctx context.Context, phone string, in RescheduleInput, actor Actor) (*models.Appointment, error) {
	if in.Date.IsZero() {
		return nil, validationf("Data do agendamento é obrigatória")
	}
	if utils.CivilDate(in.Date).Before(s.today()) {
		return nil, ErrDateInPast
	}
	shift, err := validateShift(in.Shift)
	if err != nil {
		return nil, err
	}

	var id uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := findClient(tx, "phone", utils.NormalizePhone(phone))
		if err != nil {
			return err
		}
		pending, err := findPending(tx, client.ID)
		if err != nil {
			return err
		}
		if pending == nil {
			return ErrNoPendingAppointment
		}
		pending.ScheduledDate = utils.CivilDate(in.Date)
		pending.Shift = shift
		pending.Notes = strings.TrimSpace(in.Notes)
		if err := tx.Save(pending).Error; err != nil {
			return storeError("reschedule appointment", err)
		}
		id = pending.ID
		return appendEvent(tx, pending, models.StatusPending, pending.ScheduledDate, actor)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("appointment rescheduled", zap.Uint("appointment_id", id), zap.String("source", actor.Source))
	return s.load(ctx, id)
}

// Collections lists realized pickups, newest first.
func (s *AppointmentService) Collections(ctx context.Context) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := withRelations(s.db.WithContext(ctx)).
		Where("status = ?", models.StatusRealized).
		Order("realized_date DESC, id DESC").
		Find(&appts).Error; err != nil {
		return nil, storeError("list collections", err)
	}
	return appts, nil
}

func (s *AppointmentService) Collection(ctx context.Context, id uint) (*models.Appointment, error) {
	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.StatusRealized {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}
