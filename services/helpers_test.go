package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"coleta-agenda/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixedNow(s string) func() time.Time {
	return func() time.Time { return date(s).Add(10 * time.Hour) }
}

func createZone(t *testing.T, db *gorm.DB, name string, days ...string) *models.Zone {
	t.Helper()
	raw, err := json.Marshal(days)
	require.NoError(t, err)
	zone := models.Zone{Name: name, Color: "verde", ExpectedCollections: len(days), Days: datatypes.JSON(raw)}
	require.NoError(t, db.Create(&zone).Error)
	return &zone
}

func createClient(t *testing.T, db *gorm.DB, zone *models.Zone, name, phone string) *models.Client {
	t.Helper()
	svc := NewClientService(db, zap.NewNop())
	client, err := svc.Create(context.Background(), ClientInput{
		Name:   name,
		Type:   models.SmallGenerator,
		Phone:  phone,
		ZoneID: zone.ID,
		Address: AddressInput{
			Street:       "Rua das Flores",
			Neighborhood: "Centro",
			Number:       "10",
		},
	})
	require.NoError(t, err)
	return client
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user, err := NewUserService(db, zap.NewNop()).Create(context.Background(), UserInput{
		Name:     "Coletor",
		Email:    email,
		Password: "segredo1",
		Role:     "coletor",
	})
	require.NoError(t, err)
	return user
}

func insertAppointment(t *testing.T, db *gorm.DB, client *models.Client, scheduled string, status models.AppointmentStatus, realized string) *models.Appointment {
	t.Helper()
	appt := models.Appointment{
		ClientID:      client.ID,
		ZoneID:        client.Address.ZoneID,
		ScheduledDate: date(scheduled),
		Shift:         models.ShiftMorning,
		Status:        status,
	}
	if realized != "" {
		d := date(realized)
		appt.RealizedDate = &d
	}
	require.NoError(t, db.Create(&appt).Error)
	return &appt
}

type recordingNotifier struct {
	kinds []string
}

func (n *recordingNotifier) Notify(_ context.Context, kind string, _ *models.Client, _ *models.Appointment) {
	n.kinds = append(n.kinds, kind)
}
