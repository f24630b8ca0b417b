// services/notifier.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coleta-agenda/config"
	"coleta-agenda/models"
	"coleta-agenda/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	NotificationScheduled = "agendado"
	NotificationCancelled = "cancelado"
)

// Notifier tells a client about changes to their pickups. Implementations
// must not fail the caller: delivery problems are logged.
type Notifier interface {
	Notify(ctx context.Context, kind string, client *models.Client, appt *models.Appointment)
}

// NopNotifier is used when no messaging provider is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, *models.Client, *models.Appointment) {}

type messageSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioNotifier sends WhatsApp messages to E.164 numbers and SMS otherwise,
// recording every attempt in the notification log.
type TwilioNotifier struct {
	db     *gorm.DB
	log    *zap.Logger
	sender messageSender
	cfg    config.TwilioConfig
}

func NewTwilioNotifier(db *gorm.DB, log *zap.Logger, cfg config.TwilioConfig) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioNotifier{db: db, log: log, sender: client.Api, cfg: cfg}
}

// NewNotifier picks Twilio when credentials are present.
func NewNotifier(db *gorm.DB, log *zap.Logger, cfg config.TwilioConfig) Notifier {
	if !cfg.Enabled() {
		log.Info("twilio not configured, notifications disabled")
		return NopNotifier{}
	}
	return NewTwilioNotifier(db, log, cfg)
}

func notificationMessage(kind string, client *models.Client, appt *models.Appointment) string {
	date := appt.ScheduledDate.Format("02/01/2006")
	switch kind {
	case NotificationCancelled:
		return fmt.Sprintf("Olá %s, sua coleta de %s foi cancelada.", client.Name, date)
	default:
		return fmt.Sprintf("Olá %s, sua coleta foi agendada para %s (%s).", client.Name, date, appt.Shift)
	}
}

func (n *TwilioNotifier) Notify(ctx context.Context, kind string, client *models.Client, appt *models.Appointment) {
	message := notificationMessage(kind, client, appt)
	phone := utils.NormalizePhone(client.Phone)

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(message)

	channel := "sms"
	if strings.HasPrefix(phone, "+") && n.cfg.WhatsAppNumber != "" {
		channel = "whatsapp"
		params.SetTo("whatsapp:" + phone)
		params.SetFrom("whatsapp:" + n.cfg.WhatsAppNumber)
	} else {
		params.SetTo(phone)
		params.SetFrom(n.cfg.PhoneNumber)
	}

	entry := models.NotificationLog{
		ClientID:      client.ID,
		AppointmentID: &appt.ID,
		Kind:          kind,
		Channel:       channel,
		Recipient:     phone,
		Message:       message,
		Status:        "sent",
		SentAt:        time.Now(),
	}

	resp, err := n.sender.CreateMessage(params)
	if err != nil {
		n.log.Warn("notification failed",
			zap.Uint("client_id", client.ID),
			zap.String("channel", channel),
			zap.Error(err))
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	} else if resp != nil && resp.Sid != nil {
		entry.ProviderSID = *resp.Sid
		n.log.Info("notification sent",
			zap.Uint("client_id", client.ID),
			zap.String("channel", channel),
			zap.String("sid", *resp.Sid))
	}

	if err := n.db.WithContext(ctx).Create(&entry).Error; err != nil {
		n.log.Error("failed to record notification", zap.Uint("client_id", client.ID), zap.Error(err))
	}
}
