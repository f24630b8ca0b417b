// models/notification_log.go
package models

import "time"

type NotificationLog struct {
	ID            uint   `gorm:"primaryKey"`
	ClientID      uint   `gorm:"index;not null"`
	AppointmentID *uint  `gorm:"index"`
	Kind          string `gorm:"size:20"` // agendado, cancelado
	Channel       string `gorm:"size:20"` // whatsapp, sms
	Recipient     string `gorm:"size:40"`
	Message       string `gorm:"type:text"`
	Status        string `gorm:"size:20"` // sent, failed
	ProviderSID   string `gorm:"size:64"`
	ErrorMessage  string `gorm:"type:text"`
	SentAt        time.Time
}

func (NotificationLog) TableName() string { return "notificacoes" }
