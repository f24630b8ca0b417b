package models

import "time"

const (
	SourcePanel   = "painel"
	SourceChatbot = "chatbot"
	SourceQRCode  = "qrcode"
)

// AppointmentEvent is an append-only record of one status transition.
// FromStatus is empty for the creation event.
type AppointmentEvent struct {
	ID            uint              `gorm:"primaryKey" json:"id_evento"`
	AppointmentID uint              `gorm:"not null;index" json:"id_agendamento"`
	ClientID      uint              `gorm:"not null;index" json:"id_cliente"`
	Date          time.Time         `gorm:"type:date;not null" json:"data"`
	FromStatus    AppointmentStatus `gorm:"size:20" json:"de"`
	ToStatus      AppointmentStatus `gorm:"size:20;not null" json:"para"`
	UserID        *uint             `json:"id_usuario,omitempty"`
	AdminID       *uint             `json:"id_admin,omitempty"`
	Source        string            `gorm:"size:20" json:"origem"`
	CreatedAt     time.Time         `json:"criado_em"`
}

func (AppointmentEvent) TableName() string { return "agendamento_eventos" }
