package models

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDENTE"
	StatusRealized  AppointmentStatus = "REALIZADO"
	StatusCancelled AppointmentStatus = "CANCELADO"
)

// Terminal reports whether no further transition is allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusRealized || s == StatusCancelled
}

const (
	ShiftMorning   = "Manhã"
	ShiftAfternoon = "Tarde"
	ShiftNight     = "Noite"
	ShiftUnknown   = "Indefinido"
)

func ValidShift(s string) bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftNight, ShiftUnknown:
		return true
	}
	return false
}

// Appointment is one scheduled or completed pickup. ZoneID is copied from the
// client's address when the appointment is created.
type Appointment struct {
	ID            uint              `gorm:"primaryKey" json:"id_agendamento"`
	ClientID      uint              `gorm:"not null;index" json:"id_cliente"`
	ZoneID        uint              `gorm:"not null;index" json:"id_zona"`
	UserID        *uint             `gorm:"index" json:"id_usuario"`
	ScheduledDate time.Time         `gorm:"type:date;not null;index" json:"dia_agendado"`
	Shift         string            `gorm:"size:20;not null" json:"turno_agendado"`
	Notes         string            `gorm:"type:text" json:"observacoes"`
	Status        AppointmentStatus `gorm:"size:20;not null;index" json:"status"`
	RealizedDate  *time.Time        `gorm:"type:date;index" json:"dia_realizado"`
	RealizedTime  *string           `gorm:"size:8" json:"horario_realizado"`

	Client *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT" json:"cliente,omitempty"`
	Zone   *Zone   `gorm:"foreignKey:ZoneID;constraint:OnDelete:RESTRICT" json:"zona,omitempty"`
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"usuario,omitempty"`

	CreatedAt time.Time `json:"criado_em"`
	UpdatedAt time.Time `json:"atualizado_em"`
}

func (Appointment) TableName() string { return "agendamentos" }

// EffectiveDate is the realized date once there is one, else the scheduled date.
func (a Appointment) EffectiveDate() time.Time {
	if a.RealizedDate != nil {
		return *a.RealizedDate
	}
	return a.ScheduledDate
}
