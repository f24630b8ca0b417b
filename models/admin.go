package models

import "time"

// DefaultAdminID is the seeded account that can never be deleted.
const DefaultAdminID uint = 1

type Admin struct {
	ID           uint   `gorm:"primaryKey" json:"id_admin"`
	Name         string `gorm:"size:150;not null" json:"nome"`
	Email        string `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	MustReset    bool   `gorm:"not null;default:false" json:"precisa_redefinir"`

	CreatedAt time.Time `json:"criado_em"`
	UpdatedAt time.Time `json:"atualizado_em"`
}

func (Admin) TableName() string { return "admins" }
