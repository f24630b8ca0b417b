package models

import "time"

// User is a collector or analyst working the routes. Only administrators
// hold session tokens.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id_usuario"`
	Name         string `gorm:"size:150;not null" json:"nome"`
	Email        string `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"size:40;not null" json:"tipo_usuario"`

	CreatedAt time.Time `json:"criado_em"`
	UpdatedAt time.Time `json:"atualizado_em"`
}

func (User) TableName() string { return "usuarios" }
