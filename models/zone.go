package models

import (
	"time"

	"gorm.io/datatypes"
)

// Zone groups clients that share a weekly collection pattern.
// Days holds weekday labels as a JSON array, e.g. ["seg","qua"].
type Zone struct {
	ID                  uint           `gorm:"primaryKey" json:"id_zona"`
	Name                string         `gorm:"size:120;uniqueIndex;not null" json:"nome_da_zona"`
	Color               string         `gorm:"size:30" json:"cor"`
	ExpectedCollections int            `gorm:"not null;default:0" json:"qtd_coletas_esperadas"`
	Days                datatypes.JSON `json:"dias"`

	CreatedAt time.Time `json:"criado_em"`
	UpdatedAt time.Time `json:"atualizado_em"`
}

func (Zone) TableName() string { return "zonas" }
