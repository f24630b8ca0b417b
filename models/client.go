package models

import "time"

type ClientType string

const (
	LargeGenerator ClientType = "GRANDE_GERADOR"
	SmallGenerator ClientType = "PEQUENO_GERADOR"
)

func (t ClientType) Valid() bool {
	return t == LargeGenerator || t == SmallGenerator
}

type Client struct {
	ID        uint       `gorm:"primaryKey" json:"id_cliente"`
	Name      string     `gorm:"size:150;not null;index" json:"nome_cliente"`
	Type      ClientType `gorm:"size:20;not null" json:"tipo"`
	Phone     string     `gorm:"size:20;uniqueIndex;not null" json:"telefone_cliente"`
	QRCode    string     `gorm:"size:40;uniqueIndex;not null" json:"qr_code"`
	AddressID uint       `gorm:"not null;index" json:"id_endereco"`
	Address   *Address   `gorm:"foreignKey:AddressID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"endereco,omitempty"`

	CreatedAt time.Time `json:"criado_em"`
	UpdatedAt time.Time `json:"atualizado_em"`
}

func (Client) TableName() string { return "clientes" }
