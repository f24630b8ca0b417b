package models

type Address struct {
	ID           uint   `gorm:"primaryKey" json:"id_endereco"`
	Street       string `gorm:"size:200;not null" json:"nome_rua"`
	Neighborhood string `gorm:"size:120;not null" json:"bairro"`
	Number       string `gorm:"size:20;not null" json:"numero"`
	ZoneID       uint   `gorm:"not null;index" json:"id_zona"`
	Zone         *Zone  `gorm:"foreignKey:ZoneID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"zona,omitempty"`
}

func (Address) TableName() string { return "enderecos" }
