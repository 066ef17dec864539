package pharmacy

import (
	"strings"

	"github.com/clinrx/clinrx-api/internal/domain"
)

type Pharmacy struct {
	domain.Model

	Name    string `gorm:"column:name;type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Address string `gorm:"column:address;type:varchar(255)" json:"address" validate:"max=255"`
	Email   string `gorm:"column:email;type:varchar(255)" json:"email" validate:"omitempty,email"`
}

func (Pharmacy) TableName() string {
	return "pharmacies"
}

func (p *Pharmacy) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
}
