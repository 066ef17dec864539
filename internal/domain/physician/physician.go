package physician

import (
	"strings"

	"github.com/clinrx/clinrx-api/internal/domain"
)

type Physician struct {
	domain.Model

	Name        string `gorm:"column:name;type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Specialty   string `gorm:"column:specialty;type:varchar(100)" json:"specialty" validate:"max=100"`
	ContactInfo string `gorm:"column:contact_info;type:varchar(255)" json:"contactInfo" validate:"max=255"`
}

func (Physician) TableName() string {
	return "physicians"
}

func (p *Physician) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Specialty = strings.TrimSpace(p.Specialty)
	p.ContactInfo = strings.TrimSpace(p.ContactInfo)
}
