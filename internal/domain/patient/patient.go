package patient

import (
	"strings"
	"time"

	"github.com/clinrx/clinrx-api/internal/domain"
)

type Patient struct {
	domain.Model

	Name        string    `gorm:"column:name;type:varchar(100);not null" json:"name" validate:"required,max=100"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null" json:"dateOfBirth" validate:"required"`
	Gender      string    `gorm:"column:gender;type:varchar(20)" json:"gender" validate:"max=20"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Gender = strings.TrimSpace(p.Gender)
}
