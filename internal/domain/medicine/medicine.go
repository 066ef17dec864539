package medicine

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/clinrx/clinrx-api/internal/domain"
)

// Medicine is a dispensable drug. Price is a fixed-point decimal with two
// fractional digits; it is never held as a binary float.
type Medicine struct {
	domain.Model

	Name        string          `gorm:"column:name;type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Description string          `gorm:"column:description;type:varchar(255)" json:"description" validate:"max=255"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(18,2);not null" json:"price" validate:"gte=0"`
}

func (Medicine) TableName() string {
	return "medicines"
}

// Normalize trims free-text fields and snaps the price to two fractional
// digits, rounding half away from zero. Over-precise input such as 19.995 is
// therefore stored as 20.00 and reads back identically.
func (m *Medicine) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Description = strings.TrimSpace(m.Description)
	m.Price = m.Price.Round(2)
}
