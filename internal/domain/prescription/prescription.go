// Package prescription holds the Prescription aggregate: the prescription
// row and its owned detail lines. The two types live together because they
// form one consistency unit for cascade and transactional purposes.
package prescription

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clinrx/clinrx-api/internal/domain"
	"github.com/clinrx/clinrx-api/internal/domain/medicine"
	"github.com/clinrx/clinrx-api/internal/domain/patient"
	"github.com/clinrx/clinrx-api/internal/domain/pharmacy"
	"github.com/clinrx/clinrx-api/internal/domain/physician"
)

// Prescription references exactly one patient, physician and pharmacy. The
// foreign keys are nullable at the type level to model the intake flow, but
// validation treats all of them as mandatory; the database rejects values
// that do not resolve to an existing row.
type Prescription struct {
	domain.Model

	Date      time.Time       `gorm:"column:date;not null" json:"date" validate:"required"`
	TotalCost decimal.Decimal `gorm:"column:total_cost;type:numeric(18,2);not null" json:"totalCost" validate:"gte=0"`

	PatientID   *uint `gorm:"column:patient_id;index" json:"patientId" validate:"required,gt=0"`
	PhysicianID *uint `gorm:"column:physician_id;index" json:"physicianId" validate:"required,gt=0"`
	PharmacyID  *uint `gorm:"column:pharmacy_id;index" json:"pharmacyId" validate:"required,gt=0"`

	Patient   *patient.Patient     `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"patient,omitempty" validate:"-"`
	Physician *physician.Physician `gorm:"foreignKey:PhysicianID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"physician,omitempty" validate:"-"`
	Pharmacy  *pharmacy.Pharmacy   `gorm:"foreignKey:PharmacyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"pharmacy,omitempty" validate:"-"`

	Details []PrescriptionDetail `gorm:"foreignKey:PrescriptionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"prescriptionDetails" validate:"-"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

func (p *Prescription) Normalize() {
	p.TotalCost = p.TotalCost.Round(2)
}

// PrescriptionDetail is one line of a prescription: a medicine and how much
// of it. It is owned by its prescription and removed with it.
type PrescriptionDetail struct {
	domain.Model

	PrescriptionID *uint  `gorm:"column:prescription_id;index" json:"prescriptionId" validate:"required,gt=0"`
	MedicineID     *uint  `gorm:"column:medicine_id;index" json:"medicineId" validate:"required,gt=0"`
	Quantity       int    `gorm:"column:quantity;not null" json:"quantity" validate:"required,gte=1"`
	Dosage         string `gorm:"column:dosage;type:varchar(255)" json:"dosage" validate:"max=255"`

	Prescription *Prescription      `gorm:"foreignKey:PrescriptionID" json:"prescription,omitempty" validate:"-"`
	Medicine     *medicine.Medicine `gorm:"foreignKey:MedicineID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"medicine,omitempty" validate:"-"`
}

func (PrescriptionDetail) TableName() string {
	return "prescription_details"
}

func (d *PrescriptionDetail) Normalize() {
	d.Dosage = strings.TrimSpace(d.Dosage)
}
