package storage

import (
	"gorm.io/gorm"

	"github.com/clinrx/clinrx-api/internal/domain/prescription"
)

// Cascade rules, children before parents. Deleting a patient, physician or
// pharmacy removes their prescriptions and the detail lines of those
// prescriptions; deleting a medicine or a prescription removes the detail
// lines that reference it.

var (
	CascadePatient   = prescriptionOwnerCascade("patient_id")
	CascadePhysician = prescriptionOwnerCascade("physician_id")
	CascadePharmacy  = prescriptionOwnerCascade("pharmacy_id")
)

func prescriptionOwnerCascade(fkColumn string) CascadeFunc {
	return func(tx *gorm.DB, id uint) error {
		owned := tx.Session(&gorm.Session{NewDB: true}).
			Model(&prescription.Prescription{}).
			Select("id").
			Where(fkColumn+" = ?", id)

		if err := tx.Where("prescription_id IN (?)", owned).
			Delete(&prescription.PrescriptionDetail{}).Error; err != nil {
			return err
		}
		return tx.Where(fkColumn+" = ?", id).
			Delete(&prescription.Prescription{}).Error
	}
}

func CascadeMedicine(tx *gorm.DB, id uint) error {
	return tx.Where("medicine_id = ?", id).
		Delete(&prescription.PrescriptionDetail{}).Error
}

func CascadePrescription(tx *gorm.DB, id uint) error {
	return tx.Where("prescription_id = ?", id).
		Delete(&prescription.PrescriptionDetail{}).Error
}
