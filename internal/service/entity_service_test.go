package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clinrx/clinrx-api/internal/domain/medicine"
	"github.com/clinrx/clinrx-api/internal/domain/patient"
	"github.com/clinrx/clinrx-api/internal/domain/pharmacy"
	"github.com/clinrx/clinrx-api/internal/service"
	"github.com/clinrx/clinrx-api/internal/storage"
	"github.com/clinrx/clinrx-api/internal/testutil"
)

func newMedicineService(t *testing.T) (*service.EntityService[medicine.Medicine, *medicine.Medicine], *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()
	collector := testutil.NewCollector()

	store := storage.NewStore[medicine.Medicine, *medicine.Medicine](
		db, log, collector, "medicines",
		storage.WithCascade(storage.CascadeMedicine),
	)
	return service.NewEntityService[medicine.Medicine, *medicine.Medicine](
		"Medicine", store, service.NewValidator(), log, collector,
	), db
}

func newPharmacyService(t *testing.T) *service.EntityService[pharmacy.Pharmacy, *pharmacy.Pharmacy] {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()
	collector := testutil.NewCollector()

	store := storage.NewStore[pharmacy.Pharmacy, *pharmacy.Pharmacy](
		db, log, collector, "pharmacies",
		storage.WithCascade(storage.CascadePharmacy),
	)
	return service.NewEntityService[pharmacy.Pharmacy, *pharmacy.Pharmacy](
		"Pharmacy", store, service.NewValidator(), log, collector,
	)
}

func TestCreateGetRoundTrip(t *testing.T) {
	svc, _ := newMedicineService(t)
	ctx := context.Background()

	in := &medicine.Medicine{Name: "  Amoxicillin  ", Description: "Antibiotic", Price: decimal.RequireFromString("12.50")}
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected server-assigned id")
	}
	if created.Name != "Amoxicillin" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != created.Name || got.Description != created.Description {
		t.Errorf("round trip mismatch: %+v vs %+v", got, created)
	}
	if !got.Price.Equal(created.Price) {
		t.Errorf("price round trip mismatch: %s vs %s", got.Price, created.Price)
	}
	if got.RowVersion != created.RowVersion {
		t.Errorf("version mismatch: %d vs %d", got.RowVersion, created.RowVersion)
	}
}

func TestCreateNegativePriceFailsValidation(t *testing.T) {
	svc, db := newMedicineService(t)

	in := &medicine.Medicine{Name: "Bad", Price: decimal.RequireFromString("-1.00")}
	_, err := svc.Create(context.Background(), in)

	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	found := false
	for _, f := range verr.Fields {
		if f.Field == "price" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a violation citing the price field, got %+v", verr.Fields)
	}

	var n int64
	if err := db.Model(&medicine.Medicine{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("invalid input must not reach storage, found %d rows", n)
	}
}

func TestCreateMissingNameFailsValidation(t *testing.T) {
	svc, _ := newMedicineService(t)

	in := &medicine.Medicine{Price: decimal.RequireFromString("1.00")}
	_, err := svc.Create(context.Background(), in)

	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields[0].Field != "name" {
		t.Errorf("expected name violation, got %+v", verr.Fields)
	}
}

func TestCreateNormalizesPriceScale(t *testing.T) {
	svc, _ := newMedicineService(t)
	ctx := context.Background()

	in := &medicine.Medicine{Name: "Rounded", Price: decimal.RequireFromString("19.995")}
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	want := decimal.RequireFromString("20.00")
	if !created.Price.Equal(want) {
		t.Errorf("expected price normalized to %s, got %s", want, created.Price)
	}

	// Retrieval observes the identical stored value.
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Price.Equal(want) {
		t.Errorf("stored price drifted: %s", got.Price)
	}
}

func TestUpdateIDMismatchIsBadRequest(t *testing.T) {
	svc, _ := newMedicineService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &medicine.Medicine{Name: "Original", Price: decimal.RequireFromString("5.00")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Path id and body id disagree; nothing may be written.
	body := &medicine.Medicine{Name: "Mismatch", Price: decimal.RequireFromString("9.99")}
	body.ID = created.ID + 2
	body.RowVersion = created.RowVersion

	err = svc.Update(ctx, created.ID, body)
	if !errors.Is(err, service.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Original" {
		t.Errorf("storage mutated on bad request: %+v", got)
	}
}

func TestUpdateStaleTokenConflict(t *testing.T) {
	svc, _ := newMedicineService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &medicine.Medicine{Name: "v1", Price: decimal.RequireFromString("5.00")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first := &medicine.Medicine{Name: "v2", Price: decimal.RequireFromString("5.00")}
	first.ID = created.ID
	first.RowVersion = created.RowVersion
	if err := svc.Update(ctx, created.ID, first); err != nil {
		t.Fatalf("first update: %v", err)
	}

	stale := &medicine.Medicine{Name: "v2-lost", Price: decimal.RequireFromString("5.00")}
	stale.ID = created.ID
	stale.RowVersion = created.RowVersion // token from before the first update
	err = svc.Update(ctx, created.ID, stale)
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdateDeletedRowIsNotFound(t *testing.T) {
	// A pharmacy deleted by a concurrent request just before the update
	// transaction starts reports NotFound, not Conflict.
	svc := newPharmacyService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &pharmacy.Pharmacy{Name: "Main St Pharmacy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	upd := &pharmacy.Pharmacy{Name: "Renamed"}
	upd.ID = created.ID
	upd.RowVersion = created.RowVersion
	err = svc.Update(ctx, created.ID, upd)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPharmacyEmailValidation(t *testing.T) {
	svc := newPharmacyService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &pharmacy.Pharmacy{Name: "P", Email: "not-an-email"})
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields[0].Field != "email" {
		t.Errorf("expected email violation, got %+v", verr.Fields)
	}

	// Email is optional; empty passes.
	if _, err := svc.Create(ctx, &pharmacy.Pharmacy{Name: "P"}); err != nil {
		t.Fatalf("create without email: %v", err)
	}
}

func TestPatientRequiresDateOfBirth(t *testing.T) {
	db := testutil.NewDB(t)
	log := zap.NewNop()
	collector := testutil.NewCollector()
	store := storage.NewStore[patient.Patient, *patient.Patient](db, log, collector, "patients")
	svc := service.NewEntityService[patient.Patient, *patient.Patient]("Patient", store, service.NewValidator(), log, collector)

	_, err := svc.Create(context.Background(), &patient.Patient{Name: "Jane Doe"})
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields[0].Field != "dateOfBirth" {
		t.Errorf("expected dateOfBirth violation, got %+v", verr.Fields)
	}

	ok := &patient.Patient{Name: "Jane Doe", DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
	if _, err := svc.Create(context.Background(), ok); err != nil {
		t.Fatalf("valid patient rejected: %v", err)
	}
}
