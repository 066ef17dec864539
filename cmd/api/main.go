package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/clinrx/clinrx-api/internal/config"
	"github.com/clinrx/clinrx-api/internal/domain/medicine"
	"github.com/clinrx/clinrx-api/internal/domain/patient"
	"github.com/clinrx/clinrx-api/internal/domain/pharmacy"
	"github.com/clinrx/clinrx-api/internal/domain/physician"
	"github.com/clinrx/clinrx-api/internal/domain/prescription"
	v1 "github.com/clinrx/clinrx-api/internal/handler/v1"
	"github.com/clinrx/clinrx-api/internal/service"
	"github.com/clinrx/clinrx-api/internal/storage"
	"github.com/clinrx/clinrx-api/pkg/database"
	"github.com/clinrx/clinrx-api/pkg/logger"
	"github.com/clinrx/clinrx-api/pkg/metrics"
	"github.com/clinrx/clinrx-api/pkg/tracer"
)

func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("initializing tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("connecting to database", zap.Error(err))
	}
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("migrating database", zap.Error(err))
	}

	collector := metrics.NewCollector(cfg.App.MetricsNamespace, prometheus.DefaultRegisterer)
	if sqlDB, err := db.DB(); err == nil {
		go func() {
			for range time.Tick(15 * time.Second) {
				collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			}
		}()
	}

	validate := service.NewValidator()

	// The service graph is built once here and passed by reference; there is
	// no global container.
	medicineStore := storage.NewStore[medicine.Medicine, *medicine.Medicine](
		db, zlog, collector, "medicines",
		storage.WithCascade(storage.CascadeMedicine),
	)
	patientStore := storage.NewStore[patient.Patient, *patient.Patient](
		db, zlog, collector, "patients",
		storage.WithCascade(storage.CascadePatient),
	)
	physicianStore := storage.NewStore[physician.Physician, *physician.Physician](
		db, zlog, collector, "physicians",
		storage.WithCascade(storage.CascadePhysician),
	)
	pharmacyStore := storage.NewStore[pharmacy.Pharmacy, *pharmacy.Pharmacy](
		db, zlog, collector, "pharmacies",
		storage.WithCascade(storage.CascadePharmacy),
	)
	prescriptionStore := storage.NewStore[prescription.Prescription, *prescription.Prescription](
		db, zlog, collector, "prescriptions",
		storage.WithPreloads("Patient", "Physician", "Pharmacy", "Details.Medicine"),
		storage.WithCascade(storage.CascadePrescription),
	)
	detailStore := storage.NewStore[prescription.PrescriptionDetail, *prescription.PrescriptionDetail](
		db, zlog, collector, "prescription_details",
		storage.WithPreloads("Prescription", "Medicine"),
	)

	svcs := &v1.Services{
		Medicines:     service.NewEntityService[medicine.Medicine, *medicine.Medicine]("Medicine", medicineStore, validate, zlog, collector),
		Patients:      service.NewEntityService[patient.Patient, *patient.Patient]("Patient", patientStore, validate, zlog, collector),
		Physicians:    service.NewEntityService[physician.Physician, *physician.Physician]("Physician", physicianStore, validate, zlog, collector),
		Pharmacies:    service.NewEntityService[pharmacy.Pharmacy, *pharmacy.Pharmacy]("Pharmacy", pharmacyStore, validate, zlog, collector),
		Prescriptions: service.NewEntityService[prescription.Prescription, *prescription.Prescription]("Prescription", prescriptionStore, validate, zlog, collector),
		Details:       service.NewEntityService[prescription.PrescriptionDetail, *prescription.PrescriptionDetail]("PrescriptionDetail", detailStore, validate, zlog, collector),
	}

	gin.SetMode(cfg.Server.Mode)
	router := v1.NewRouter(cfg, zlog, collector, svcs)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
	zlog.Info("server stopped")
}
