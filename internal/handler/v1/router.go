package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinrx/clinrx-api/internal/config"
	"github.com/clinrx/clinrx-api/internal/domain/medicine"
	"github.com/clinrx/clinrx-api/internal/domain/patient"
	"github.com/clinrx/clinrx-api/internal/domain/pharmacy"
	"github.com/clinrx/clinrx-api/internal/domain/physician"
	"github.com/clinrx/clinrx-api/internal/domain/prescription"
	"github.com/clinrx/clinrx-api/internal/middleware"
	"github.com/clinrx/clinrx-api/internal/service"
	"github.com/clinrx/clinrx-api/pkg/metrics"
)

// Services is the explicitly constructed graph of entity services handed to
// the boundary; nothing here is looked up from globals.
type Services struct {
	Medicines     *service.EntityService[medicine.Medicine, *medicine.Medicine]
	Patients      *service.EntityService[patient.Patient, *patient.Patient]
	Physicians    *service.EntityService[physician.Physician, *physician.Physician]
	Pharmacies    *service.EntityService[pharmacy.Pharmacy, *pharmacy.Pharmacy]
	Prescriptions *service.EntityService[prescription.Prescription, *prescription.Prescription]
	Details       *service.EntityService[prescription.PrescriptionDetail, *prescription.PrescriptionDetail]
}

func NewRouter(cfg *config.Config, log *zap.Logger, collector *metrics.Collector, svcs *Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RateLimit(cfg.RateLimit))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api")
	NewEntityHandler("Medicine", svcs.Medicines, log).Register(api)
	NewEntityHandler("Patient", svcs.Patients, log).Register(api)
	NewEntityHandler("Physician", svcs.Physicians, log).Register(api)
	NewEntityHandler("Pharmacy", svcs.Pharmacies, log).Register(api)
	NewEntityHandler("Prescription", svcs.Prescriptions, log).Register(api)
	NewEntityHandler("PrescriptionDetail", svcs.Details, log).Register(api)

	return r
}
