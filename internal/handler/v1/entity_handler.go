package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinrx/clinrx-api/internal/domain"
	"github.com/clinrx/clinrx-api/internal/service"
)

// EntityHandler exposes one resource collection per entity type; every
// collection follows the same REST shape, so a single generic handler serves
// all six.
type EntityHandler[T any, PT domain.RecordPtr[T]] struct {
	name string
	svc  *service.EntityService[T, PT]
	log  *zap.Logger
}

func NewEntityHandler[T any, PT domain.RecordPtr[T]](name string, svc *service.EntityService[T, PT], log *zap.Logger) *EntityHandler[T, PT] {
	return &EntityHandler[T, PT]{name: name, svc: svc, log: log}
}

func (h *EntityHandler[T, PT]) Register(api *gin.RouterGroup) {
	g := api.Group("/" + h.name)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *EntityHandler[T, PT]) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *EntityHandler[T, PT]) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *EntityHandler[T, PT]) create(c *gin.Context) {
	var in T
	if !bindJSON(c, &in) {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/%s/%d", h.name, PT(created).PrimaryKey()))
	c.JSON(http.StatusCreated, created)
}

func (h *EntityHandler[T, PT]) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in T
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.Update(c.Request.Context(), id, &in); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EntityHandler[T, PT]) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
