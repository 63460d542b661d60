package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pcp-service/internal/store"
	"pcp-service/pkg/logger"
	"pcp-service/prometheus"
)

// EntityHandler serves the generic CRUD surface every dashboard page binds
// to. The entity name in the path selects the catalog entry; the adapter
// decides which backend actually holds the rows.
type EntityHandler struct {
	Adapter *store.Adapter
}

// NewEntityHandler builds an entity handler over the backend adapter
func NewEntityHandler(adapter *store.Adapter) *EntityHandler {
	return &EntityHandler{Adapter: adapter}
}

// List handles retrieving all rows for an entity
func (h *EntityHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	entity := c.Param("entity")

	defer prometheus.TrackBackendOperation("list")(time.Now())
	records, err := h.Adapter.List(c.Request().Context(), entity)
	if err != nil {
		return h.writeStoreError(c, "list", entity, err)
	}

	prometheus.BackendOperationCounter.WithLabelValues("list", "ok").Inc()
	log.Info("Entity rows listed", zap.String("entity", entity), zap.Int("count", len(records)))
	return c.JSON(http.StatusOK, records)
}

// Create handles inserting one record
func (h *EntityHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	entity := c.Param("entity")

	record := store.Record{}
	if err := c.Bind(&record); err != nil {
		log.Error("Invalid record payload", zap.String("entity", entity), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if len(record) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty record"})
	}

	defer prometheus.TrackBackendOperation("insert")(time.Now())
	stored, err := h.Adapter.Insert(c.Request().Context(), entity, record)
	if err != nil {
		return h.writeStoreError(c, "insert", entity, err)
	}

	prometheus.BackendOperationCounter.WithLabelValues("insert", "ok").Inc()
	log.Info("Entity record created", zap.String("entity", entity))
	return c.JSON(http.StatusCreated, stored)
}

// Update handles patching one record by id
func (h *EntityHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	entity := c.Param("entity")
	id := c.Param("id")

	patch := store.Record{}
	if err := c.Bind(&patch); err != nil {
		log.Error("Invalid patch payload",
			zap.String("entity", entity),
			zap.String("id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if len(patch) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty patch"})
	}

	defer prometheus.TrackBackendOperation("update")(time.Now())
	stored, err := h.Adapter.Update(c.Request().Context(), entity, id, patch)
	if err != nil {
		return h.writeStoreError(c, "update", entity, err)
	}

	prometheus.BackendOperationCounter.WithLabelValues("update", "ok").Inc()
	log.Info("Entity record updated", zap.String("entity", entity), zap.String("id", id))
	return c.JSON(http.StatusOK, stored)
}

// Delete handles removing one record by id
func (h *EntityHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	entity := c.Param("entity")
	id := c.Param("id")

	defer prometheus.TrackBackendOperation("delete")(time.Now())
	if err := h.Adapter.Delete(c.Request().Context(), entity, id); err != nil {
		return h.writeStoreError(c, "delete", entity, err)
	}

	prometheus.BackendOperationCounter.WithLabelValues("delete", "ok").Inc()
	log.Info("Entity record deleted", zap.String("entity", entity), zap.String("id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "record deleted"})
}

// writeStoreError maps adapter errors onto HTTP responses. Configuration
// problems point the user at settings; upstream failures carry the upstream
// status through untouched.
func (h *EntityHandler) writeStoreError(c echo.Context, operation, entity string, err error) error {
	log := logger.FromContext(c)
	prometheus.BackendOperationCounter.WithLabelValues(operation, "error").Inc()

	var unknown *store.UnknownEntityError
	if errors.As(err, &unknown) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}

	var notConfigured *store.NotConfiguredError
	if errors.As(err, &notConfigured) {
		log.Warn("Backend not configured",
			zap.String("entity", entity),
			zap.String("service", notConfigured.Service))
		return c.JSON(http.StatusPreconditionFailed, echo.Map{"error": err.Error()})
	}

	if errors.Is(err, store.ErrNotSupported) {
		return c.JSON(http.StatusMethodNotAllowed, echo.Map{"error": err.Error()})
	}

	var remote *store.RemoteError
	if errors.As(err, &remote) {
		log.Error("Backend request failed",
			zap.String("entity", entity),
			zap.String("operation", operation),
			zap.Int("upstream_status", remote.Status))
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":           "backend request failed",
			"upstream_status": remote.Status,
			"detail":          remote.Message,
		})
	}

	log.Error("Backend operation failed",
		zap.String("entity", entity),
		zap.String("operation", operation),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "backend request failed"})
}
