package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pcp-service/internal/store"
	"pcp-service/pkg/logger"
)

// summaryEntities are the collections the dashboard's headline widgets count
var summaryEntities = []string{"products", "employees", "production_orders", "shipping_entries"}

// DashboardHandler computes the headline widget numbers
type DashboardHandler struct {
	Adapter *store.Adapter
}

// NewDashboardHandler builds a dashboard handler over the backend adapter
func NewDashboardHandler(adapter *store.Adapter) *DashboardHandler {
	return &DashboardHandler{Adapter: adapter}
}

// Summary returns row counts per headline entity. A backend failure zeroes
// the affected widget instead of failing the whole dashboard.
func (h *DashboardHandler) Summary(c echo.Context) error {
	log := logger.FromContext(c)

	counts := echo.Map{}
	for _, entity := range summaryEntities {
		records, err := h.Adapter.List(c.Request().Context(), entity)
		if err != nil {
			log.Warn("Dashboard count unavailable",
				zap.String("entity", entity),
				zap.Error(err))
			counts[entity] = 0
			continue
		}
		counts[entity] = len(records)
	}

	return c.JSON(http.StatusOK, counts)
}
