package inkwell

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleDashboardStats returns the content counters plus archive breakdown
// for the admin dashboard.
func (a *App) handleDashboardStats(c echo.Context) error {
	stats, err := a.store.Stats(c.Request().Context())
	if err != nil {
		return storeError(c, err, "")
	}
	archive, err := a.store.ArchiveStatistics(c.Request().Context())
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"stats":   stats,
		"archive": archive,
	})
}
