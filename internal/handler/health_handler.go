package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suteetoe/merchant-dashboard/pkg/storage"
)

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "merchant-dashboard",
	})
}

// ServeFiles serves objects held by the in-memory uploader
func ServeFiles(files *storage.MemoryUploader) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, contentType, ok := files.Get(c.Param("*"))
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.Blob(http.StatusOK, contentType, data)
	}
}
