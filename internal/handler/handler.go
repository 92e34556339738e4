package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/merchant-dashboard/internal/order"
	"github.com/suteetoe/merchant-dashboard/internal/service"
	"github.com/suteetoe/merchant-dashboard/pkg/logger"
	"github.com/suteetoe/merchant-dashboard/pkg/middleware"
	"github.com/suteetoe/merchant-dashboard/pkg/session"
	"github.com/suteetoe/merchant-dashboard/pkg/storage"
)

const genericErrorMessage = "something went wrong, please try again"

// callerIdentity returns the identity resolved by the auth middleware
func callerIdentity(c echo.Context) (session.Identity, error) {
	identity, ok := middleware.IdentityFromEcho(c)
	if !ok || identity.UserID == "" {
		return session.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return identity, nil
}

// respondError maps service errors onto HTTP responses. Anything it does not
// recognise is logged and reported with a generic message.
func respondError(c echo.Context, err error, action string) error {
	log := logger.FromEcho(c)

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return c.JSON(httpErr.Code, echo.Map{"error": httpErr.Message})
	case service.IsValidation(err):
		log.Info("Validation failed", zap.String("action", action), zap.String("reason", err.Error()))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, order.ErrInvalidTransition):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		log.Warn("Ownership check failed", zap.String("action", action))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you do not have access to this resource"})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}

	log.Error("Request failed", zap.String("action", action), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": genericErrorMessage})
}

// readUpload reads the multipart "file" field, stopping just past the size
// limit so oversized files are still rejected by validation
func readUpload(c echo.Context) (service.Upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return service.Upload{}, echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
	if err != nil {
		return service.Upload{}, fmt.Errorf("read upload: %w", err)
	}

	return service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
