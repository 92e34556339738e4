package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/merchant-dashboard/internal/service"
	"github.com/suteetoe/merchant-dashboard/pkg/logger"
)

type MerchantHandler struct {
	merchants *service.MerchantService
}

func NewMerchantHandler(merchants *service.MerchantService) *MerchantHandler {
	return &MerchantHandler{merchants: merchants}
}

// GetMerchant returns the caller's profile, creating the default one on first visit
func (h *MerchantHandler) GetMerchant(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "get merchant")
	}

	merchant, err := h.merchants.GetOrCreate(c.Request().Context(), identity.UserID, identity.Email)
	if err != nil {
		return respondError(c, err, "get merchant")
	}
	return c.JSON(http.StatusOK, merchant)
}

func (h *MerchantHandler) UpdateMerchant(c echo.Context) error {
	log := logger.FromEcho(c)
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "update merchant")
	}

	var req service.ProfileInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	merchant, err := h.merchants.UpdateProfile(c.Request().Context(), identity.UserID, identity.Email, req)
	if err != nil {
		return respondError(c, err, "update merchant")
	}

	log.Info("Merchant profile updated",
		zap.String("shop_name", merchant.ShopName),
		zap.Bool("is_open", merchant.IsOpen),
		zap.Int("eta_minutes", merchant.ETAMinutes))
	return c.JSON(http.StatusOK, merchant)
}

func (h *MerchantHandler) UploadLogo(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "upload logo")
	}

	upload, err := readUpload(c)
	if err != nil {
		return respondError(c, err, "upload logo")
	}

	merchant, err := h.merchants.UploadLogo(c.Request().Context(), identity.UserID, identity.Email, upload)
	if err != nil {
		return respondError(c, err, "upload logo")
	}

	logger.FromEcho(c).Info("Logo uploaded", zap.Int("bytes", len(upload.Data)))
	return c.JSON(http.StatusOK, merchant)
}
