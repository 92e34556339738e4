package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/ports"
	"github.com/suteetoe/merchant-dashboard/pkg/logger"
	"github.com/suteetoe/merchant-dashboard/pkg/storage"
	"github.com/suteetoe/merchant-dashboard/prometheus"
)

// ProfileInput carries the profile fields a merchant may change. Nil fields
// are left as they are.
type ProfileInput struct {
	ShopName   *string `json:"shop_name"`
	Address    *string `json:"address"`
	Phone      *string `json:"phone"`
	IsOpen     *bool   `json:"is_open"`
	ETAMinutes *int    `json:"eta_minutes"`
}

func (in ProfileInput) validate() error {
	if in.ShopName != nil && strings.TrimSpace(*in.ShopName) == "" {
		return newValidationError("shop name cannot be empty")
	}
	if in.ETAMinutes != nil && (*in.ETAMinutes < model.MinETAMinutes || *in.ETAMinutes > model.MaxETAMinutes) {
		return newValidationError("eta_minutes must be between %d and %d", model.MinETAMinutes, model.MaxETAMinutes)
	}
	return nil
}

func (in ProfileInput) applyTo(m *model.Merchant) {
	if in.ShopName != nil {
		m.ShopName = strings.TrimSpace(*in.ShopName)
	}
	if in.Address != nil {
		m.Address = in.Address
	}
	if in.Phone != nil {
		m.Phone = in.Phone
	}
	if in.IsOpen != nil {
		m.IsOpen = *in.IsOpen
	}
	if in.ETAMinutes != nil {
		m.ETAMinutes = *in.ETAMinutes
	}
}

type MerchantService struct {
	merchants ports.MerchantRepository
	uploader  storage.Uploader
	now       func() time.Time
}

func NewMerchantService(merchants ports.MerchantRepository, uploader storage.Uploader) *MerchantService {
	return &MerchantService{merchants: merchants, uploader: uploader, now: time.Now}
}

// GetOrCreate returns the caller's merchant record, creating it with the
// default profile on first use
func (s *MerchantService) GetOrCreate(ctx context.Context, identity, email string) (*model.Merchant, error) {
	merchant, created, err := s.merchants.GetOrCreate(ctx, model.NewDefaultMerchant(identity, email))
	if err != nil {
		return nil, fmt.Errorf("get or create merchant: %w", err)
	}
	if created {
		prometheus.RecordMerchantCreated()
		logger.FromContext(ctx).Info("Merchant created with default profile", zap.String("merchant_id", identity))
	}
	return merchant, nil
}

// UpdateProfile applies in over the stored record, or over the defaults when
// the merchant has none yet
func (s *MerchantService) UpdateProfile(ctx context.Context, identity, email string, in ProfileInput) (*model.Merchant, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	merchant, err := s.GetOrCreate(ctx, identity, email)
	if err != nil {
		return nil, err
	}

	in.applyTo(merchant)
	merchant.UpdatedAt = s.now()

	if err := s.merchants.UpdateProfile(ctx, merchant); err != nil {
		return nil, fmt.Errorf("save merchant: %w", err)
	}
	return merchant, nil
}

// UploadLogo stores the image under {identity}/logo.{ext} and only then
// points the profile at it
func (s *MerchantService) UploadLogo(ctx context.Context, identity, email string, upload Upload) (*model.Merchant, error) {
	img, err := validateUpload(upload)
	if err != nil {
		prometheus.RecordUpload("logo", "rejected")
		return nil, err
	}

	merchant, err := s.GetOrCreate(ctx, identity, email)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, storage.LogoKey(identity, img.Ext), img.Data, img.ContentType)
	if err != nil {
		prometheus.RecordUpload("logo", "failure")
		return nil, fmt.Errorf("upload logo: %w", err)
	}

	if err := s.merchants.UpdateLogo(ctx, identity, url); err != nil {
		prometheus.RecordUpload("logo", "failure")
		return nil, fmt.Errorf("save logo url: %w", err)
	}
	prometheus.RecordUpload("logo", "success")

	merchant.LogoURL = &url
	return merchant, nil
}
