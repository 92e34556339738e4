// Package repository implements the ports on PostgreSQL through GORM.
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/prometheus"
)

type MerchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

// GetOrCreate inserts defaults unless a row with the same id exists, then
// reads the stored row back. The bool reports whether this call inserted it.
func (r *MerchantRepository) GetOrCreate(ctx context.Context, defaults *model.Merchant) (*model.Merchant, bool, error) {
	defer prometheus.TrackDBOperation("merchant_get_or_create")(time.Now())

	result := getOrCreateInsert(r.db.WithContext(ctx), defaults)
	if result.Error != nil {
		return nil, false, result.Error
	}

	var merchant model.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, "id = ?", defaults.ID).Error; err != nil {
		return nil, false, err
	}
	return &merchant, result.RowsAffected > 0, nil
}

func getOrCreateInsert(db *gorm.DB, defaults *model.Merchant) *gorm.DB {
	return db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(defaults)
}

// profileColumns are the fields owned by the profile form. logo_url is
// written only by UpdateLogo.
var profileColumns = []string{"shop_name", "address", "phone", "is_open", "eta_minutes", "updated_at"}

func profileUpdate(db *gorm.DB, merchant *model.Merchant) *gorm.DB {
	return db.Model(&model.Merchant{}).
		Where("id = ?", merchant.ID).
		Select(profileColumns).
		Updates(merchant)
}

func (r *MerchantRepository) UpdateProfile(ctx context.Context, merchant *model.Merchant) error {
	defer prometheus.TrackDBOperation("merchant_update_profile")(time.Now())

	result := profileUpdate(r.db.WithContext(ctx), merchant)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MerchantRepository) UpdateLogo(ctx context.Context, id, logoURL string) error {
	defer prometheus.TrackDBOperation("merchant_update_logo")(time.Now())

	result := r.db.WithContext(ctx).Model(&model.Merchant{}).Where("id = ?", id).Update("logo_url", logoURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
