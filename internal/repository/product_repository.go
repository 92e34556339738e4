package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/ports"
	"github.com/suteetoe/merchant-dashboard/prometheus"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("product_create")(time.Now())
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	defer prometheus.TrackDBOperation("product_find")(time.Now())

	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func productQuery(db *gorm.DB, merchantID string, filter ports.ProductFilter) *gorm.DB {
	query := db.Model(&model.Product{}).Where("merchant_id = ?", merchantID)

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.LowStock {
		query = query.Where("is_active = ? AND stock <= ?", true, model.LowStockThreshold)
	}
	return query.Order("created_at DESC")
}

func (r *ProductRepository) List(ctx context.Context, merchantID string, filter ports.ProductFilter) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("product_list")(time.Now())

	products := make([]model.Product, 0)
	if err := productQuery(r.db.WithContext(ctx), merchantID, filter).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Save(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("product_save")(time.Now())
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("product_delete")(time.Now())

	result := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProductRepository) UpdateImage(ctx context.Context, id, imageURL string) error {
	defer prometheus.TrackDBOperation("product_update_image")(time.Now())

	result := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("image_url", imageURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
