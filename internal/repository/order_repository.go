package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/order"
	"github.com/suteetoe/merchant-dashboard/internal/ports"
	"github.com/suteetoe/merchant-dashboard/prometheus"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	defer prometheus.TrackDBOperation("order_find")(time.Now())

	var o model.Order
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func statusStrings(statuses []order.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func orderQuery(db *gorm.DB, merchantID string, filter ports.OrderFilter) *gorm.DB {
	query := db.Model(&model.Order{}).Where("merchant_id = ?", merchantID)

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(filter.Statuses))
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	return query.Order("created_at DESC")
}

func (r *OrderRepository) List(ctx context.Context, merchantID string, filter ports.OrderFilter) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("order_list")(time.Now())

	orders := make([]model.Order, 0)
	if err := orderQuery(r.db.WithContext(ctx), merchantID, filter).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) CountByStatuses(ctx context.Context, merchantID string, statuses []order.Status) (int64, error) {
	defer prometheus.TrackDBOperation("order_count")(time.Now())

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("merchant_id = ? AND status IN ?", merchantID, statusStrings(statuses)).
		Count(&count).Error
	return count, err
}

func statusUpdate(db *gorm.DB, id string, status order.Status, expectedVersion int) *gorm.DB {
	query := db.Model(&model.Order{}).Where("id = ?", id)
	if expectedVersion > 0 {
		query = query.Where("version = ?", expectedVersion)
	}
	return query.Updates(map[string]interface{}{
		"status":     string(status),
		"version":    gorm.Expr("version + 1"),
		"updated_at": time.Now(),
	})
}

// UpdateStatus is a single conditional UPDATE. When no row matches, the order
// is read again to tell a missing order from a stale version.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status, expectedVersion int) (*model.Order, error) {
	defer prometheus.TrackDBOperation("order_update_status")(time.Now())

	result := statusUpdate(r.db.WithContext(ctx), id, status, expectedVersion)
	if result.Error != nil {
		return nil, result.Error
	}

	current, err := r.FindByID(ctx, id)
	if err != nil || current == nil {
		return current, err
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrVersionConflict
	}
	return current, nil
}
