package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/order"
	"github.com/suteetoe/merchant-dashboard/internal/ports"
	"github.com/suteetoe/merchant-dashboard/pkg/logger"
	"github.com/suteetoe/merchant-dashboard/prometheus"
)

// StatusChange requests a new status. Version, when non-zero, must equal the
// order's current version or the change is refused as a conflict. Under the
// strict policy an omitted version is pinned to the version the transition
// was checked against.
type StatusChange struct {
	Status  string `json:"status"`
	Version int    `json:"version"`
}

type OrderService struct {
	orders ports.OrderRepository
	policy order.Policy
}

func NewOrderService(orders ports.OrderRepository, policy order.Policy) *OrderService {
	return &OrderService{orders: orders, policy: policy}
}

func (s *OrderService) List(ctx context.Context, identity string, filter ports.OrderFilter) ([]model.Order, error) {
	orders, err := s.orders.List(ctx, identity, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, identity, id string) (*model.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if o == nil {
		return nil, ErrNotFound
	}
	if o.MerchantID != identity {
		return nil, ErrForbidden
	}
	return o, nil
}

// UpdateStatus moves an order to a new status under the configured policy
func (s *OrderService) UpdateStatus(ctx context.Context, identity, id string, change StatusChange) (*model.Order, error) {
	log := logger.FromContext(ctx).With(zap.String("order_id", id))

	to, err := order.ParseStatus(change.Status)
	if err != nil {
		return nil, validationError{message: err.Error()}
	}

	current, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if change.Version > 0 && change.Version != current.Version {
		prometheus.RecordOrderTransition(string(to), "conflict")
		return nil, fmt.Errorf("%w: order is at version %d", ErrConflict, current.Version)
	}

	if err := s.policy.CanTransition(current.Status, to); err != nil {
		prometheus.RecordOrderTransition(string(to), "rejected")
		log.Info("Order status change rejected",
			zap.String("from", string(current.Status)),
			zap.String("to", string(to)))
		return nil, err
	}

	expected := change.Version
	if expected == 0 && s.policy.Strict() {
		expected = current.Version
	}

	updated, err := s.orders.UpdateStatus(ctx, id, to, expected)
	switch {
	case errors.Is(err, ports.ErrVersionConflict):
		prometheus.RecordOrderTransition(string(to), "conflict")
		return nil, fmt.Errorf("%w: order was changed by someone else", ErrConflict)
	case err != nil:
		prometheus.RecordOrderTransition(string(to), "failure")
		return nil, fmt.Errorf("update order status: %w", err)
	case updated == nil:
		return nil, ErrNotFound
	}

	prometheus.RecordOrderTransition(string(to), "success")
	log.Info("Order status changed",
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)),
		zap.Int("version", updated.Version))
	return updated, nil
}

// PendingCount feeds the sidebar badge
func (s *OrderService) PendingCount(ctx context.Context, identity string) (int64, error) {
	n, err := s.orders.CountByStatuses(ctx, identity, order.PendingStatuses())
	if err != nil {
		return 0, fmt.Errorf("count pending orders: %w", err)
	}
	return n, nil
}

// Policy exposes the transition policy so callers can list allowed moves
func (s *OrderService) Policy() order.Policy {
	return s.policy
}
