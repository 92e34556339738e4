package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/order"
	"github.com/suteetoe/merchant-dashboard/internal/ports"
)

func TestOrderService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owned := func(status order.Status, version int) *model.Order {
		return &model.Order{ID: "o-1", MerchantID: "user-1", Status: status, Version: version}
	}

	tests := []struct {
		name      string
		policy    order.Policy
		change    StatusChange
		mockSetup func(repo *ports.MockOrderRepository)
		wantErr   error
		wantValid bool
	}{
		{
			name:   "forward move",
			policy: order.StrictPolicy(),
			change: StatusChange{Status: "confirmed"},
			mockSetup: func(repo *ports.MockOrderRepository) {
				repo.EXPECT().FindByID(gomock.Any(), "o-1").Return(owned(order.StatusNew, 1), nil)
				repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", order.StatusConfirmed, 1).Return(owned(order.StatusConfirmed, 2), nil)
			},
		},
		{
			name:   "matching version is passed through",
			policy: order.StrictPolicy(),
			change: StatusChange{Status: "packed", Version: 3},
			mockSetup: func(repo *ports.MockOrderRepository) {
				repo.EXPECT().FindByID(gomock.Any(), "o-1").Return(owned(order.StatusConfirmed, 3), nil)
				repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", order.StatusPacked, 3).Return(owned(order.StatusPacked, 4), nil)
			},
		},
		{
			name:      "unknown status",
			policy:    order.StrictPolicy(),
			change:    StatusChange{Status: "shipped"},
			mockSetup: func(repo *ports.MockOrderRepository) {},
			wantValid: true,
		},
		{
			name:   "backward move rejected under strict policy",
			policy: order.StrictPolicy(),
			change: StatusChange{Status: "new"},
			mockSetup: func(repo *ports.MockOrderRepository) {
				repo.EXPECT().FindByID(gomock.Any(), "o-1").Return(owned(order.StatusPacked, 1), nil)
			},
			wantErr: order.ErrInvalidTransition,
		},
		{
			name:   "backward move allowed under permissive policy",
			policy: order.PermissivePolicy(),
			change: StatusChange{Status: "new"},
			mockSetup: func(repo *ports.MockOrderRepository) {
				repo.EXPECT().FindByID(gomock.Any(), "o-1").Return(owned(order.StatusPacked, 1), nil)
				repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", order.StatusNew, 0).Return(owned(order.StatusNew, 2), nil)
			},
		},
		{
			name:   "stale version",
			policy: order.StrictPolicy(),
			change: StatusChange{Status: "ready", Version: 1},
			mockSetup: func(repo *ports.MockOrderRepository) {
				repo.EXPECT().FindByID(gomock.Any(), "o-1").Return(owned(order.StatusPacked, 2), nil)
			},
			wantErr: ErrConflict,
		},
		{
			name:   "version changed between read and write",
			policy: order.StrictPolicy(),
			change: StatusChange{Status: "ready", Version: 2},
			mockSetup: func(repo *ports.MockOrderRepository) {
				repo.EXPECT().FindByID(gomock.Any(), "o-1").Return(owned(order.StatusPacked, 2), nil)
				repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", order.StatusReady, 2).Return(nil, ports.ErrVersionConflict)
			},
			wantErr: ErrConflict,
		},
		{
			name:   "another merchant's order",
			policy: order.StrictPolicy(),
			change: StatusChange{Status: "confirmed"},
			mockSetup: func(repo *ports.MockOrderRepository) {
				repo.EXPECT().FindByID(gomock.Any(), "o-1").Return(&model.Order{ID: "o-1", MerchantID: "user-2", Status: order.StatusNew}, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:   "missing order",
			policy: order.StrictPolicy(),
			change: StatusChange{Status: "confirmed"},
			mockSetup: func(repo *ports.MockOrderRepository) {
				repo.EXPECT().FindByID(gomock.Any(), "o-1").Return(nil, nil)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := ports.NewMockOrderRepository(ctrl)
			tt.mockSetup(repo)
			svc := NewOrderService(repo, tt.policy)

			got, err := svc.UpdateStatus(context.Background(), "user-1", "o-1", tt.change)
			switch {
			case tt.wantValid:
				if !IsValidation(err) {
					t.Errorf("UpdateStatus() error = %v, want validation error", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("UpdateStatus() error = %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Fatalf("UpdateStatus() error = %v", err)
				}
				if string(got.Status) != tt.change.Status {
					t.Errorf("status = %s, want %s", got.Status, tt.change.Status)
				}
			}
		})
	}
}

// racingOrders flips the stored order to another status right after it is
// read, the way a concurrent request would.
type racingOrders struct {
	ports.OrderRepository
	row     model.Order
	raceTo  order.Status
	updated bool
}

func (r *racingOrders) FindByID(_ context.Context, id string) (*model.Order, error) {
	read := r.row
	r.row.Status = r.raceTo
	r.row.Version++
	return &read, nil
}

func (r *racingOrders) UpdateStatus(_ context.Context, id string, status order.Status, expectedVersion int) (*model.Order, error) {
	if expectedVersion > 0 && expectedVersion != r.row.Version {
		return nil, ports.ErrVersionConflict
	}
	r.row.Status = status
	r.row.Version++
	r.updated = true
	out := r.row
	return &out, nil
}

func TestOrderService_UpdateStatus_ConcurrentChange(t *testing.T) {
	tests := []struct {
		name       string
		policy     order.Policy
		wantErr    error
		wantStatus order.Status
	}{
		{"strict refuses to overwrite a delivered order", order.StrictPolicy(), ErrConflict, order.StatusDelivered},
		{"permissive keeps last write wins", order.PermissivePolicy(), nil, order.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &racingOrders{
				row:    model.Order{ID: "o-1", MerchantID: "user-1", Status: order.StatusNew, Version: 1},
				raceTo: order.StatusDelivered,
			}
			svc := NewOrderService(repo, tt.policy)

			_, err := svc.UpdateStatus(context.Background(), "user-1", "o-1", StatusChange{Status: "cancelled"})
			if tt.wantErr == nil && err != nil {
				t.Fatalf("UpdateStatus() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateStatus() error = %v, want %v", err, tt.wantErr)
			}
			if repo.row.Status != tt.wantStatus {
				t.Errorf("stored status = %s, want %s", repo.row.Status, tt.wantStatus)
			}
		})
	}
}

func TestOrderService_PendingCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ports.NewMockOrderRepository(ctrl)
	repo.EXPECT().CountByStatuses(gomock.Any(), "user-1", order.PendingStatuses()).Return(int64(4), nil)

	n, err := NewOrderService(repo, order.StrictPolicy()).PendingCount(context.Background(), "user-1")
	if err != nil || n != 4 {
		t.Errorf("PendingCount() = %d, %v; want 4, nil", n, err)
	}
}

func TestOrderService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	filter := ports.OrderFilter{Statuses: []order.Status{order.StatusReady}, Limit: 10}
	repo := ports.NewMockOrderRepository(ctrl)
	repo.EXPECT().List(gomock.Any(), "user-1", filter).Return([]model.Order{{ID: "o-1"}}, nil)

	orders, err := NewOrderService(repo, order.StrictPolicy()).List(context.Background(), "user-1", filter)
	if err != nil || len(orders) != 1 {
		t.Errorf("List() = %v, %v", orders, err)
	}
}
