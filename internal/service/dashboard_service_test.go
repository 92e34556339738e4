package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/order"
	"github.com/suteetoe/merchant-dashboard/internal/ports"
)

func TestDashboardService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loc := time.UTC
	now := time.Date(2024, time.March, 15, 18, 0, 0, 0, loc)

	orders := []model.Order{
		{ID: "o1", MerchantID: "user-1", CreatedAt: now.Add(-9 * time.Hour), TotalAmount: decimal.NewFromInt(120), Status: order.StatusNew},
		{ID: "o2", MerchantID: "user-1", CreatedAt: now.Add(-4 * time.Hour), TotalAmount: decimal.NewFromInt(80), Status: order.StatusConfirmed},
		{ID: "o3", MerchantID: "user-1", CreatedAt: now.Add(-26 * time.Hour), TotalAmount: decimal.NewFromInt(999), Status: order.StatusDelivered},
	}
	products := []model.Product{
		{ID: "a", Stock: 5, IsActive: true},
		{ID: "b", Stock: 15, IsActive: true},
		{ID: "c", Stock: 2, IsActive: false},
	}

	merchants := ports.NewMockMerchantRepository(ctrl)
	productRepo := ports.NewMockProductRepository(ctrl)
	orderRepo := ports.NewMockOrderRepository(ctrl)

	merchants.EXPECT().GetOrCreate(gomock.Any(), gomock.Any()).Return(model.NewDefaultMerchant("user-1", "a@b.c"), true, nil)
	orderRepo.EXPECT().List(gomock.Any(), "user-1", ports.OrderFilter{}).Return(orders, nil)
	productRepo.EXPECT().List(gomock.Any(), "user-1", ports.ProductFilter{}).Return(products, nil)

	svc := NewDashboardService(NewMerchantService(merchants, &stubUploader{}), productRepo, orderRepo, loc, 5)
	svc.now = func() time.Time { return now }

	summary, err := svc.Summary(context.Background(), "user-1", "a@b.c")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if !summary.TodayRevenue.Equal(decimal.NewFromInt(200)) {
		t.Errorf("TodayRevenue = %s, want 200", summary.TodayRevenue)
	}
	if summary.NewOrdersToday != 1 || summary.PendingCount != 2 {
		t.Errorf("NewOrdersToday = %d, PendingCount = %d", summary.NewOrdersToday, summary.PendingCount)
	}
	if len(summary.LowStock) != 1 || summary.LowStock[0].ID != "a" {
		t.Errorf("LowStock = %+v", summary.LowStock)
	}
	if summary.Merchant == nil || summary.Merchant.ShopName != model.DefaultShopName {
		t.Errorf("Merchant = %+v", summary.Merchant)
	}
}

func TestDashboardService_Summary_BackendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dbErr := errors.New("db down")
	merchants := ports.NewMockMerchantRepository(ctrl)
	productRepo := ports.NewMockProductRepository(ctrl)
	orderRepo := ports.NewMockOrderRepository(ctrl)

	merchants.EXPECT().GetOrCreate(gomock.Any(), gomock.Any()).Return(model.NewDefaultMerchant("user-1", ""), false, nil).AnyTimes()
	orderRepo.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, dbErr)
	productRepo.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Product{}, nil).AnyTimes()

	svc := NewDashboardService(NewMerchantService(merchants, &stubUploader{}), productRepo, orderRepo, nil, 5)
	if _, err := svc.Summary(context.Background(), "user-1", ""); !errors.Is(err, dbErr) {
		t.Errorf("Summary() error = %v, want %v", err, dbErr)
	}
}
