package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/suteetoe/merchant-dashboard/internal/dashboard"
	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/ports"
	"github.com/suteetoe/merchant-dashboard/prometheus"
)

type DashboardService struct {
	merchants *MerchantService
	products  ports.ProductRepository
	orders    ports.OrderRepository
	loc       *time.Location
	topLimit  int
	now       func() time.Time
}

func NewDashboardService(merchants *MerchantService, products ports.ProductRepository, orders ports.OrderRepository, loc *time.Location, topLimit int) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{
		merchants: merchants,
		products:  products,
		orders:    orders,
		loc:       loc,
		topLimit:  topLimit,
		now:       time.Now,
	}
}

// Summary loads the merchant, its orders and its products concurrently and
// aggregates them. Visiting the dashboard creates the merchant if needed.
func (s *DashboardService) Summary(ctx context.Context, identity, email string) (*dashboard.Summary, error) {
	ref := s.now()
	defer prometheus.ObserveDashboardBuild(time.Now())

	var (
		merchant *model.Merchant
		orders   []model.Order
		products []model.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		merchant, err = s.merchants.GetOrCreate(gctx, identity, email)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orders.List(gctx, identity, ports.OrderFilter{})
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		products, err = s.products.List(gctx, identity, ports.ProductFilter{})
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := dashboard.Build(orders, products, ref, s.loc, s.topLimit)
	summary.Merchant = merchant
	return &summary, nil
}
