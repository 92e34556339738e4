// Package dashboard derives the merchant dashboard metrics from the orders and
// products fetched for one page load. Every function is pure and returns a
// zero value for empty input.
package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/order"
)

const (
	weeklyWindow       = 7 * 24 * time.Hour
	DefaultRecentLimit = 5
)

// Point is one sample of the weekly sparkline
type Point struct {
	Timestamp   time.Time       `json:"timestamp"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ProductSales is the all-time sales of one product across order line items
type ProductSales struct {
	ProductID string          `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Summary is everything the dashboard page renders
type Summary struct {
	Merchant       *model.Merchant `json:"merchant,omitempty"`
	TodayRevenue   decimal.Decimal `json:"today_revenue"`
	NewOrdersToday int             `json:"new_orders_today"`
	PendingCount   int             `json:"pending_count"`
	LowStock       []model.Product `json:"low_stock"`
	WeeklySeries   []Point         `json:"weekly_series"`
	TopSellers     []ProductSales  `json:"top_sellers"`
	RecentOrders   []model.Order   `json:"recent_orders"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// dayBounds returns [start, end) of ref's calendar day in loc
func dayBounds(ref time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := ref.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func sameDay(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// TodayRevenue sums total_amount over orders created on ref's day in loc
func TodayRevenue(orders []model.Order, ref time.Time, loc *time.Location) decimal.Decimal {
	start, end := dayBounds(ref, loc)
	total := decimal.Zero
	for _, o := range orders {
		if sameDay(o.CreatedAt, start, end) {
			total = total.Add(o.TotalAmount)
		}
	}
	return total
}

// NewOrdersToday counts today's orders still in status new
func NewOrdersToday(orders []model.Order, ref time.Time, loc *time.Location) int {
	start, end := dayBounds(ref, loc)
	n := 0
	for _, o := range orders {
		if o.Status == order.StatusNew && sameDay(o.CreatedAt, start, end) {
			n++
		}
	}
	return n
}

// PendingCount counts orders matching the shared pending predicate
func PendingCount(orders []model.Order) int {
	n := 0
	for _, o := range orders {
		if o.Status.IsPending() {
			n++
		}
	}
	return n
}

// LowStock keeps active products at or below the low stock threshold,
// preserving input order
func LowStock(products []model.Product) []model.Product {
	low := make([]model.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low
}

// WeeklySeries projects orders from the last seven days onto
// (created_at, total_amount) pairs in ascending time order
func WeeklySeries(orders []model.Order, ref time.Time) []Point {
	since := ref.Add(-weeklyWindow)

	recent := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if !o.CreatedAt.Before(since) {
			recent = append(recent, o)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.Before(recent[j].CreatedAt)
	})

	points := make([]Point, 0, len(recent))
	for _, o := range recent {
		points = append(points, Point{Timestamp: o.CreatedAt, TotalAmount: o.TotalAmount})
	}
	return points
}

// TopSellingProducts groups line items by product id, falling back to the
// item name for snapshots without one. Results are sorted by quantity, then
// revenue, then name. limit <= 0 returns every product.
func TopSellingProducts(orders []model.Order, limit int) []ProductSales {
	byKey := make(map[string]*ProductSales)
	var keys []string

	for _, o := range orders {
		if o.Status == order.StatusCancelled {
			continue
		}
		for _, item := range o.Items {
			key := "id:" + item.ProductID
			if item.ProductID == "" {
				key = "name:" + item.Name
			}
			s, ok := byKey[key]
			if !ok {
				s = &ProductSales{ProductID: item.ProductID, Name: item.Name, Revenue: decimal.Zero}
				byKey[key] = s
				keys = append(keys, key)
			}
			s.Quantity += item.Quantity
			s.Revenue = s.Revenue.Add(item.LineTotal())
		}
	}

	sales := make([]ProductSales, 0, len(keys))
	for _, k := range keys {
		sales = append(sales, *byKey[k])
	}
	sort.SliceStable(sales, func(i, j int) bool {
		a, b := sales[i], sales[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return a.Name < b.Name
	})

	if limit > 0 && len(sales) > limit {
		sales = sales[:limit]
	}
	return sales
}

// RecentOrders returns up to limit orders, newest first
func RecentOrders(orders []model.Order, limit int) []model.Order {
	recent := make([]model.Order, len(orders))
	copy(recent, orders)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// Build composes every metric for one dashboard render
func Build(orders []model.Order, products []model.Product, ref time.Time, loc *time.Location, topLimit int) Summary {
	return Summary{
		TodayRevenue:   TodayRevenue(orders, ref, loc),
		NewOrdersToday: NewOrdersToday(orders, ref, loc),
		PendingCount:   PendingCount(orders),
		LowStock:       LowStock(products),
		WeeklySeries:   WeeklySeries(orders, ref),
		TopSellers:     TopSellingProducts(orders, topLimit),
		RecentOrders:   RecentOrders(orders, DefaultRecentLimit),
		GeneratedAt:    ref,
	}
}
