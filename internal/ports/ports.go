// Package ports declares the persistence contracts the services depend on.
package ports

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=ports

import (
	"context"
	"errors"
	"time"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/order"
)

var (
	// ErrVersionConflict is returned when an order changed since the caller read it
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicate is returned when a unique key already exists
	ErrDuplicate = errors.New("duplicate record")
)

// ProductFilter narrows a product listing
type ProductFilter struct {
	IsActive *bool
	Category string
	LowStock bool
}

// OrderFilter narrows an order listing. Zero values mean no restriction.
type OrderFilter struct {
	Statuses []order.Status
	Since    time.Time
	Limit    int
}

// Find* methods return (nil, nil) when the row does not exist.

type MerchantRepository interface {
	GetOrCreate(ctx context.Context, defaults *model.Merchant) (*model.Merchant, bool, error)
	UpdateProfile(ctx context.Context, merchant *model.Merchant) error
	UpdateLogo(ctx context.Context, id, logoURL string) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, merchantID string, filter ProductFilter) ([]model.Product, error)
	Save(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	UpdateImage(ctx context.Context, id, imageURL string) error
}

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, merchantID string, filter OrderFilter) ([]model.Order, error)
	CountByStatuses(ctx context.Context, merchantID string, statuses []order.Status) (int64, error)
	// UpdateStatus writes the status and bumps the version. expectedVersion 0
	// skips the version check.
	UpdateStatus(ctx context.Context, id string, status order.Status, expectedVersion int) (*model.Order, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
