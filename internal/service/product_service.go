package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/ports"
	"github.com/suteetoe/merchant-dashboard/pkg/logger"
	"github.com/suteetoe/merchant-dashboard/pkg/storage"
	"github.com/suteetoe/merchant-dashboard/prometheus"
)

// ProductInput is the editable part of a product. MerchantID, when sent,
// must match the caller.
type ProductInput struct {
	MerchantID  string          `json:"merchant_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    *string         `json:"category"`
	IsActive    *bool           `json:"is_active"`
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return newValidationError("name is required")
	}
	if in.Price.IsNegative() {
		return newValidationError("price cannot be negative")
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return newValidationError("price cannot have more than two decimal places")
	}
	if in.Stock < 0 {
		return newValidationError("stock cannot be negative")
	}
	return nil
}

// applyTo overwrites the required fields. Optional fields left nil keep their
// stored value; an empty string clears description or category.
func (in ProductInput) applyTo(p *model.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Price = in.Price
	p.Stock = in.Stock
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Category != nil {
		p.Category = in.Category
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

type ProductService struct {
	products ports.ProductRepository
	uploader storage.Uploader
}

func NewProductService(products ports.ProductRepository, uploader storage.Uploader) *ProductService {
	return &ProductService{products: products, uploader: uploader}
}

func (s *ProductService) List(ctx context.Context, identity string, filter ports.ProductFilter) ([]model.Product, error) {
	products, err := s.products.List(ctx, identity, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// owned loads a product and checks it belongs to identity
func (s *ProductService) owned(ctx context.Context, identity, id string) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if product.MerchantID != identity {
		logger.FromContext(ctx).Warn("Product belongs to another merchant",
			zap.String("product_id", id),
			zap.String("owner_id", product.MerchantID))
		return nil, ErrForbidden
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, identity, id string) (*model.Product, error) {
	return s.owned(ctx, identity, id)
}

func (s *ProductService) Create(ctx context.Context, identity string, in ProductInput) (*model.Product, error) {
	if in.MerchantID != "" && in.MerchantID != identity {
		return nil, ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &model.Product{MerchantID: identity, IsActive: true}
	in.applyTo(product)

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	prometheus.RecordProductOperation("create")
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, identity, id string, in ProductInput) (*model.Product, error) {
	if in.MerchantID != "" && in.MerchantID != identity {
		return nil, ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.owned(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(product)

	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	prometheus.RecordProductOperation("update")
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, identity, id string) error {
	if _, err := s.owned(ctx, identity, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	prometheus.RecordProductOperation("delete")
	return nil
}

// UploadImage stores a product photo under {identity}/products/{id}.{ext}
func (s *ProductService) UploadImage(ctx context.Context, identity, id string, upload Upload) (*model.Product, error) {
	img, err := validateUpload(upload)
	if err != nil {
		prometheus.RecordUpload("product_image", "rejected")
		return nil, err
	}

	product, err := s.owned(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, storage.ProductImageKey(identity, id, img.Ext), img.Data, img.ContentType)
	if err != nil {
		prometheus.RecordUpload("product_image", "failure")
		return nil, fmt.Errorf("upload product image: %w", err)
	}
	if err := s.products.UpdateImage(ctx, id, url); err != nil {
		prometheus.RecordUpload("product_image", "failure")
		return nil, fmt.Errorf("save product image url: %w", err)
	}
	prometheus.RecordUpload("product_image", "success")

	product.ImageURL = &url
	return product, nil
}
