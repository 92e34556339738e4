package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/ports"
)

func TestProductService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		input     ProductInput
		mockSetup func(repo *ports.MockProductRepository)
		wantErr   error
		wantValid bool
	}{
		{
			name:  "valid product",
			input: ProductInput{Name: "Jasmine rice", Price: decimal.RequireFromString("45.50"), Stock: 12},
			mockSetup: func(repo *ports.MockProductRepository) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *model.Product) error {
					if p.MerchantID != "user-1" || !p.IsActive || p.Name != "Jasmine rice" {
						t.Errorf("created product = %+v", p)
					}
					return nil
				})
			},
		},
		{
			name:  "zero price and stock allowed",
			input: ProductInput{Name: "Free sample", Price: decimal.Zero, Stock: 0},
			mockSetup: func(repo *ports.MockProductRepository) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "other merchant id",
			input:     ProductInput{MerchantID: "user-2", Name: "Tea", Price: decimal.NewFromInt(5)},
			mockSetup: func(repo *ports.MockProductRepository) {},
			wantErr:   ErrForbidden,
		},
		{
			name:      "empty name",
			input:     ProductInput{Name: " ", Price: decimal.NewFromInt(5)},
			mockSetup: func(repo *ports.MockProductRepository) {},
			wantValid: true,
		},
		{
			name:      "negative price",
			input:     ProductInput{Name: "Tea", Price: decimal.NewFromInt(-1)},
			mockSetup: func(repo *ports.MockProductRepository) {},
			wantValid: true,
		},
		{
			name:      "fractional cents",
			input:     ProductInput{Name: "Tea", Price: decimal.RequireFromString("1.005")},
			mockSetup: func(repo *ports.MockProductRepository) {},
			wantValid: true,
		},
		{
			name:      "negative stock",
			input:     ProductInput{Name: "Tea", Price: decimal.NewFromInt(1), Stock: -3},
			mockSetup: func(repo *ports.MockProductRepository) {},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := ports.NewMockProductRepository(ctrl)
			tt.mockSetup(repo)
			svc := NewProductService(repo, &stubUploader{})

			_, err := svc.Create(context.Background(), "user-1", tt.input)
			switch {
			case tt.wantValid:
				if !IsValidation(err) {
					t.Errorf("Create() error = %v, want validation error", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
				}
			case err != nil:
				t.Errorf("Create() error = %v", err)
			}
		})
	}
}

func TestProductService_OwnershipRejectsWithoutWriting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	foreign := &model.Product{ID: "p-1", MerchantID: "user-2", Name: "Tea", IsActive: true}
	valid := ProductInput{Name: "Tea", Price: decimal.NewFromInt(5), Stock: 3}

	repo := ports.NewMockProductRepository(ctrl)
	repo.EXPECT().FindByID(gomock.Any(), "p-1").Return(foreign, nil).Times(4)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)
	repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)
	repo.EXPECT().UpdateImage(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	uploader := &stubUploader{url: "https://cdn/x"}
	svc := NewProductService(repo, uploader)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "user-1", "p-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Get() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Update(ctx, "user-1", "p-1", valid); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update() error = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, "user-1", "p-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.UploadImage(ctx, "user-1", "p-1", Upload{Filename: "a.png", Data: pngBytes}); !errors.Is(err, ErrForbidden) {
		t.Errorf("UploadImage() error = %v, want ErrForbidden", err)
	}
	if len(uploader.keys) != 0 {
		t.Errorf("uploader called %d times, want 0", len(uploader.keys))
	}
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ports.NewMockProductRepository(ctrl)
	svc := NewProductService(repo, &stubUploader{})
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		repo.EXPECT().FindByID(gomock.Any(), "missing").Return(nil, nil)
		if _, err := svc.Update(ctx, "user-1", "missing", ProductInput{Name: "x"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("update keeps ownership and deactivates", func(t *testing.T) {
		repo.EXPECT().FindByID(gomock.Any(), "p-1").Return(&model.Product{ID: "p-1", MerchantID: "user-1", IsActive: true}, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		p, err := svc.Update(ctx, "user-1", "p-1", ProductInput{Name: "Tea", Price: decimal.NewFromInt(5), Stock: 2, IsActive: boolPtr(false)})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if p.MerchantID != "user-1" || p.IsActive || p.Stock != 2 {
			t.Errorf("updated = %+v", p)
		}
	})

	t.Run("omitted optional fields are kept", func(t *testing.T) {
		stored := &model.Product{
			ID: "p-1", MerchantID: "user-1", IsActive: true,
			Description: strPtr("Jasmine"), Category: strPtr("drinks"),
		}
		repo.EXPECT().FindByID(gomock.Any(), "p-1").Return(stored, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		p, err := svc.Update(ctx, "user-1", "p-1", ProductInput{Name: "Tea", Price: decimal.NewFromInt(6), Stock: 4, Category: strPtr("")})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if p.Description == nil || *p.Description != "Jasmine" {
			t.Errorf("description = %v, want kept", p.Description)
		}
		if p.Category == nil || *p.Category != "" {
			t.Errorf("category = %v, want cleared", p.Category)
		}
		if !p.IsActive {
			t.Error("is_active should be kept")
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo.EXPECT().FindByID(gomock.Any(), "p-1").Return(&model.Product{ID: "p-1", MerchantID: "user-1"}, nil)
		repo.EXPECT().Delete(gomock.Any(), "p-1").Return(nil)
		if err := svc.Delete(ctx, "user-1", "p-1"); err != nil {
			t.Errorf("Delete() error = %v", err)
		}
	})

	t.Run("backend failure is wrapped", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		repo.EXPECT().FindByID(gomock.Any(), "p-1").Return(nil, dbErr)
		err := svc.Delete(ctx, "user-1", "p-1")
		if !errors.Is(err, dbErr) || IsValidation(err) {
			t.Errorf("Delete() error = %v, want wrapped backend error", err)
		}
	})
}

func TestProductService_UploadImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ports.NewMockProductRepository(ctrl)
	repo.EXPECT().FindByID(gomock.Any(), "p-1").Return(&model.Product{ID: "p-1", MerchantID: "user-1"}, nil)
	repo.EXPECT().UpdateImage(gomock.Any(), "p-1", "https://cdn/p-1.png").Return(nil)

	uploader := &stubUploader{url: "https://cdn/p-1.png"}
	svc := NewProductService(repo, uploader)

	p, err := svc.UploadImage(context.Background(), "user-1", "p-1", Upload{Filename: "x.png", ContentType: "image/png", Data: pngBytes})
	if err != nil {
		t.Fatalf("UploadImage() error = %v", err)
	}
	if uploader.keys[0] != "user-1/products/p-1.png" {
		t.Errorf("key = %q", uploader.keys[0])
	}
	if p.ImageURL == nil || *p.ImageURL != "https://cdn/p-1.png" {
		t.Errorf("ImageURL = %v", p.ImageURL)
	}
}
