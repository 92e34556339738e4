package service

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/suteetoe/merchant-dashboard/internal/model"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

type stubUploader struct {
	mu   sync.Mutex
	url  string
	err  error
	keys []string
}

func (u *stubUploader) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.keys = append(u.keys, key)
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

// memoryMerchants behaves like the insert-on-conflict-do-nothing repository
type memoryMerchants struct {
	mu   sync.Mutex
	rows map[string]model.Merchant
}

func newMemoryMerchants() *memoryMerchants {
	return &memoryMerchants{rows: make(map[string]model.Merchant)}
}

func (m *memoryMerchants) GetOrCreate(_ context.Context, defaults *model.Merchant) (*model.Merchant, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[defaults.ID]
	if !ok {
		row = *defaults
		m.rows[defaults.ID] = row
	}
	return &row, !ok, nil
}

func (m *memoryMerchants) FindByID(_ context.Context, id string) (*model.Merchant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *memoryMerchants) UpdateProfile(_ context.Context, merchant *model.Merchant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[merchant.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.ShopName = merchant.ShopName
	row.Address = merchant.Address
	row.Phone = merchant.Phone
	row.IsOpen = merchant.IsOpen
	row.ETAMinutes = merchant.ETAMinutes
	row.UpdatedAt = merchant.UpdatedAt
	m.rows[merchant.ID] = row
	return nil
}

func (m *memoryMerchants) UpdateLogo(_ context.Context, id, logoURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.rows[id]
	row.LogoURL = &logoURL
	m.rows[id] = row
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
