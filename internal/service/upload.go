package service

import (
	"github.com/suteetoe/merchant-dashboard/pkg/storage"
)

// Upload is a file received from a multipart form
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func validateUpload(u Upload) (storage.Image, error) {
	img, err := storage.ValidateImage(u.Filename, u.ContentType, u.Data)
	if err != nil {
		return storage.Image{}, validationError{message: err.Error()}
	}
	return img, nil
}
