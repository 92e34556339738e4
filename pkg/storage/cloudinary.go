package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader stores images in Cloudinary. The object key without its
// extension becomes the public id, so re-uploading a logo replaces it.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader builds an uploader from a CLOUDINARY_URL
func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: strings.Trim(folder, "/")}, nil
}

func (u *CloudinaryUploader) publicID(key string) string {
	id := strings.TrimSuffix(key, path.Ext(key))
	if u.folder != "" {
		id = u.folder + "/" + id
	}
	return id
}

func (u *CloudinaryUploader) Upload(ctx context.Context, key string, data []byte, _ string) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:  u.publicID(key),
		Format:    strings.TrimPrefix(path.Ext(key), "."),
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload %s: %w", key, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload %s: %w", key, errors.New(result.Error.Message))
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload %s: empty url in response", key)
	}
	return result.SecureURL, nil
}
