// Package storage uploads merchant images to object storage.
package storage

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageSize is the largest accepted logo or product image
const MaxImageSize = 5 << 20

var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrImageTooLarge = errors.New("image must be 5 MB or smaller")
	ErrNotAnImage    = errors.New("file must be an image")
)

// Uploader stores bytes under key, replacing any existing object, and
// returns the public URL of the stored object
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Image is an upload that passed ValidateImage
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

var extensions = map[string]string{
	"image/png":                "png",
	"image/jpeg":               "jpg",
	"image/gif":                "gif",
	"image/webp":               "webp",
	"image/bmp":                "bmp",
	"image/x-icon":             "ico",
	"image/vnd.microsoft.icon": "ico",
}

// ValidateImage checks the size and image mimetype preconditions before any
// upload is attempted. Both the declared type (when present) and the sniffed
// content must be images.
func ValidateImage(filename, declaredType string, data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmptyFile
	}
	if len(data) > MaxImageSize {
		return Image{}, ErrImageTooLarge
	}

	if declaredType != "" && !strings.HasPrefix(strings.ToLower(declaredType), "image/") {
		return Image{}, ErrNotAnImage
	}

	sniffed := http.DetectContentType(data)
	if !strings.HasPrefix(sniffed, "image/") {
		return Image{}, ErrNotAnImage
	}

	ext, ok := extensions[sniffed]
	if !ok {
		ext = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	}
	if ext == "" {
		ext = strings.TrimPrefix(sniffed, "image/")
	}

	return Image{Data: data, ContentType: sniffed, Ext: ext}, nil
}

// LogoKey is the object key of a merchant's logo
func LogoKey(identity, ext string) string {
	return identity + "/logo." + ext
}

// ProductImageKey is the object key of a product image
func ProductImageKey(identity, productID, ext string) string {
	return identity + "/products/" + productID + "." + ext
}
