package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedContentType is returned by ValidateImage for non-image uploads.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// ObjectStorage puts a byte stream under key and returns its public URL.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// AllowedImageTypes 업로드 가능한 이미지 형식
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

// MaxImageSize 이미지 한 장당 최대 크기 (10MB)
const MaxImageSize int64 = 10 << 20

// ReviewImageKey builds the deterministic object key review-images/{reviewID}-{index}{ext}.
func ReviewImageKey(reviewID uint, index int, filename string) string {
	return fmt.Sprintf("review-images/%d-%d%s", reviewID, index, strings.ToLower(filepath.Ext(filename)))
}

// ValidateImage checks content type and size of one upload.
func ValidateImage(contentType string, size int64) error {
	if size > MaxImageSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", MaxImageSize)
	}
	for _, allowed := range AllowedImageTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
}
