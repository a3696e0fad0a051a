// Package storage uploads images to an S3-compatible bucket and returns
// their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// MaxImageSize caps uploads at 5 MiB, checked before any network call.
const MaxImageSize = 5 * 1024 * 1024

var (
	ErrUpload          = errors.New("upload")
	ErrNotAnImage      = fmt.Errorf("%w.not_an_image", ErrUpload)
	ErrImageTooLarge   = fmt.Errorf("%w.image_too_large", ErrUpload)
)

// Uploader stores image bytes and returns a public URL. Implementations do
// not retry; a failed upload is surfaced once and the caller keeps the
// affected field unchanged.
type Uploader interface {
	Store(ctx context.Context, data []byte, contentType string) (string, error)
}

// ValidateImage runs the pre-flight gate: the declared media type must be
// an image and the payload must fit under MaxImageSize. Callers invoke it
// before delegating to an Uploader so rejects never reach the network.
func ValidateImage(size int64, contentType string) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}
	if size > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}

var storageLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	storageLogger = l
}
