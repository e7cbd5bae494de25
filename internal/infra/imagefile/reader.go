// Package imagefile reads ELF images from the local file system.
package imagefile

import (
	"fmt"
	"os"

	"github.com/runoshun/elfrun/internal/domain"
)

// Ensure Reader implements domain.ImageReader.
var _ domain.ImageReader = (*Reader)(nil)

// Reader reads whole files into memory.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadImage returns the exact bytes of the file at path.
func (r *Reader) ReadImage(path string) (domain.Payload, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrReadImage, domain.ErrEmptyPath)
	}
	data, err := os.ReadFile(path) //nolint:gosec // Reading the user-supplied image is the point
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrReadImage, err)
	}
	return domain.Payload(data), nil
}
