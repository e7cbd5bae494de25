package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/elfrun/internal/domain"
)

// InspectELFInput contains the parameters for inspecting an ELF image.
type InspectELFInput struct {
	Path string // Path to the ELF file (required)
}

// InspectELFOutput contains the parsed image summary.
type InspectELFOutput struct {
	Info *domain.ImageInfo
	Size int // File size in bytes
}

// InspectELF describes an ELF image without running it.
type InspectELF struct {
	images    domain.ImageReader
	inspector domain.ImageInspector
}

// NewInspectELF creates a new InspectELF use case.
func NewInspectELF(images domain.ImageReader, inspector domain.ImageInspector) *InspectELF {
	return &InspectELF{
		images:    images,
		inspector: inspector,
	}
}

// Execute reads and parses the image at in.Path.
func (uc *InspectELF) Execute(_ context.Context, in InspectELFInput) (*InspectELFOutput, error) {
	image, err := uc.images.ReadImage(in.Path)
	if err != nil {
		if !errors.Is(err, domain.ErrReadImage) {
			err = fmt.Errorf("%w: %w", domain.ErrReadImage, err)
		}
		return nil, err
	}

	info, err := uc.inspector.Inspect(image)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", in.Path, err)
	}

	return &InspectELFOutput{Info: info, Size: len(image)}, nil
}
