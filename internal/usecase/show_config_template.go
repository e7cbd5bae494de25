package usecase

import (
	"context"

	"github.com/runoshun/elfrun/internal/domain"
)

// ShowConfigTemplateInput holds the values to render.
type ShowConfigTemplateInput struct {
	Config *domain.Config // nil renders the defaults
}

// ShowConfigTemplateOutput holds the rendered file.
type ShowConfigTemplateOutput struct {
	Template string // Commented TOML with [vm], [log] and [report] sections
}

// ShowConfigTemplate renders the elfrun config file. It never reads the
// config files on disk.
type ShowConfigTemplate struct{}

// NewShowConfigTemplate creates a new ShowConfigTemplate use case.
func NewShowConfigTemplate() *ShowConfigTemplate {
	return &ShowConfigTemplate{}
}

// Execute renders the template.
func (uc *ShowConfigTemplate) Execute(_ context.Context, in ShowConfigTemplateInput) (*ShowConfigTemplateOutput, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	return &ShowConfigTemplateOutput{Template: domain.RenderConfigTemplate(cfg)}, nil
}
