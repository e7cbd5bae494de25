package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/elfrun/internal/domain"
)

// InitConfigInput selects which elfrun config file to create.
type InitConfigInput struct {
	Config *domain.Config // Values written into the template (nil = defaults)
	Global bool           // $XDG_CONFIG_HOME/elfrun/config.toml instead of ./.elfrun.toml
}

// InitConfigOutput reports the created file.
type InitConfigOutput struct {
	Path string
}

// InitConfig creates an elfrun config file from the commented template.
// An existing file is never replaced.
type InitConfig struct {
	configs domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configs domain.ConfigManager) *InitConfig {
	return &InitConfig{configs: configs}
}

// Execute validates the values and writes the file.
// It returns domain.ErrConfigExists when the target file is already there.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scope, create := "local", uc.configs.InitLocalConfig
	if in.Global {
		scope, create = "global", uc.configs.InitGlobalConfig
	}
	path, err := create(cfg)
	if err != nil {
		return nil, fmt.Errorf("init %s config: %w", scope, err)
	}
	return &InitConfigOutput{Path: path}, nil
}
