// Package app provides the dependency injection container for the application.
package app

import (
	"io"
	"os"

	"github.com/runoshun/elfrun/internal/domain"
	"github.com/runoshun/elfrun/internal/infra/config"
	"github.com/runoshun/elfrun/internal/infra/imagefile"
	"github.com/runoshun/elfrun/internal/infra/logging"
	"github.com/runoshun/elfrun/internal/infra/report"
	"github.com/runoshun/elfrun/internal/infra/rv32"
	"github.com/runoshun/elfrun/internal/usecase"
)

// Config holds the application paths and streams.
type Config struct {
	Stdout  io.Writer // Destination of guest output
	WorkDir string    // Directory searched for .elfrun.toml
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Images        domain.ImageReader
	Executor      domain.Executor
	Inspector     domain.ImageInspector
	Reports       domain.ReportWriter
	Signatures    domain.SignatureWriter
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Clock         domain.Clock
	Logger        domain.Logger

	// AppConfig is the effective configuration. When loading failed it holds
	// the defaults and ConfigErr holds the reason.
	AppConfig *domain.Config
	ConfigErr error

	closer io.Closer

	// Configuration
	Config Config
}

// New creates a new Container for the given working directory.
// Guest output goes to stdout.
func New(workDir string, stdout io.Writer) (*Container, error) {
	cfg := Config{WorkDir: workDir, Stdout: stdout}

	configLoader := config.NewLoader(workDir)
	appConfig, configErr := configLoader.Load()
	if configErr != nil {
		// Commands that need a valid config report configErr themselves.
		appConfig = domain.NewDefaultConfig()
	}

	logger := logging.New(appConfig.Log.File, logging.ParseLevel(appConfig.Log.Level))

	executor := rv32.NewExecutor(rv32.Options{
		Stdout:     stdout,
		Logger:     logger,
		MemoryBits: appConfig.VM.MemoryBits,
	})
	writer := report.NewWriter()

	return &Container{
		Images:        imagefile.NewReader(),
		Executor:      executor,
		Inspector:     executor,
		Reports:       writer,
		Signatures:    writer,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(workDir),
		Clock:         domain.RealClock{},
		Logger:        logger,
		AppConfig:     appConfig,
		ConfigErr:     configErr,
		closer:        logger,
		Config:        cfg,
	}, nil
}

// NewDefault creates a Container for the process working directory writing
// guest output to os.Stdout.
func NewDefault() (*Container, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return New(cwd, os.Stdout)
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// Unset ports fall back to no-op or default values.
func NewWithDeps(c Container) *Container {
	if c.Clock == nil {
		c.Clock = domain.RealClock{}
	}
	if c.Logger == nil {
		c.Logger = domain.NopLogger{}
	}
	if c.AppConfig == nil {
		c.AppConfig = domain.NewDefaultConfig()
	}
	return &c
}

// Close releases resources held by the container (the log file).
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// UseCase factory methods

// RunELFUseCase returns a new RunELF use case.
func (c *Container) RunELFUseCase() *usecase.RunELF {
	return usecase.NewRunELF(c.Images, c.Executor, c.Reports, c.Signatures, c.Clock, c.Logger)
}

// InspectELFUseCase returns a new InspectELF use case.
func (c *Container) InspectELFUseCase() *usecase.InspectELF {
	return usecase.NewInspectELF(c.Images, c.Inspector)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
