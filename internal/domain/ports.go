package domain

import (
	"context"
	"time"
)

// ImageReader loads ELF images from storage.
type ImageReader interface {
	// ReadImage reads the whole file at path into memory.
	ReadImage(path string) (Payload, error)
}

// Executor is the execution service.
type Executor interface {
	// Execute runs the image on the requested target.
	// A nil error means success. On failure the result may still be non-nil
	// when the guest ran far enough to produce one.
	Execute(ctx context.Context, req ExecuteRequest) (*ExecutionResult, error)
}

// ImageInspector parses ELF images without running them.
type ImageInspector interface {
	// Inspect returns a summary of the image.
	Inspect(image Payload) (*ImageInfo, error)
}

// ReportWriter persists run reports.
type ReportWriter interface {
	// WriteReport writes the report to path.
	WriteReport(path string, report *RunReport) error
}

// SignatureWriter persists signature regions.
type SignatureWriter interface {
	// WriteSignature writes words to path, one per line.
	WriteSignature(path string, words []uint32) error
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (local + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigInfo describes one configuration file.
type ConfigInfo struct {
	Path    string // Absolute or relative path of the file
	Content string // Raw file content (empty when missing)
	Exists  bool
}

// ConfigManager inspects and creates configuration files.
type ConfigManager interface {
	// GetLocalConfigInfo returns the working-directory config file.
	GetLocalConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitLocalConfig writes the default template to the working directory.
	// Returns the path written and ErrConfigExists if the file is already there.
	InitLocalConfig(cfg *Config) (string, error)

	// InitGlobalConfig writes the default template to the global directory.
	InitGlobalConfig(cfg *Config) (string, error)
}

// Logger records diagnostic messages.
// Implementations must not write to stdout or stderr.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(_, _ string) {}
func (NopLogger) Info(_, _ string)  {}
func (NopLogger) Warn(_, _ string)  {}
func (NopLogger) Error(_, _ string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
