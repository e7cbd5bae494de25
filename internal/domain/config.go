package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string     `toml:"-"`
	Log      LogConfig    `toml:"log"`
	Report   ReportConfig `toml:"report"`
	VM       VMConfig     `toml:"vm"`
}

// VMConfig holds execution service settings from [vm] section.
type VMConfig struct {
	MaxCycles  uint64 `toml:"max_cycles"`  // Instruction limit (0 = unlimited)
	MemoryBits int    `toml:"memory_bits"` // Addressable memory is 2^MemoryBits bytes
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
	File  string `toml:"file,omitempty"`  // Log file path (empty = logging disabled)
}

// ReportConfig holds run report settings from [report] section.
type ReportConfig struct {
	Dir string `toml:"dir,omitempty"` // Write <dir>/<run-id>.yaml for every run
}

// Directory and file names for elfrun.
const (
	AppDirName          = "elfrun"       // Directory name under the XDG config home
	ConfigFileName      = "config.toml"  // Global config file name
	LocalConfigFileName = ".elfrun.toml" // Config file name in the working directory
)

// Default configuration values.
const (
	DefaultLogLevel   = "info"
	DefaultMemoryBits = 29
	MinMemoryBits     = 12
	MaxMemoryBits     = 32
)

// GlobalConfigDir returns the global elfrun directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// LocalConfigPath returns the config path inside dir.
func LocalConfigPath(dir string) string {
	return filepath.Join(dir, LocalConfigFileName)
}

// ReportPath returns the report path for a run inside dir.
func ReportPath(dir, runID string) string {
	return filepath.Join(dir, runID+".yaml")
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		VM: VMConfig{
			MemoryBits: DefaultMemoryBits,
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.VM.MemoryBits < MinMemoryBits || c.VM.MemoryBits > MaxMemoryBits {
		return fmt.Errorf("%w: vm.memory_bits must be between %d and %d, got %d",
			ErrInvalidConfig, MinMemoryBits, MaxMemoryBits, c.VM.MemoryBits)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level must be one of debug, info, warn, error, got %q",
			ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// RenderConfigTemplate renders the commented default config file.
func RenderConfigTemplate(cfg *Config) string {
	tmpl := template.Must(template.New("config").Parse(configTemplateContent))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// The template is embedded and only references Config fields.
		panic(err)
	}
	return buf.String()
}
