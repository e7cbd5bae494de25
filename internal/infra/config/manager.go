package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/elfrun/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// errNoGlobalDir is returned when neither XDG_CONFIG_HOME nor HOME is set.
var errNoGlobalDir = errors.New("no global config directory (XDG_CONFIG_HOME and HOME are unset)")

// Manager locates and creates the two elfrun config files:
// ./.elfrun.toml in the working directory and config.toml in the global dir.
type Manager struct {
	workDir       string
	globalConfDir string // e.g. ~/.config/elfrun; empty when unknown
}

// NewManager creates a Manager for workDir and the XDG global directory.
func NewManager(workDir string) *Manager {
	return NewManagerWithGlobalDir(workDir, defaultGlobalConfigDir())
}

// NewManagerWithGlobalDir creates a Manager with an explicit global directory.
func NewManagerWithGlobalDir(workDir, globalConfDir string) *Manager {
	return &Manager{
		workDir:       workDir,
		globalConfDir: globalConfDir,
	}
}

func (m *Manager) localPath() string {
	return domain.LocalConfigPath(m.workDir)
}

func (m *Manager) globalPath() string {
	if m.globalConfDir == "" {
		return ""
	}
	return filepath.Join(m.globalConfDir, domain.ConfigFileName)
}

// GetLocalConfigInfo describes ./.elfrun.toml.
func (m *Manager) GetLocalConfigInfo() domain.ConfigInfo {
	return readConfigInfo(m.localPath())
}

// GetGlobalConfigInfo describes the global config.toml. The zero value means
// there is no global directory at all.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	path := m.globalPath()
	if path == "" {
		return domain.ConfigInfo{}
	}
	return readConfigInfo(path)
}

func readConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path}
	}
	return domain.ConfigInfo{Path: path, Content: string(content), Exists: true}
}

// InitLocalConfig writes the rendered template to ./.elfrun.toml.
func (m *Manager) InitLocalConfig(cfg *domain.Config) (string, error) {
	path := m.localPath()
	return path, writeNewConfig(path, cfg)
}

// InitGlobalConfig writes the rendered template to the global config.toml,
// creating the elfrun directory first.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	path := m.globalPath()
	if path == "" {
		return "", errNoGlobalDir
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return path, err
	}
	return path, writeNewConfig(path, cfg)
}

// writeNewConfig creates path exclusively, so an existing file is reported
// as domain.ErrConfigExists and left as it was.
func writeNewConfig(path string, cfg *domain.Config) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", domain.ErrConfigExists, path)
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(domain.RenderConfigTemplate(cfg)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
