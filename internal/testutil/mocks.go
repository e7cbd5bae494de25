// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/elfrun/internal/domain"
)

// MockClock is a test double for domain.Clock.
// Each call to Now advances the clock by Step.
type MockClock struct {
	NowTime time.Time
	Step    time.Duration
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	t := m.NowTime
	m.NowTime = m.NowTime.Add(m.Step)
	return t
}

// MockImageReader is a test double for domain.ImageReader.
// Fields are ordered to minimize memory padding.
type MockImageReader struct {
	Images    map[string]domain.Payload
	ReadErr   error
	Paths     []string
	CallCount int
}

// NewMockImageReader creates a new MockImageReader with an empty file set.
func NewMockImageReader() *MockImageReader {
	return &MockImageReader{
		Images: make(map[string]domain.Payload),
	}
}

// Ensure MockImageReader implements domain.ImageReader interface.
var _ domain.ImageReader = (*MockImageReader)(nil)

// ReadImage returns the registered image or an ErrReadImage error.
func (m *MockImageReader) ReadImage(path string) (domain.Payload, error) {
	m.CallCount++
	m.Paths = append(m.Paths, path)
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	img, ok := m.Images[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s: no such file", domain.ErrReadImage, path)
	}
	return bytes.Clone(img), nil
}

// MockExecutor is a test double for domain.Executor and domain.ImageInspector.
// Fields are ordered to minimize memory padding.
type MockExecutor struct {
	Result     *domain.ExecutionResult
	Info       *domain.ImageInfo
	ExecErr    error
	InspectErr error
	Requests   []domain.ExecuteRequest
	Inspected  []domain.Payload
}

// NewMockExecutor creates a MockExecutor whose runs succeed.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Result: &domain.ExecutionResult{Halted: true},
		Info:   &domain.ImageInfo{Class: "ELFCLASS32", Machine: "EM_RISCV", Type: "ET_EXEC"},
	}
}

// Ensure MockExecutor implements the execution ports.
var (
	_ domain.Executor       = (*MockExecutor)(nil)
	_ domain.ImageInspector = (*MockExecutor)(nil)
)

// Execute records the request and returns the configured outcome.
func (m *MockExecutor) Execute(ctx context.Context, req domain.ExecuteRequest) (*domain.ExecutionResult, error) {
	m.Requests = append(m.Requests, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.Result, m.ExecErr
}

// Inspect records the image and returns the configured info.
func (m *MockExecutor) Inspect(image domain.Payload) (*domain.ImageInfo, error) {
	m.Inspected = append(m.Inspected, image)
	if m.InspectErr != nil {
		return nil, m.InspectErr
	}
	return m.Info, nil
}

// MockReportWriter is a test double for domain.ReportWriter.
type MockReportWriter struct {
	Reports  map[string]*domain.RunReport
	WriteErr error
}

// NewMockReportWriter creates a new MockReportWriter.
func NewMockReportWriter() *MockReportWriter {
	return &MockReportWriter{
		Reports: make(map[string]*domain.RunReport),
	}
}

// Ensure MockReportWriter implements domain.ReportWriter interface.
var _ domain.ReportWriter = (*MockReportWriter)(nil)

// WriteReport stores the report by path.
func (m *MockReportWriter) WriteReport(path string, report *domain.RunReport) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Reports[path] = report
	return nil
}

// MockSignatureWriter is a test double for domain.SignatureWriter.
type MockSignatureWriter struct {
	Signatures map[string][]uint32
	WriteErr   error
}

// NewMockSignatureWriter creates a new MockSignatureWriter.
func NewMockSignatureWriter() *MockSignatureWriter {
	return &MockSignatureWriter{
		Signatures: make(map[string][]uint32),
	}
}

// Ensure MockSignatureWriter implements domain.SignatureWriter interface.
var _ domain.SignatureWriter = (*MockSignatureWriter)(nil)

// WriteSignature stores the words by path.
func (m *MockSignatureWriter) WriteSignature(path string, words []uint32) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Signatures[path] = words
	return nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitLocalErr     error
	InitGlobalErr    error
	LocalConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitLocalCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		LocalConfigInfo: domain.ConfigInfo{
			Path:   "/work/.elfrun.toml",
			Exists: false,
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path:   "/home/test/.config/elfrun/config.toml",
			Exists: false,
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetLocalConfigInfo returns the configured local config info.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.LocalConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitLocalConfig records the call and returns the configured error.
func (m *MockConfigManager) InitLocalConfig(_ *domain.Config) (string, error) {
	m.InitLocalCalled = true
	return m.LocalConfigInfo.Path, m.InitLocalErr
}

// InitGlobalConfig records the call and returns the configured error.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) (string, error) {
	m.InitGlobalCalled = true
	return m.GlobalConfigInfo.Path, m.InitGlobalErr
}

// LogEntry is one message captured by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger that records every entry.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) add(level, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (m *MockLogger) Debug(category, msg string) { m.add("DEBUG", category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(category, msg string) { m.add("INFO", category, msg) }

// Warn records a warning entry.
func (m *MockLogger) Warn(category, msg string) { m.add("WARN", category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(category, msg string) { m.add("ERROR", category, msg) }

// Has reports whether an entry at level contains substr.
func (m *MockLogger) Has(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Level == level && bytes.Contains([]byte(e.Msg), []byte(substr)) {
			return true
		}
	}
	return false
}
