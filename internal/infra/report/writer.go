// Package report writes run artifacts: the YAML run report and the
// RISCOF signature file.
package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/elfrun/internal/domain"
	"gopkg.in/yaml.v3"
)

// Ensure Writer implements the domain ports.
var (
	_ domain.ReportWriter    = (*Writer)(nil)
	_ domain.SignatureWriter = (*Writer)(nil)
)

// Writer writes artifacts to the local file system.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteReport marshals report as YAML and writes it to path,
// creating parent directories as needed.
func (w *Writer) WriteReport(path string, report *domain.RunReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := ensureParent(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // Reports are meant to be shared
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteSignature writes one lowercase 8-digit hex word per line.
func (w *Writer) WriteSignature(path string, words []uint32) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // Path comes from the command line
	if err != nil {
		return fmt.Errorf("create signature file: %w", err)
	}

	bw := bufio.NewWriter(f)
	for _, word := range words {
		if _, err := fmt.Fprintf(bw, "%08x\n", word); err != nil {
			_ = f.Close()
			return fmt.Errorf("write signature: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write signature: %w", err)
	}
	return f.Close()
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return nil
}
