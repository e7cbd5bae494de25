// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/runoshun/elfrun/internal/domain"
)

// RunELFInput contains the parameters for running an ELF image.
// Fields are ordered to minimize memory padding.
type RunELFInput struct {
	Path          string // Path to the ELF file (required)
	SignaturePath string // Write the signature region here (optional)
	ReportPath    string // Write the YAML run report here (optional)
	ReportDir     string // Write <dir>/<run-id>.yaml when ReportPath is empty (optional)
	MaxCycles     uint64 // Instruction limit (0 = unlimited)
}

// RunELFOutput contains the result of a successful run.
type RunELFOutput struct {
	Result     *domain.ExecutionResult // Outcome reported by the execution service
	RunID      string                  // Identifier recorded in the report
	ReportPath string                  // Report written, if any
}

// RunELF reads an ELF file and hands it to the execution service with an
// empty input stream on the 32-bit RISC-V target.
type RunELF struct {
	images     domain.ImageReader
	executor   domain.Executor
	reports    domain.ReportWriter
	signatures domain.SignatureWriter
	clock      domain.Clock
	logger     domain.Logger
}

// NewRunELF creates a new RunELF use case.
func NewRunELF(
	images domain.ImageReader,
	executor domain.Executor,
	reports domain.ReportWriter,
	signatures domain.SignatureWriter,
	clock domain.Clock,
	logger domain.Logger,
) *RunELF {
	return &RunELF{
		images:     images,
		executor:   executor,
		reports:    reports,
		signatures: signatures,
		clock:      clock,
		logger:     logger,
	}
}

// Execute runs the image at in.Path.
//
// Errors wrap domain.ErrReadImage when the file cannot be read (nothing is
// executed), domain.ErrExecutionFailed when the execution service reports a
// failure, and domain.ErrWriteArtifact when a signature or report file cannot
// be written. Artifact errors take precedence over execution failures.
func (uc *RunELF) Execute(ctx context.Context, in RunELFInput) (*RunELFOutput, error) {
	image, err := uc.images.ReadImage(in.Path)
	if err != nil {
		if !errors.Is(err, domain.ErrReadImage) {
			err = fmt.Errorf("%w: %w", domain.ErrReadImage, err)
		}
		uc.logger.Error("run", err.Error())
		return nil, err
	}
	uc.logger.Info("run", fmt.Sprintf("read %s (%d bytes)", in.Path, len(image)))

	out := &RunELFOutput{RunID: uuid.NewString()}
	started := uc.clock.Now()

	res, execErr := uc.executor.Execute(ctx, domain.ExecuteRequest{
		Image:            image,
		StdIn:            domain.EmptyStdIn,
		Target:           domain.TargetRV32IM,
		MaxCycles:        in.MaxCycles,
		CaptureSignature: in.SignaturePath != "",
	})
	duration := uc.clock.Now().Sub(started)
	out.Result = res

	// A missing signature region is a problem with the requested artifact,
	// not with the guest.
	if errors.Is(execErr, domain.ErrNoSignatureRegion) {
		err := fmt.Errorf("%w: %s: %w", domain.ErrWriteArtifact, in.SignaturePath, execErr)
		uc.logger.Error("run", err.Error())
		return nil, err
	}

	if execErr != nil {
		uc.logger.Error("run", fmt.Sprintf("run %s failed: %v", out.RunID, execErr))
	} else {
		uc.logger.Info("run", fmt.Sprintf("run %s succeeded", out.RunID))
	}
	if res != nil {
		uc.logger.Debug("run", fmt.Sprintf("cycles=%d exit=%d halted=%t", res.Cycles, res.ExitCode, res.Halted))
	}

	if in.SignaturePath != "" {
		if err := uc.writeSignature(in.SignaturePath, res); err != nil {
			return nil, err
		}
	}

	reportPath := in.ReportPath
	if reportPath == "" && in.ReportDir != "" {
		reportPath = domain.ReportPath(in.ReportDir, out.RunID)
	}
	if reportPath != "" {
		report := uc.buildReport(in.Path, image, out.RunID, started, duration, res, execErr)
		if err := uc.reports.WriteReport(reportPath, report); err != nil {
			err = fmt.Errorf("%w: %s: %w", domain.ErrWriteArtifact, reportPath, err)
			uc.logger.Error("run", err.Error())
			return nil, err
		}
		out.ReportPath = reportPath
	}

	if execErr != nil {
		return out, fmt.Errorf("%w: %w", domain.ErrExecutionFailed, execErr)
	}
	return out, nil
}

// writeSignature writes the captured signature. Runs that never reached
// terminate have none and leave the file alone.
func (uc *RunELF) writeSignature(path string, res *domain.ExecutionResult) error {
	if res == nil || res.Signature == nil {
		uc.logger.Warn("run", fmt.Sprintf("no signature captured, %s not written", path))
		return nil
	}
	if err := uc.signatures.WriteSignature(path, res.Signature); err != nil {
		err = fmt.Errorf("%w: %s: %w", domain.ErrWriteArtifact, path, err)
		uc.logger.Error("run", err.Error())
		return err
	}
	uc.logger.Info("run", fmt.Sprintf("wrote %d signature words to %s", len(res.Signature), path))
	return nil
}

func (uc *RunELF) buildReport(
	path string,
	image domain.Payload,
	runID string,
	started time.Time,
	duration time.Duration,
	res *domain.ExecutionResult,
	execErr error,
) *domain.RunReport {
	sum := sha256.Sum256(image)
	report := &domain.RunReport{
		StartedAt: started,
		RunID:     runID,
		Path:      path,
		SHA256:    hex.EncodeToString(sum[:]),
		Target:    domain.TargetRV32IM,
		Size:      len(image),
		Duration:  duration,
		Success:   execErr == nil,
	}
	if execErr != nil {
		report.Error = execErr.Error()
	}
	if res != nil {
		report.Cycles = res.Cycles
		report.ExitCode = res.ExitCode
		report.Halted = res.Halted
		if len(res.PublicValues) > 0 {
			report.PublicValues = hex.EncodeToString(res.PublicValues)
		}
	}
	return report
}
