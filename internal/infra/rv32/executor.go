// Package rv32 provides the execution service: an RV32IM interpreter that
// understands the OpenVM custom-0 IO instructions.
//
// Images are loaded the way OpenVM loads them. Every word of every executable
// segment is decoded before the first instruction runs, so a data word that
// is not an instruction rejects the whole image. The guest stops with the
// TERMINATE instruction, whose immediate is the exit code.
package rv32

import (
	"context"
	"fmt"
	"io"

	"github.com/runoshun/elfrun/internal/domain"
)

// Ensure Executor implements the domain ports.
var (
	_ domain.Executor       = (*Executor)(nil)
	_ domain.ImageInspector = (*Executor)(nil)
)

// Options configures an Executor.
type Options struct {
	Stdout     io.Writer     // Destination of guest print_str output (nil = discard)
	Logger     domain.Logger // nil = NopLogger
	MemoryBits int           // Address space size; 0 = domain.DefaultMemoryBits
}

// Executor runs ELF images.
type Executor struct {
	stdout     io.Writer
	logger     domain.Logger
	memoryBits int
}

// NewExecutor creates a new Executor.
func NewExecutor(opts Options) *Executor {
	e := &Executor{
		stdout:     opts.Stdout,
		logger:     opts.Logger,
		memoryBits: opts.MemoryBits,
	}
	if e.logger == nil {
		e.logger = domain.NopLogger{}
	}
	if e.memoryBits == 0 {
		e.memoryBits = domain.DefaultMemoryBits
	}
	return e
}

// Execute loads and runs req.Image.
func (e *Executor) Execute(ctx context.Context, req domain.ExecuteRequest) (*domain.ExecutionResult, error) {
	if !req.Target.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedTarget, req.Target)
	}

	prog, err := load(req.Image, e.memoryBits)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	e.logger.Debug("vm", fmt.Sprintf("loaded %d instructions, entry 0x%08x, %d input vectors",
		len(prog.instructions), prog.info.Entry, req.StdIn.Len()))

	m := newMachine(prog, req.StdIn, e.stdout)
	runErr := m.run(ctx, req.MaxCycles)

	res := &domain.ExecutionResult{
		Cycles:       m.cycles,
		ExitCode:     m.exitCode,
		Halted:       m.halted,
		PublicValues: m.publicValues,
	}
	e.logger.Debug("vm", fmt.Sprintf("stopped after %d instructions (halted=%t, exit=%d)", m.cycles, m.halted, m.exitCode))

	if req.CaptureSignature && m.halted {
		sig, err := prog.signature()
		if err != nil {
			return res, err
		}
		res.Signature = sig
	}

	if runErr != nil {
		return res, runErr
	}
	if !res.Success() {
		return res, fmt.Errorf("%w: %d", domain.ErrNonZeroExit, m.exitCode)
	}
	return res, nil
}

// Inspect parses image without running it.
func (e *Executor) Inspect(image domain.Payload) (*domain.ImageInfo, error) {
	return inspect(image)
}
