package domain

import "errors"

// Domain errors.
var (
	ErrUsage           = errors.New("usage: elfrun <path-to-elf-file>")
	ErrReadImage       = errors.New("failed to read ELF")
	ErrEmptyPath       = errors.New("path cannot be empty")
	ErrExecutionFailed = errors.New("execution failed")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrWriteArtifact   = errors.New("failed to write output file")
	ErrConfigExists    = errors.New("config file already exists")

	// Execution service errors. All of them are wrapped by ErrExecutionFailed
	// before they reach the CLI.
	ErrInvalidELF          = errors.New("invalid ELF image")
	ErrUnsupportedTarget   = errors.New("unsupported target")
	ErrIllegalInstruction  = errors.New("illegal instruction")
	ErrUnsupportedSyscall  = errors.New("unsupported system instruction")
	ErrPCOutOfBounds       = errors.New("pc out of program bounds")
	ErrMisaligned          = errors.New("misaligned memory access")
	ErrAddressOutOfRange   = errors.New("address out of range")
	ErrHintStreamExhausted = errors.New("hint stream exhausted")
	ErrInputExhausted      = errors.New("no more input")
	ErrNonZeroExit         = errors.New("guest terminated with non-zero exit code")
	ErrCycleLimit          = errors.New("instruction limit exceeded")
	ErrNoSignatureRegion   = errors.New("begin_signature/end_signature symbols not found")
)
