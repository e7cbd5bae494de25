package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/elfrun/internal/cli"
	"github.com/runoshun/elfrun/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestRun_NoArgs(t *testing.T) {
	isolate(t)

	err := run(context.Background(), []string{})

	require.ErrorIs(t, err, domain.ErrUsage)
	assert.Equal(t, cli.ExitAbnormal, cli.ExitCode(err))
}

func TestRun_MissingFile(t *testing.T) {
	isolate(t)

	err := run(context.Background(), []string{"does-not-exist.elf"})

	require.ErrorIs(t, err, domain.ErrReadImage)
	assert.Equal(t, cli.ExitAbnormal, cli.ExitCode(err))
}

func TestRun_GarbageFileFailsExecution(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "garbage.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xde, 0xad, 0xbe, 0xef}, 0o644))

	err := run(context.Background(), []string{path})

	require.ErrorIs(t, err, domain.ErrExecutionFailed)
	assert.Equal(t, cli.ExitFailure, cli.ExitCode(err))
}

func TestRun_InvalidConfig(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(domain.LocalConfigPath(dir), []byte("[vm]\nmemory_bits = 1\n"), 0o644))

	err := run(context.Background(), []string{"prog.elf"})

	require.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Equal(t, cli.ExitAbnormal, cli.ExitCode(err))
}

func TestRun_RejectedFileNamedLikeCommand(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"help", cli.ExitFailure},
		{"completion", cli.ExitFailure},
		{"config", cli.ExitAbnormal},
		{"./config", cli.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, filepath.Base(tt.name)), []byte("not an elf at all"), 0o644))

			err := run(context.Background(), []string{tt.name})

			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err))
		})
	}
}
