package cli

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runoshun/elfrun/internal/app"
	"github.com/runoshun/elfrun/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const integrationBase = 0x1000

// writeProgram writes a minimal RV32 executable whose only segment holds code.
func writeProgram(t *testing.T, dir string, code ...uint32) string {
	t.Helper()
	le := binary.LittleEndian
	const ehsize, phentsize = 52, 32

	hdr := make([]byte, ehsize)
	copy(hdr, elf.ELFMAG)
	hdr[elf.EI_CLASS] = byte(elf.ELFCLASS32)
	hdr[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	le.PutUint16(hdr[16:], uint16(elf.ET_EXEC))
	le.PutUint16(hdr[18:], uint16(elf.EM_RISCV))
	le.PutUint32(hdr[20:], uint32(elf.EV_CURRENT))
	le.PutUint32(hdr[24:], integrationBase)
	le.PutUint32(hdr[28:], ehsize)
	le.PutUint16(hdr[40:], ehsize)
	le.PutUint16(hdr[42:], phentsize)
	le.PutUint16(hdr[44:], 1)

	text := make([]byte, 4*len(code))
	for i, w := range code {
		le.PutUint32(text[4*i:], w)
	}

	ph := make([]byte, phentsize)
	le.PutUint32(ph[0:], uint32(elf.PT_LOAD))
	le.PutUint32(ph[4:], ehsize+phentsize)
	le.PutUint32(ph[8:], integrationBase)
	le.PutUint32(ph[12:], integrationBase)
	le.PutUint32(ph[16:], uint32(len(text)))
	le.PutUint32(ph[20:], uint32(len(text)))
	le.PutUint32(ph[24:], uint32(elf.PF_R|elf.PF_X))
	le.PutUint32(ph[28:], 4)

	var buf bytes.Buffer
	buf.Write(hdr)
	buf.Write(ph)
	buf.Write(text)

	path := filepath.Join(dir, "prog.elf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// terminateWith encodes the custom-0 terminate instruction.
func terminateWith(code uint32) uint32 {
	return code<<20 | 0x0b
}

func newIntegrationContainer(t *testing.T) (*app.Container, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout bytes.Buffer
	c, err := app.New(t.TempDir(), &stdout)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, &stdout
}

func runRoot(c *app.Container, args ...string) (string, error) {
	root := NewRootCommand(c, "test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestIntegration_RunSucceeds(t *testing.T) {
	c, stdout := newIntegrationContainer(t)
	path := writeProgram(t, t.TempDir(), terminateWith(0))

	out, err := runRoot(c, path)

	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, ExitCode(err))
	assert.Empty(t, out)
	assert.Empty(t, stdout.String())
}

func TestIntegration_RunFails(t *testing.T) {
	c, _ := newIntegrationContainer(t)
	path := writeProgram(t, t.TempDir(), terminateWith(1))

	_, err := runRoot(c, path)

	require.ErrorIs(t, err, domain.ErrNonZeroExit)
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestIntegration_EmptyInputStream(t *testing.T) {
	c, _ := newIntegrationContainer(t)
	// PHANTOM HintInput with nothing to read.
	hintInput := uint32(3<<12 | 0x0b)
	path := writeProgram(t, t.TempDir(), hintInput, terminateWith(0))

	_, err := runRoot(c, path)

	require.ErrorIs(t, err, domain.ErrInputExhausted)
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestIntegration_NotAnELF(t *testing.T) {
	c, _ := newIntegrationContainer(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := runRoot(c, path)

	require.ErrorIs(t, err, domain.ErrInvalidELF)
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestIntegration_MissingFile(t *testing.T) {
	c, _ := newIntegrationContainer(t)

	_, err := runRoot(c, filepath.Join(t.TempDir(), "missing.elf"))

	require.ErrorIs(t, err, domain.ErrReadImage)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, ExitAbnormal, ExitCode(err))
}

func TestIntegration_ReportFile(t *testing.T) {
	c, _ := newIntegrationContainer(t)
	dir := t.TempDir()
	path := writeProgram(t, dir, terminateWith(0))
	reportPath := filepath.Join(dir, "out", "run.yaml")

	_, err := runRoot(c, path, "--report", reportPath)

	require.NoError(t, err)
	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "success: true")
	assert.Contains(t, string(data), "target: rv32im")
	assert.Contains(t, string(data), "cycles: 1")
}

func TestIntegration_Inspect(t *testing.T) {
	c, _ := newIntegrationContainer(t)
	path := writeProgram(t, t.TempDir(), terminateWith(0))

	out, err := runRoot(c, "inspect", path)

	require.NoError(t, err)
	assert.Contains(t, out, "EM_RISCV")
	assert.Contains(t, out, "0x00001000")
	assert.True(t, strings.Contains(out, "Segments (1)"))
}
