package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyStdIn(t *testing.T) {
	assert.True(t, EmptyStdIn.IsEmpty())
	assert.Equal(t, 0, EmptyStdIn.Len())
	assert.Empty(t, EmptyStdIn.Items())
	assert.Equal(t, StdIn{}, EmptyStdIn)
}

func TestStdIn_With_DoesNotMutateReceiver(t *testing.T) {
	base := EmptyStdIn.With([]byte("a"))
	extended := base.With([]byte("b"))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())
	assert.True(t, EmptyStdIn.IsEmpty(), "EmptyStdIn must stay empty")
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, extended.Items())
}

func TestStdIn_With_CopiesData(t *testing.T) {
	data := []byte{1, 2, 3}
	in := EmptyStdIn.With(data)
	data[0] = 9

	items := in.Items()
	require.Len(t, items, 1)
	assert.Equal(t, []byte{1, 2, 3}, items[0])

	items[0][1] = 9
	assert.Equal(t, []byte{1, 2, 3}, in.Items()[0], "Items must return copies")
}

func TestTarget_IsValid(t *testing.T) {
	assert.True(t, TargetRV32IM.IsValid())
	assert.False(t, Target("rv64im").IsValid())
	assert.False(t, Target("").IsValid())
	assert.Equal(t, "rv32im", TargetRV32IM.String())
}

func TestExecutionResult_Success(t *testing.T) {
	tests := []struct {
		result *ExecutionResult
		name   string
		want   bool
	}{
		{nil, "nil result", false},
		{&ExecutionResult{Halted: true, ExitCode: 0}, "halted with zero", true},
		{&ExecutionResult{Halted: true, ExitCode: 1}, "halted with non-zero", false},
		{&ExecutionResult{Halted: false, ExitCode: 0}, "not halted", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Success())
		})
	}
}
