package domain

// Payload is the raw byte content of an ELF file.
// It is handed to the executor exactly as read from disk.
type Payload []byte

// Target selects the instruction-set configuration of the execution service.
type Target string

// Supported targets.
const (
	TargetRV32IM Target = "rv32im"
)

// IsValid reports whether t is a known target.
func (t Target) IsValid() bool {
	return t == TargetRV32IM
}

// String returns the target name.
func (t Target) String() string {
	return string(t)
}

// StdIn is the auxiliary input stream offered to the guest program.
// It is an ordered list of byte vectors, consumed one vector at a time.
// The zero value is empty; values are immutable once built.
type StdIn struct {
	items [][]byte
}

// EmptyStdIn is the input stream passed by the CLI: no input is ever
// forwarded to the guest.
var EmptyStdIn = StdIn{}

// With returns a copy of s with data appended as a new input vector.
func (s StdIn) With(data []byte) StdIn {
	items := make([][]byte, len(s.items), len(s.items)+1)
	copy(items, s.items)
	return StdIn{items: append(items, append([]byte(nil), data...))}
}

// Len returns the number of input vectors.
func (s StdIn) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the stream holds no input vectors.
func (s StdIn) IsEmpty() bool {
	return len(s.items) == 0
}

// Items returns a copy of the input vectors.
func (s StdIn) Items() [][]byte {
	out := make([][]byte, len(s.items))
	for i, item := range s.items {
		out[i] = append([]byte(nil), item...)
	}
	return out
}

// ExecuteRequest is the argument of Executor.Execute.
// Fields are ordered to minimize memory padding.
type ExecuteRequest struct {
	Image            Payload // ELF image bytes
	StdIn            StdIn   // Input stream (EmptyStdIn from the CLI)
	Target           Target  // Instruction-set configuration
	MaxCycles        uint64  // 0 = unlimited
	CaptureSignature bool    // Read begin_signature..end_signature after halt
}

// ExecutionResult describes a guest run.
// Fields are ordered to minimize memory padding.
type ExecutionResult struct {
	PublicValues []byte   // Bytes revealed by the guest
	Signature    []uint32 // Signature region words (CaptureSignature only)
	Cycles       uint64   // Executed instructions
	ExitCode     uint32   // Exit code passed to terminate
	Halted       bool     // The guest reached terminate
}

// Success reports whether the guest halted with exit code 0.
func (r *ExecutionResult) Success() bool {
	return r != nil && r.Halted && r.ExitCode == 0
}

// Segment is a loadable ELF program segment.
type Segment struct {
	Vaddr      uint32
	FileSize   uint32
	MemSize    uint32
	Executable bool
	Writable   bool
}

// ImageInfo summarizes an ELF image.
// Fields are ordered to minimize memory padding.
type ImageInfo struct {
	Class          string
	Machine        string
	Type           string
	Segments       []Segment
	Entry          uint32
	SignatureBegin uint32
	SignatureEnd   uint32
	HasSignature   bool
}
