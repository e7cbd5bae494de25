package domain

import "time"

// RunReport records one invocation of the runner.
// Fields are ordered to minimize memory padding.
type RunReport struct {
	StartedAt    time.Time     `yaml:"started_at"`
	RunID        string        `yaml:"run_id"`
	Path         string        `yaml:"path"`
	SHA256       string        `yaml:"sha256"`
	Target       Target        `yaml:"target"`
	Error        string        `yaml:"error,omitempty"`
	PublicValues string        `yaml:"public_values,omitempty"` // hex
	Size         int           `yaml:"size"`
	Duration     time.Duration `yaml:"duration"`
	Cycles       uint64        `yaml:"cycles"`
	ExitCode     uint32        `yaml:"exit_code"`
	Halted       bool          `yaml:"halted"`
	Success      bool          `yaml:"success"`
}
