// Package cli provides the command-line interface for elfrun.
package cli

import (
	"strconv"

	"github.com/runoshun/elfrun/internal/app"
	"github.com/runoshun/elfrun/internal/domain"
	"github.com/runoshun/elfrun/internal/usecase"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupTools = "tools"
)

// NewRootCommand creates the root command for elfrun.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var opts struct {
		signatures string
		report     string
		maxCycles  uint64
	}

	root := &cobra.Command{
		Use:   "elfrun <path-to-elf-file>",
		Short: "Run a RISC-V ELF image and report pass or fail",
		Long: `elfrun reads a 32-bit RISC-V ELF image, runs it with an empty input
stream and exits 0 when the program succeeds or 1 when it fails.

Nothing is printed except what the program itself prints. Usage errors,
unreadable files and invalid configuration exit with status 2.

A file named like a subcommand must be run as ./inspect or ./config.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return domain.ErrUsage
			}
			return nil
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Warnings go to the log only; the run itself stays silent.
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				c.Logger.Warn("config", w)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.ConfigErr != nil {
				return c.ConfigErr
			}

			maxCycles := c.AppConfig.VM.MaxCycles
			if cmd.Flags().Changed("max-cycles") {
				maxCycles = opts.maxCycles
			}

			c.Logger.Debug("cli", "run "+strconv.Quote(args[0]))
			_, err := c.RunELFUseCase().Execute(cmd.Context(), usecase.RunELFInput{
				Path:          args[0],
				SignaturePath: opts.signatures,
				ReportPath:    opts.report,
				ReportDir:     c.AppConfig.Report.Dir,
				MaxCycles:     maxCycles,
			})
			return err
		},
	}

	root.Flags().StringVar(&opts.signatures, "signatures", "", "Write the begin_signature..end_signature region to `file`")
	root.Flags().StringVar(&opts.report, "report", "", "Write a YAML run report to `file`")
	root.Flags().Uint64Var(&opts.maxCycles, "max-cycles", 0, "Instruction limit, overrides [vm] max_cycles (0 = unlimited)")

	// Files called "completion" or "help" should still run. The replacement
	// help command has no name, so no argument selects it.
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpCommand(&cobra.Command{
		Hidden: true,
		RunE: func(*cobra.Command, []string) error {
			return domain.ErrUsage
		},
	})

	root.AddGroup(&cobra.Group{ID: groupTools, Title: "Other Commands:"})

	inspectCmd := newInspectCommand(c)
	inspectCmd.GroupID = groupTools

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupTools

	root.AddCommand(inspectCmd, configCmd)

	return root
}
