package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/runoshun/elfrun/internal/app"
	"github.com/runoshun/elfrun/internal/domain"
	"github.com/runoshun/elfrun/internal/usecase"
	"github.com/spf13/cobra"
)

// newInspectCommand creates the inspect command.
func newInspectCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path-to-elf-file>",
		Short: "Show ELF header, loadable segments and signature symbols",
		Long: `Show what the runner would load from an ELF image without running it.

Prints the header fields, every PT_LOAD segment and the address range between
the begin_signature and end_signature symbols when both are present.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.InspectELFUseCase().Execute(cmd.Context(), usecase.InspectELFInput{Path: args[0]})
			if err != nil {
				return err
			}
			printImageInfo(cmd.OutOrStdout(), args[0], out)
			return nil
		},
	}
}

func printImageInfo(w io.Writer, path string, out *usecase.InspectELFOutput) {
	st := newStyles(w)
	info := out.Info

	row := func(label, value string) {
		_, _ = fmt.Fprintln(w, st.Label.Render(label)+st.Value.Render(value))
	}

	_, _ = fmt.Fprintln(w, st.Header.Render(path))
	row("Size", fmt.Sprintf("%d bytes", out.Size))
	row("Class", info.Class)
	row("Machine", info.Machine)
	row("Type", info.Type)
	row("Entry", fmt.Sprintf("0x%08x", info.Entry))
	if info.HasSignature {
		row("Signature", fmt.Sprintf("0x%08x-0x%08x (%d words)",
			info.SignatureBegin, info.SignatureEnd, (info.SignatureEnd-info.SignatureBegin+3)/4))
	} else {
		row("Signature", st.Muted.Render("none"))
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, st.Header.Render(fmt.Sprintf("Segments (%d)", len(info.Segments))))
	for _, seg := range info.Segments {
		_, _ = fmt.Fprintf(w, "  0x%08x  filesz 0x%-8x memsz 0x%-8x %s\n",
			seg.Vaddr, seg.FileSize, seg.MemSize, st.Flag.Render(segmentFlags(seg)))
	}
}

// segmentFlags renders R/W/X permissions like readelf.
func segmentFlags(seg domain.Segment) string {
	var b strings.Builder
	b.WriteByte('R')
	if seg.Writable {
		b.WriteByte('W')
	} else {
		b.WriteByte(' ')
	}
	if seg.Executable {
		b.WriteByte('E')
	} else {
		b.WriteByte(' ')
	}
	return b.String()
}
