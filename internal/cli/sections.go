package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections FILE",
	Short: "Show the header structure of a document",
	Long: `Print the sections found by the header splitter: index, first content line,
content length and header path. Structural warnings are printed after the table.

Examples:
  mdchunk sections guide.md
  cat notes.md | mdchunk sections -`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, args []string) error {
	uc, err := newChunkUseCase(GetConfig())
	if err != nil {
		return err
	}

	var (
		in   io.Reader
		name = args[0]
	)
	if name == "-" {
		in, name = cmd.InOrStdin(), "stdin.md"
	} else {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer f.Close()
		in = f
	}

	sections, warnings, err := uc.Sections(in, name)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tLINE\tLENGTH\tPATH")
	for _, s := range sections {
		path := s.Path.Join()
		if path == "" {
			path = "(preamble)"
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", s.Index, s.StartLine, len([]rune(s.Content)), path)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: line %d: %s\n", w.Line, w.Message)
	}
	return nil
}
