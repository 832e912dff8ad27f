package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mdchunk/internal/adapter/output"
	"mdchunk/internal/domain"
)

var (
	chunkOutput  string
	chunkPreview bool
	chunkSize    int
	chunkOverlap int
	chunkFormat  string
	chunkStdout  bool
)

var chunkCmd = &cobra.Command{
	Use:   "chunk FILE",
	Short: "Chunk a single document",
	Long: `Convert a document to markdown, split it by headers and then into bounded,
overlapping chunks. Use "-" to read markdown from standard input.

Examples:
  mdchunk chunk guide.md                       # Writes guide.chunks.txt
  mdchunk chunk report.pdf -o out.txt --preview
  mdchunk chunk page.html --format jsonl --stdout
  cat notes.md | mdchunk chunk - --chunk-size 400`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	rootCmd.AddCommand(chunkCmd)
	chunkCmd.Flags().StringVarP(&chunkOutput, "output", "o", "", "output file (default is <input>.chunks.txt)")
	chunkCmd.Flags().BoolVar(&chunkPreview, "preview", false, "print the first chunks")
	chunkCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "maximum chunk length (default from config)")
	chunkCmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 0, "maximum overlap between chunks (default from config)")
	chunkCmd.Flags().StringVar(&chunkFormat, "format", "", "output format: text, jsonl, json (default from config)")
	chunkCmd.Flags().BoolVar(&chunkStdout, "stdout", false, "write chunks to standard output")
}

func runChunk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cmd.Flags().Changed("chunk-size") {
		cfg.Chunking.ChunkSize = chunkSize
	}
	if cmd.Flags().Changed("chunk-overlap") {
		cfg.Chunking.ChunkOverlap = chunkOverlap
	}
	if chunkFormat != "" {
		cfg.Output.Format = chunkFormat
	}

	uc, err := newChunkUseCase(cfg)
	if err != nil {
		return err
	}

	input := args[0]
	var (
		doc domain.Document
		res domain.Result
	)
	if input == "-" {
		doc, err = uc.Load(cmd.InOrStdin(), "stdin.md")
		if err == nil {
			res, err = uc.ChunkDocument(cmd.Context(), doc)
		}
	} else {
		doc, res, err = uc.ChunkFile(cmd.Context(), input)
	}
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"doc":       doc.Path,
		"format":    doc.Format,
		"sections":  len(res.Sections),
		"chunks":    len(res.Chunks),
		"oversized": res.OversizedCount,
	}).Info("chunked")

	var w io.Writer = cmd.OutOrStdout()
	dest := "stdout"
	if chunkOutput != "" || (!chunkStdout && input != "-") {
		dest = chunkOutput
		if dest == "" {
			dest = output.DefaultPath(input, cfg.Output.Format)
		}
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := output.Write(w, res.Chunks, cfg.Output.Format); err != nil {
		return fmt.Errorf("failed to write chunks: %w", err)
	}

	if dest != "stdout" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Total chunks: %d (%d oversized)\nSaved to: %s\n", len(res.Chunks), res.OversizedCount, dest)
	}

	if chunkPreview {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n===== PREVIEW =====\n\n")
		if err := output.WritePreview(cmd.ErrOrStderr(), res.Chunks); err != nil {
			return err
		}
	}
	return nil
}
