package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"mdchunk/config"
	"mdchunk/internal/adapter/analyzer"
	"mdchunk/internal/adapter/chunker"
	"mdchunk/internal/adapter/convert"
	"mdchunk/internal/adapter/store"
)

func main() {
	indexPath := flag.String("index", ".", "Path to indexed directory")
	file := flag.String("file", "", "Document to time with different worker counts")
	runs := flag.Int("runs", 5, "Timed runs per worker count")
	flag.Parse()

	cfg, err := config.LoadFromDir(*indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("CHUNKING BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))

	if err := reportIndex(cfg, *indexPath); err != nil {
		fmt.Fprintf(os.Stderr, "Index report not available: %v\n", err)
	}

	if *file != "" {
		if err := timeFile(cfg, *file, *runs); err != nil {
			fmt.Fprintf(os.Stderr, "Timing failed: %v\n", err)
			os.Exit(1)
		}
	}
}

func lengthFunc(cfg *config.Config) func(string) int {
	if cfg.Chunking.LengthUnit == config.UnitTokens {
		return analyzer.NewTokenizer().CountTokens
	}
	return utf8.RuneCountInString
}

// reportIndex prints the chunk length distribution of an existing index.
func reportIndex(cfg *config.Config, dir string) error {
	dbPath := config.IndexDBPath(dir)
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no index at %s - run 'mdchunk index' first", dbPath)
	}
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	docs, err := st.ListDocs()
	if err != nil {
		return err
	}

	size := cfg.Chunking.ChunkSize
	length := lengthFunc(cfg)
	var lengths []int
	for _, doc := range docs {
		chunks, err := st.GetChunksByDoc(doc.ID)
		if err != nil {
			return err
		}
		for _, c := range chunks {
			lengths = append(lengths, length(c.Text))
		}
	}
	if len(lengths) == 0 {
		return fmt.Errorf("index is empty")
	}
	sort.Ints(lengths)

	// Buckets are quarters of chunk_size, plus one for oversized chunks.
	buckets := make([]int, 5)
	for _, n := range lengths {
		b := n * 4 / size
		if n > size {
			b = 4
		} else if b > 3 {
			b = 3
		}
		buckets[b]++
	}

	fmt.Printf("Documents: %d\n", len(docs))
	fmt.Printf("Chunks:    %d (chunk_size=%d %s, chunk_overlap=%d)\n\n",
		len(lengths), size, cfg.Chunking.LengthUnit, cfg.Chunking.ChunkOverlap)

	labels := []string{"0-25%", "25-50%", "50-75%", "75-100%", "oversized"}
	for i, label := range labels {
		share := float64(buckets[i]) / float64(len(lengths))
		fmt.Printf("  %-10s %6d  %s\n", label, buckets[i], strings.Repeat("#", int(share*50)))
	}

	median := lengths[len(lengths)/2]
	fill := float64(median) / float64(size)
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("FILL METRICS:\n")
	fmt.Printf("  Median length: %d (%.0f%% of chunk_size)\n", median, fill*100)
	fmt.Printf("  Max length:    %d\n", lengths[len(lengths)-1])

	switch {
	case buckets[4] > 0:
		fmt.Println("  Status: CHECK - some units could not be split below chunk_size")
	case fill > 0.6:
		fmt.Println("  Status: GOOD - chunks use most of the budget")
	default:
		fmt.Println("  Status: OK - many short sections; consider fewer header levels")
	}
	fmt.Println()
	return nil
}

// timeFile chunks one document with increasing worker counts.
func timeFile(cfg *config.Config, path string, runs int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	text, format, err := convert.NewRegistry().Convert(f, path)
	f.Close()
	if err != nil {
		return err
	}

	fmt.Printf("File: %s (%s, %d chars)\n", path, format, utf8.RuneCountInString(text))
	fmt.Println(strings.Repeat("-", 70))

	for _, workers := range []int{1, 2, 4, 8} {
		chkCfg := chunker.Config{
			Headers:      cfg.Chunking.Headers,
			ChunkSize:    cfg.Chunking.ChunkSize,
			ChunkOverlap: cfg.Chunking.ChunkOverlap,
			Workers:      workers,
			Length:       lengthFunc(cfg),
		}
		chk, err := chunker.New(chkCfg)
		if err != nil {
			return err
		}

		var best time.Duration
		var chunks int
		for i := 0; i < runs; i++ {
			start := time.Now()
			res, err := chk.Chunk(context.Background(), text)
			if err != nil {
				return err
			}
			if elapsed := time.Since(start); i == 0 || elapsed < best {
				best = elapsed
			}
			chunks = len(res.Chunks)
		}
		fmt.Printf("  workers=%d  chunks=%d  best=%v\n", workers, chunks, best.Round(time.Microsecond))
	}
	return nil
}
