//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"
	"time"
	"unicode/utf8"

	"mdchunk/internal/adapter/chunker"
	"mdchunk/internal/adapter/memstore"
	"mdchunk/internal/domain"
	"mdchunk/internal/port"
	"mdchunk/internal/usecase"
)

var store = memstore.NewMemoryStore()

func main() {
	c := make(chan struct{})

	js.Global().Set("mdchunkChunk", js.FuncOf(chunkContent))
	js.Global().Set("mdchunkSections", js.FuncOf(sectionContent))
	js.Global().Set("mdchunkClear", js.FuncOf(clearStore))
	js.Global().Set("mdchunkStats", js.FuncOf(getStats))

	<-c
}

// chunkContent(filename, markdown, [chunkSize], [chunkOverlap])
func chunkContent(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: mdchunkChunk(filename, markdown, [chunkSize], [chunkOverlap])")
	}

	cfg := chunker.DefaultConfig()
	if len(args) > 2 {
		cfg.ChunkSize = args[2].Int()
	}
	if len(args) > 3 {
		cfg.ChunkOverlap = args[3].Int()
	}
	chk, err := chunker.New(cfg)
	if err != nil {
		return makeError(err.Error())
	}

	filename := args[0].String()
	doc := domain.Document{
		ID:      usecase.DocID(filename),
		Path:    filename,
		ModTime: time.Now(),
		Format:  "markdown",
		Content: args[1].String(),
	}

	res, err := chk.Chunk(context.Background(), doc.Content)
	if err != nil {
		return makeError("chunking failed: " + err.Error())
	}

	doc = usecase.Summarize(doc, res, utf8.RuneCountInString)
	err = store.BatchIndex([]port.IndexedFile{{
		Doc:    doc,
		Chunks: domain.StoredChunks(doc.ID, res.Chunks),
	}})
	if err != nil {
		return makeError("storing failed: " + err.Error())
	}
	updateStats()

	return makeResult(map[string]interface{}{
		"filename":  filename,
		"chunks":    res.Chunks,
		"oversized": res.OversizedCount,
		"warnings":  res.Warnings,
	})
}

func sectionContent(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: mdchunkSections(markdown)")
	}

	splitter, err := chunker.NewHeaderSplitter(domain.DefaultHeaderLevels())
	if err != nil {
		return makeError(err.Error())
	}
	sections, warnings := splitter.Split(args[0].String())

	out := make([]map[string]interface{}, 0, len(sections))
	for _, s := range sections {
		out = append(out, map[string]interface{}{
			"index":     s.Index,
			"path":      s.Path.Join(),
			"headers":   s.Path.Labels(),
			"startLine": s.StartLine,
			"content":   s.Content,
		})
	}

	return makeResult(map[string]interface{}{
		"sections": out,
		"warnings": warnings,
	})
}

func clearStore(this js.Value, args []js.Value) interface{} {
	store = memstore.NewMemoryStore()
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	stats, _ := store.GetStats()
	docs, _ := store.ListDocs()

	filenames := make([]string, len(docs))
	for i, doc := range docs {
		filenames[i] = doc.Path
	}

	return makeResult(map[string]interface{}{
		"totalDocs":   stats.TotalDocs,
		"totalChunks": stats.TotalChunks,
		"oversized":   stats.OversizedCount,
		"avgChunkLen": stats.AvgChunkLen,
		"files":       filenames,
	})
}

func updateStats() {
	docs, _ := store.ListDocs()
	stats := domain.Stats{TotalDocs: len(docs)}
	totalLen := 0
	for _, doc := range docs {
		stats.TotalChunks += doc.Chunks
		stats.OversizedCount += doc.Oversized
		stats.WarningCount += doc.Warnings
		totalLen += doc.TotalChunkLen
	}
	if stats.TotalChunks > 0 {
		stats.AvgChunkLen = float64(totalLen) / float64(stats.TotalChunks)
	}
	store.UpdateStats(stats)
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
