package port

import "io"

// FileWalker lists candidate source files under a root.
type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	RelPath string
	ModTime int64
	Size    int64
}

type FileOpener interface {
	Open(path string) (io.ReadCloser, error)
}
