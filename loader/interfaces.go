package loader

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileResolver opens record files.
type FileResolver interface {
	// Resolve returns the content of path and its canonical form, used in
	// error messages.
	Resolve(path string) (content io.ReadCloser, canonicalPath string, err error)
}

// DiskResolver reads files from the local filesystem.
type DiskResolver struct{}

func (DiskResolver) Resolve(path string) (io.ReadCloser, string, error) {
	canonical, err := filepath.Abs(path)
	if err != nil {
		canonical = path
	}
	f, err := os.Open(canonical)
	if err != nil {
		return nil, canonical, err
	}
	return f, canonical, nil
}

// FSResolver reads files from an fs.FS, such as an embedded data set.
type FSResolver struct {
	FS fs.FS
}

func (r FSResolver) Resolve(path string) (io.ReadCloser, string, error) {
	f, err := r.FS.Open(filepath.ToSlash(path))
	if err != nil {
		return nil, path, err
	}
	return f, path, nil
}
