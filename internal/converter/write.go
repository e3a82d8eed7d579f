package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafeFileName is returned when a channel name would escape the output directory
var ErrUnsafeFileName = errors.New("unsafe output file name")

// WriteFiles writes every generated file into dir, creating it if needed.
// Channel files are written in discovery order, then the shared file.
// It returns the paths written.
func WriteFiles(dir string, res *Result) ([]string, error) {
	files := res.Files.All()
	if res.HasSharedFile() {
		files = append(files, OutputFile{Name: SharedFileName, Content: res.SharedFile})
	}
	if len(files) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if f.Name != filepath.Base(f.Name) || strings.HasPrefix(f.Name, ".") || strings.ContainsAny(f.Name, `/\`) {
			return written, fmt.Errorf("%w: %q", ErrUnsafeFileName, f.Name)
		}
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		written = append(written, path)
	}
	return written, nil
}
