package results

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxAttempts bounds the numbered suffixes tried before giving up.
const maxAttempts = 1000

type resultFile interface {
	io.Writer
	io.Closer
}

// createFile creates path exclusively; replaced in tests.
var createFile = func(path string) (resultFile, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// PathFor returns the default result path for a source file:
// dir/<name>.result.txt, where name is the source file name without extension.
func PathFor(sourcePath, dir string) string {
	base := filepath.Base(sourcePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = filepath.Dir(sourcePath)
	}
	return filepath.Join(dir, name+".result.txt")
}

// Save writes data to path without overwriting anything. If path exists it
// tries name-1.ext, name-2.ext, ... and returns the path actually written.
func Save(path string, data []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create result directory: %w", err)
	}

	ext := filepath.Ext(path)
	if strings.HasSuffix(path, ".result.txt") {
		ext = ".result.txt"
	}
	stem := strings.TrimSuffix(path, ext)

	candidate := path
	for i := 1; i <= maxAttempts; i++ {
		f, err := createFile(candidate)
		if errors.Is(err, fs.ErrExist) {
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", candidate, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(candidate)
			return "", fmt.Errorf("write %s: %w", candidate, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(candidate)
			return "", fmt.Errorf("close %s: %w", candidate, err)
		}
		return candidate, nil
	}
	return "", fmt.Errorf("no free file name for %s after %d attempts", path, maxAttempts)
}
