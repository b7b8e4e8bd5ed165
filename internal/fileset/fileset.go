// Package fileset turns command-line path arguments into the batch of script
// files a command operates on.
package fileset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Niarfe/scripts-r-us/internal/logging"
	"github.com/Niarfe/scripts-r-us/internal/metadata"
	"github.com/Niarfe/scripts-r-us/internal/models"
)

// Resolve validates paths in argument order and returns the eligible files,
// deduplicated with the first occurrence winning. A missing path is an
// ErrNotFound error; directories, non-regular files and files with no lines
// are skipped with a warning.
func Resolve(paths []string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var files []string
	seen := make(map[string]bool)

	for _, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %s does not exist: %w", path, models.ErrNotFound)
		} else if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if info.IsDir() {
			logger.Warn("skipping directory", logging.Path(path))
			continue
		}
		if !info.Mode().IsRegular() {
			logger.Warn("skipping non-regular file", logging.Path(path))
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(metadata.SplitLines(string(content))) == 0 {
			logger.Warn("skipping empty file", logging.Path(path))
			continue
		}

		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	return files, nil
}

// Partition splits files by whether they carry a complete metadata block.
// Every input lands in exactly one of the two lists, in input order.
func Partition(files []string) (withMetadata, withoutMetadata []string, err error) {
	for _, file := range files {
		ok, err := metadata.HasMetadata(file)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			withMetadata = append(withMetadata, file)
		} else {
			withoutMetadata = append(withoutMetadata, file)
		}
	}
	return withMetadata, withoutMetadata, nil
}
