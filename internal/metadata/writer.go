package metadata

import (
	"fmt"
	"os"
	"strings"
)

// directive marks an interpreter line such as "#!/bin/bash"
const directive = "#!"

// InsertLines returns lines with a fresh block inserted. When the first line
// is an interpreter directive the block goes after it and one blank line.
//
// It does not check for an existing block; callers gate on HasMetadata.
func InsertLines(lines []string, name, description string) []string {
	block := Serialize(name, description)

	if len(lines) > 0 && strings.Contains(lines[0], directive) {
		out := make([]string, 0, len(lines)+len(block)+1)
		out = append(out, lines[0], "")
		out = append(out, block...)
		return append(out, lines[1:]...)
	}

	out := make([]string, 0, len(lines)+len(block))
	out = append(out, block...)
	return append(out, lines...)
}

// Insert rewrites the file at path with a metadata block for name and
// description. It returns false without writing when the file has no lines.
func Insert(path, name, description string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	lines := SplitLines(string(content))
	if len(lines) == 0 {
		return false, nil
	}

	out := strings.Join(InsertLines(lines, name, description), "\n") + "\n"
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return true, nil
}
