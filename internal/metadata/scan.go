package metadata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ScanResult describes the metadata block found in a file, if any
type ScanResult struct {
	// Present is true only when both markers were seen in order.
	Present bool
	// Start and End are the line indexes of the two markers. Only valid when Present.
	Start, End int
	// Raw holds the block lines as they appear in the file.
	Raw []string
	// Body holds the block lines with the two-character "# " prefix removed.
	Body []string
}

// blockScanner is a single forward pass over a file's lines. Once the start
// marker is seen it never resets, and it reports done at the end marker.
type blockScanner struct {
	inBlock bool
	index   int
	result  ScanResult
}

// feed consumes one line and reports whether the scan is finished
func (s *blockScanner) feed(line string) bool {
	defer func() { s.index++ }()

	if !s.inBlock {
		if strings.HasPrefix(line, StartMarker) {
			s.inBlock = true
			s.result.Start = s.index
			s.collect(line)
		}
		return false
	}

	s.collect(line)
	if strings.HasPrefix(line, EndMarker) {
		s.result.Present = true
		s.result.End = s.index
		return true
	}
	return false
}

func (s *blockScanner) collect(line string) {
	s.result.Raw = append(s.result.Raw, line)
	s.result.Body = append(s.result.Body, stripPrefix(line))
}

func (s *blockScanner) finish() ScanResult {
	if !s.result.Present {
		return ScanResult{}
	}
	return s.result
}

// stripPrefix drops the first two characters ("# ") of a block line
func stripPrefix(line string) string {
	if len(line) <= len(commentPrefix) {
		return ""
	}
	return line[len(commentPrefix):]
}

// Scan looks for the first metadata block in lines
func Scan(lines []string) ScanResult {
	var s blockScanner
	for _, line := range lines {
		if s.feed(line) {
			break
		}
	}
	return s.finish()
}

// ScanReader scans r line by line and stops reading once the block closes
func ScanReader(r io.Reader) (ScanResult, error) {
	var s blockScanner
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if s.feed(strings.TrimRight(line, "\r\n")) {
				break
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return ScanResult{}, fmt.Errorf("failed to read: %w", err)
		}
	}
	return s.finish(), nil
}

// ScanFile scans the file at path
func ScanFile(path string) (ScanResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	result, err := ScanReader(f)
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	return result, nil
}

// HasMetadata reports whether the file at path carries a complete block
func HasMetadata(path string) (bool, error) {
	result, err := ScanFile(path)
	if err != nil {
		return false, err
	}
	return result.Present, nil
}

// ReadBlock scans and parses the file's metadata block. The boolean is
// false when the file has no complete block.
func ReadBlock(path string) (Block, bool, error) {
	result, err := ScanFile(path)
	if err != nil {
		return Block{}, false, err
	}
	if !result.Present {
		return Block{}, false, nil
	}
	return Parse(result.Body), true, nil
}

// SplitLines splits content on newlines and drops trailing empty entries,
// so content made only of newlines has zero lines.
func SplitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
