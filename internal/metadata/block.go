package metadata

import (
	"strings"
)

const (
	// StartMarker opens a metadata block.
	StartMarker = "# ---"
	// EndMarker closes a metadata block.
	EndMarker = "# ..."

	commentPrefix = "# "

	keyName        = "RightScript Name"
	keyDescription = "Description"
	keyPackages    = "Packages"
)

// Block is the metadata carried in a script file's header
type Block struct {
	Name        string
	Description string
	// Packages is reserved. It is always written empty.
	Packages []string
}

// Serialize renders the six header lines for a script. The exact shape is
// what Scan and external tooling look for, so it must not change. A
// description spanning several lines is written as an indented literal
// block under the Description key instead.
func Serialize(name, description string) []string {
	lines := []string{
		StartMarker,
		commentPrefix + keyName + ": " + name,
	}
	lines = append(lines, serializeDescription(description)...)
	return append(lines,
		commentPrefix+keyPackages+": ",
		EndMarker,
		commentPrefix,
	)
}

func serializeDescription(description string) []string {
	if !strings.Contains(description, "\n") {
		return []string{commentPrefix + keyDescription + ": " + description}
	}

	indicator := "|-"
	if strings.HasSuffix(description, "\n") {
		indicator = "|"
	}
	body := strings.TrimRight(description, "\n")

	lines := []string{commentPrefix + keyDescription + ": " + indicator}
	for _, l := range strings.Split(body, "\n") {
		if l == "" {
			lines = append(lines, commentPrefix)
			continue
		}
		lines = append(lines, commentPrefix+blockIndent+l)
	}
	return lines
}

// Parse interprets a block body (lines with the "# " prefix already
// stripped, from "---" through "...") as key/value pairs.
//
// Only keys that start at column zero are read, so keys nested under
// another key (an input's Description, say) never shadow the top-level
// ones. A "|" or ">" value takes the indented lines under it as a literal
// or folded block, and a key whose value is a nested mapping or sequence
// is dropped, except Packages which accepts a sequence. Unknown keys are
// ignored and missing keys stay empty.
func Parse(body []string) Block {
	var b Block
	for i := 0; i < len(body); {
		line := strings.TrimRight(body[i], " \t\r")
		i++
		if line == "" || line == "---" || line == "..." || strings.HasPrefix(line, "#") || isIndented(line) {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		var nested []string
		nested, i = nestedRun(body, i, value == "")

		switch strings.TrimSpace(key) {
		case keyName:
			if v, ok := scalar(value, nested); ok {
				b.Name = v
			}
		case keyDescription:
			if v, ok := scalar(value, nested); ok {
				b.Description = v
			}
		case keyPackages:
			b.Packages = packages(value, nested)
		}
	}
	return b
}

const blockIndent = "  "

func isIndented(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isSequenceItem(line string) bool {
	return line == "-" || strings.HasPrefix(line, "- ")
}

// nestedRun collects the lines belonging to the key just read: indented or
// blank lines, plus unindented "- " items when the key had no inline value.
// It returns them and the index of the next top-level line.
func nestedRun(body []string, i int, allowSequence bool) ([]string, int) {
	var run []string
	for ; i < len(body); i++ {
		line := strings.TrimRight(body[i], "\r")
		if line == "..." {
			break
		}
		if !isBlank(line) && !isIndented(line) && !(allowSequence && isSequenceItem(line)) {
			break
		}
		run = append(run, line)
	}
	return run, i
}

// scalar resolves a key's value and the lines nested under it. It reports
// false when the value is a mapping or sequence rather than text.
func scalar(value string, nested []string) (string, bool) {
	if indicator, ok := blockIndicator(value); ok {
		return blockScalar(indicator, nested), true
	}
	if value == "" {
		return "", len(nested) == 0
	}
	if len(nested) == 0 {
		return unquote(value), true
	}

	// plain scalar continued on indented lines
	lines := []string{value}
	for _, l := range nested {
		lines = append(lines, strings.TrimSpace(l))
	}
	for lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return unquote(fold(lines)), true
}

// blockIndicator reports whether value opens a block scalar ("|", ">-",
// "|+2", ...) and returns its style and chomping characters.
func blockIndicator(value string) (string, bool) {
	if value == "" || (value[0] != '|' && value[0] != '>') {
		return "", false
	}
	for _, r := range value[1:] {
		if r != '-' && r != '+' && (r < '0' || r > '9') {
			return "", false
		}
	}
	return value, true
}

func blockScalar(indicator string, nested []string) string {
	lines := dedent(nested)

	trailing := 0
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		trailing++
	}
	if len(lines) == 0 {
		return ""
	}

	var text string
	if indicator[0] == '>' {
		text = fold(lines)
	} else {
		text = strings.Join(lines, "\n")
	}

	switch {
	case strings.Contains(indicator, "-"):
		return text
	case strings.Contains(indicator, "+"):
		return text + strings.Repeat("\n", trailing+1)
	default:
		return text + "\n"
	}
}

// dedent strips the smallest common indentation and blanks whitespace-only lines
func dedent(lines []string) []string {
	indent := -1
	for _, l := range lines {
		if isBlank(l) {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		if isBlank(l) {
			continue
		}
		out[i] = strings.TrimRight(l[indent:], " \t")
	}
	return out
}

// fold joins lines with spaces; an empty line becomes a line break
func fold(lines []string) string {
	var sb strings.Builder
	afterBreak := false
	for _, l := range lines {
		if l == "" {
			sb.WriteByte('\n')
			afterBreak = true
			continue
		}
		if sb.Len() > 0 && !afterBreak {
			sb.WriteByte(' ')
		}
		sb.WriteString(l)
		afterBreak = false
	}
	return sb.String()
}

func packages(value string, nested []string) []string {
	if value != "" {
		return splitPackages(value)
	}

	var items []string
	for _, l := range nested {
		l = strings.TrimSpace(l)
		if !isSequenceItem(l) {
			continue
		}
		if item := unquote(strings.TrimSpace(strings.TrimPrefix(l, "-"))); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// unquote strips one pair of matching single or double quotes
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func splitPackages(value string) []string {
	value = strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
