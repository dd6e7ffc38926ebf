package listing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for content extraction.
var (
	ErrBlockNotFound  = errors.New("input block not found")
	ErrUnbalanced     = errors.New("unbalanced input block")
	ErrMarkerNotFound = errors.New("marker not found")
)

var (
	sectionOpen  = regexp.MustCompile(`^\s*\[[^\[\]\s]+\]\s*(?:#.*)?$`)
	sectionClose = regexp.MustCompile(`^\s*\[(?:\.\./)?\]\s*(?:#.*)?$`)
)

// StripHeader removes the leading comment block of a source file (lines
// starting with # or //, or one /* */ comment) and the blank lines after it.
func StripHeader(content string) string {
	lines := strings.Split(content, "\n")
	i := 0
	if i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "/*") {
		for i < len(lines) {
			done := strings.Contains(lines[i], "*/")
			i++
			if done {
				break
			}
		}
	}
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if strings.HasPrefix(t, "#") || strings.HasPrefix(t, "//") {
			i++
			continue
		}
		break
	}
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return strings.Join(lines[i:], "\n")
}

// ExtractBlock returns the top-level hierarchical input block [name] ... []
// of content, both delimiter lines included. Nested sub-blocks are matched
// by counting brackets.
func ExtractBlock(content, name string) (string, error) {
	lines := strings.Split(content, "\n")
	header := regexp.MustCompile(`^\s*\[` + regexp.QuoteMeta(name) + `\]\s*(?:#.*)?$`)
	start := -1
	depth := 0
	for i, line := range lines {
		if start < 0 {
			if depth == 0 && header.MatchString(line) {
				start = i
				depth = 1
				continue
			}
			switch {
			case sectionClose.MatchString(line):
				depth--
			case sectionOpen.MatchString(line):
				depth++
			}
			continue
		}
		switch {
		case sectionClose.MatchString(line):
			depth--
		case sectionOpen.MatchString(line):
			depth++
		}
		if depth == 0 {
			return strings.Join(lines[start:i+1], "\n"), nil
		}
	}
	if start < 0 {
		return "", fmt.Errorf("%w: [%s]", ErrBlockNotFound, name)
	}
	return "", fmt.Errorf("%w: [%s] opened on line %d is never closed", ErrUnbalanced, name, start+1)
}

// ExtractRange returns the lines from the first containing start up to the
// first later line containing end. An empty start means the beginning, an
// empty end the end of content.
func ExtractRange(content, start, end string, includeStart, includeEnd bool) (string, error) {
	lines := strings.Split(content, "\n")
	from, startLine := 0, 0
	if start != "" {
		from = -1
		for i, l := range lines {
			if strings.Contains(l, start) {
				from = i
				break
			}
		}
		if from < 0 {
			return "", fmt.Errorf("%w: start=%q", ErrMarkerNotFound, start)
		}
		startLine = from
		if !includeStart {
			from++
		}
	}
	to := len(lines)
	if end != "" {
		to = -1
		for i := startLine + 1; i < len(lines); i++ {
			if strings.Contains(lines[i], end) {
				to = i
				break
			}
		}
		if to < 0 {
			return "", fmt.Errorf("%w: end=%q", ErrMarkerNotFound, end)
		}
		if includeEnd {
			to++
		}
	}
	if from > to {
		from = to
	}
	return strings.Join(lines[from:to], "\n"), nil
}

// ExtractLine returns the first line containing match.
func ExtractLine(content, match string) (string, error) {
	for _, l := range strings.Split(content, "\n") {
		if strings.Contains(l, match) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: line=%q", ErrMarkerNotFound, match)
}
