// Package clip selects the part of a recognized line sequence that lies between
// textual start and end markers.
package clip

import (
	"strings"

	"ocrclip/internal/ocr"
)

// Markers bound the lines kept by Clip. An empty field is unset. Each marker
// matches any line whose text contains it; inclusive markers keep the matching
// line, exclusive markers drop it.
type Markers struct {
	StartInclusive string
	StartExclusive string
	EndInclusive   string
	EndExclusive   string
}

// IsZero reports whether no marker is set.
func (m Markers) IsZero() bool {
	return m == Markers{}
}

func (m Markers) hasStart() bool {
	return m.StartInclusive != "" || m.StartExclusive != ""
}

// Clip returns the contiguous run of lines starting at the first start-marker
// match and ending at the first end-marker match after it. Without a start
// marker capture begins at the first line; without an end marker it runs to
// the last. If a start marker is set but never found the result is empty.
// Inclusive markers win over exclusive ones on the same line.
func Clip(lines []ocr.Line, m Markers) []ocr.Line {
	out := make([]ocr.Line, 0, len(lines))
	capturing := !m.hasStart()

	for _, line := range lines {
		if !capturing {
			switch {
			case contains(line.Text, m.StartInclusive):
				capturing = true
				out = append(out, line)
			case contains(line.Text, m.StartExclusive):
				capturing = true
			}
			continue
		}

		switch {
		case contains(line.Text, m.EndInclusive):
			return append(out, line)
		case contains(line.Text, m.EndExclusive):
			return out
		}
		out = append(out, line)
	}
	return out
}

// contains is strings.Contains restricted to set markers.
func contains(text, marker string) bool {
	return marker != "" && strings.Contains(text, marker)
}
