package clip

import (
	"fmt"
	"reflect"
	"testing"

	"ocrclip/internal/ocr"
)

func lines(texts ...string) []ocr.Line {
	out := make([]ocr.Line, len(texts))
	for i, text := range texts {
		out[i] = ocr.Line{Text: text, Confidence: 1}
	}
	return out
}

func TestClip(t *testing.T) {
	sample := lines("before", "cjskaj Start marker lsjdkjfjdwo", "Text", "End marker", "after")

	testCases := []struct {
		name     string
		input    []ocr.Line
		markers  Markers
		expected []string
	}{
		{
			name:     "no markers is identity",
			input:    sample,
			expected: []string{"before", "cjskaj Start marker lsjdkjfjdwo", "Text", "End marker", "after"},
		},
		{
			name:     "empty input",
			input:    nil,
			markers:  Markers{StartInclusive: "Start"},
			expected: []string{},
		},
		{
			name:     "start inclusive keeps marker line",
			input:    lines("before", "Start marker", "Text"),
			markers:  Markers{StartInclusive: "Start"},
			expected: []string{"Start marker", "Text"},
		},
		{
			name:     "start exclusive drops marker line",
			input:    lines("before", "Start marker", "Text"),
			markers:  Markers{StartExclusive: "Start"},
			expected: []string{"Text"},
		},
		{
			name:     "start inclusive with end exclusive",
			input:    sample,
			markers:  Markers{StartInclusive: "Start", EndExclusive: "End"},
			expected: []string{"cjskaj Start marker lsjdkjfjdwo", "Text"},
		},
		{
			name:     "start exclusive with end inclusive",
			input:    sample,
			markers:  Markers{StartExclusive: "Start", EndInclusive: "End"},
			expected: []string{"Text", "End marker"},
		},
		{
			name:     "end only",
			input:    sample,
			markers:  Markers{EndExclusive: "End"},
			expected: []string{"before", "cjskaj Start marker lsjdkjfjdwo", "Text"},
		},
		{
			name:     "end inclusive on first line",
			input:    sample,
			markers:  Markers{EndInclusive: "before"},
			expected: []string{"before"},
		},
		{
			name:     "unmatched start gives empty",
			input:    sample,
			markers:  Markers{StartInclusive: "missing", EndExclusive: "End"},
			expected: []string{},
		},
		{
			name:     "unmatched end gives tail",
			input:    sample,
			markers:  Markers{StartExclusive: "Start", EndExclusive: "missing"},
			expected: []string{"Text", "End marker", "after"},
		},
		{
			name:     "start inclusive beats exclusive on the same line",
			input:    lines("a", "alpha beta", "c"),
			markers:  Markers{StartInclusive: "alpha", StartExclusive: "beta"},
			expected: []string{"alpha beta", "c"},
		},
		{
			name:     "first matching start variant wins",
			input:    lines("a", "beta", "alpha", "c"),
			markers:  Markers{StartInclusive: "alpha", StartExclusive: "beta"},
			expected: []string{"alpha", "c"},
		},
		{
			name:     "end inclusive beats exclusive on the same line",
			input:    lines("a", "stop here", "c"),
			markers:  Markers{EndInclusive: "stop", EndExclusive: "here"},
			expected: []string{"a", "stop here"},
		},
		{
			name:     "start line is not checked for end",
			input:    lines("x", "mark", "y", "mark", "z"),
			markers:  Markers{StartInclusive: "mark", EndExclusive: "mark"},
			expected: []string{"mark", "y"},
		},
		{
			name:     "duplicate start markers only first counts",
			input:    lines("Start 1", "a", "Start 2", "b"),
			markers:  Markers{StartExclusive: "Start"},
			expected: []string{"a", "Start 2", "b"},
		},
		{
			name:     "matching is case sensitive",
			input:    lines("start", "a"),
			markers:  Markers{StartInclusive: "Start"},
			expected: []string{},
		},
		{
			name:     "matching does not trim whitespace",
			input:    lines("End", " End ", "x"),
			markers:  Markers{StartExclusive: " End "},
			expected: []string{"x"},
		},
		{
			name:     "empty text lines pass through",
			input:    lines("", "Start", "", "End"),
			markers:  Markers{StartExclusive: "Start"},
			expected: []string{"", "End"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			got := Clip(tc.input, tc.markers)

			// Assert
			if got := texts(got); !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestClip_KeepsConfidence(t *testing.T) {
	input := []ocr.Line{{Text: "a", Confidence: 0.25}, {Text: "Start", Confidence: 0.5}, {Text: "b", Confidence: 0.75}}

	got := Clip(input, Markers{StartInclusive: "Start"})

	expected := []ocr.Line{{Text: "Start", Confidence: 0.5}, {Text: "b", Confidence: 0.75}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %+v, got %+v", expected, got)
	}
}

func TestClip_DoesNotModifyInput(t *testing.T) {
	input := lines("a", "Start", "b", "End", "c")
	snapshot := append([]ocr.Line(nil), input...)

	got := Clip(input, Markers{StartExclusive: "Start", EndExclusive: "End"})
	if len(got) > 0 {
		got[0].Text = "changed"
	}

	if !reflect.DeepEqual(input, snapshot) {
		t.Errorf("input modified: %+v", input)
	}
}

// TestClip_ContiguousSubsequence runs every marker combination drawn from a small
// vocabulary and checks the result is an in-order contiguous run of the input.
func TestClip_ContiguousSubsequence(t *testing.T) {
	input := lines("head", "A one", "B two", "A B", "", "C three", "B", "tail A")
	vocabulary := []string{"", "A", "B", "C", "missing", "head", "tail"}

	for _, si := range vocabulary {
		for _, se := range vocabulary {
			for _, ei := range vocabulary {
				for _, ee := range vocabulary {
					m := Markers{StartInclusive: si, StartExclusive: se, EndInclusive: ei, EndExclusive: ee}
					got := Clip(input, m)
					if !isContiguous(input, got) {
						t.Fatalf("%+v: %q is not a contiguous run of the input", m, texts(got))
					}
					if m.IsZero() && !reflect.DeepEqual(got, input) {
						t.Fatalf("expected identity for zero markers, got %q", texts(got))
					}
				}
			}
		}
	}
}

func isContiguous(input, sub []ocr.Line) bool {
	if len(sub) == 0 {
		return true
	}
	for start := 0; start+len(sub) <= len(input); start++ {
		if reflect.DeepEqual(input[start:start+len(sub)], sub) {
			return true
		}
	}
	return false
}

func TestMarkers_IsZero(t *testing.T) {
	testCases := []struct {
		markers  Markers
		expected bool
	}{
		{Markers{}, true},
		{Markers{StartInclusive: "a"}, false},
		{Markers{StartExclusive: "a"}, false},
		{Markers{EndInclusive: "a"}, false},
		{Markers{EndExclusive: "a"}, false},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%+v", tc.markers), func(t *testing.T) {
			if got := tc.markers.IsZero(); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func texts(lines []ocr.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
