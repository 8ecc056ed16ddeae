package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"ocrclip/internal/ocr"
)

func MapLineRecord(line ocr.Line) []string {
	return []string{line.Text, strconv.FormatFloat(line.Confidence, 'f', -1, 64)}
}

func GetLineHeader() []string {
	return []string{"text", "confidence"}
}

func NewLineCSVWriter() *CSVWriter[ocr.Line] {
	return NewCSVWriter(MapLineRecord, GetLineHeader)
}

// WriteJSON writes lines as an indented JSON array. Non-ASCII text and HTML
// characters are written as-is.
func WriteJSON(w io.Writer, lines []ocr.Line) error {
	if lines == nil {
		lines = []ocr.Line{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lines); err != nil {
		return eris.Wrap(err, "encoding JSON")
	}
	return nil
}

// WriteText writes the text of each line on its own row.
func WriteText(w io.Writer, lines []ocr.Line) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line.Text); err != nil {
			return eris.Wrap(err, "writing text")
		}
	}
	return nil
}
