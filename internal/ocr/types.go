package ocr

import "github.com/rotisserie/eris"

// Line is one recognized line or region of text, in the order the engine produced it.
type Line struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

var (
	ErrRecognitionFailed   = eris.New("recognition failed")
	ErrRasterizationFailed = eris.New("rasterization failed")
	ErrInvalidInput        = eris.New("invalid input file")
)
