package engine

import (
	"context"

	"github.com/rotisserie/eris"

	"ocrclip/internal/ocr"
)

// Engine recognizes the text lines of a single image file. Implementations block
// until the final ordered result is available.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string, lang string) ([]ocr.Line, error)
	Close() error
}

const (
	TypeGosseract = "gosseract"
	TypeOllama    = "ollama"
)

var ErrUnknownEngine = eris.New("unknown engine type")

// Options carries the per-engine settings New needs.
type Options struct {
	OllamaBaseURL string
	OllamaModel   string
}

func New(engineType string, opts Options) (Engine, error) {
	switch engineType {
	case TypeGosseract, "":
		return NewGosseractEngine(), nil
	case TypeOllama:
		return NewOllamaEngine(opts.OllamaBaseURL, opts.OllamaModel), nil
	default:
		return nil, eris.Wrapf(ErrUnknownEngine, "%q", engineType)
	}
}

// Known reports whether New accepts engineType.
func Known(engineType string) bool {
	switch engineType {
	case TypeGosseract, TypeOllama, "":
		return true
	}
	return false
}
