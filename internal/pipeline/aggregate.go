package pipeline

import (
	"context"

	"ocrclip/internal/logger"
	"ocrclip/internal/ocr"
)

// RecognizePDF rasterizes the PDF once into a fresh temporary directory, then
// recognizes each page in order and concatenates the lines. The first failure
// is returned as-is and no partial result is kept.
func (p *Processor) RecognizePDF(ctx context.Context, path string, lang string) ([]ocr.Line, error) {
	if err := validateInput(path); err != nil {
		return nil, err
	}

	pages, err := p.rasterizer.Rasterize(ctx, path, "")
	if err != nil {
		return nil, err
	}

	var lines []ocr.Line
	for i, page := range pages {
		pageLines, err := p.recognize(ctx, page, lang)
		if err != nil {
			return nil, err
		}
		logger.DebugLog("[RecognizePDF]: page %d/%d gave %d lines", i+1, len(pages), len(pageLines))
		lines = append(lines, pageLines...)
	}
	return lines, nil
}
