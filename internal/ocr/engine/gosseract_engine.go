package engine

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rotisserie/eris"

	"ocrclip/internal/logger"
	"ocrclip/internal/ocr"
)

// GosseractEngine runs Tesseract in-process and reports one line per text line
// Tesseract finds, top to bottom.
type GosseractEngine struct {
	newClient func() *gosseract.Client
}

func NewGosseractEngine() *GosseractEngine {
	return &GosseractEngine{newClient: gosseract.NewClient}
}

func (g *GosseractEngine) Name() string { return TypeGosseract }

func (g *GosseractEngine) Recognize(ctx context.Context, imagePath string, lang string) ([]ocr.Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := g.newClient()
	defer client.Close()

	if lang != "" {
		tessLang := ocr.TesseractLanguage(lang)
		if err := client.SetLanguage(strings.Split(tessLang, "+")...); err != nil {
			return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "setting language %s: %v", tessLang, err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "setting page segmentation mode: %v", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "loading image %s: %v", imagePath, err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "extracting text from image %s: %v", imagePath, err)
	}

	logger.DebugLog("[gosseract]: %s produced %d text lines", imagePath, len(boxes))
	return boxesToLines(boxes), nil
}

func (g *GosseractEngine) Close() error {
	return nil
}

func boxesToLines(boxes []gosseract.BoundingBox) []ocr.Line {
	lines := make([]ocr.Line, 0, len(boxes))
	for _, b := range boxes {
		lines = append(lines, ocr.Line{
			Text:       strings.TrimRight(b.Word, "\r\n"),
			Confidence: b.Confidence / 100.0,
		})
	}
	return lines
}

