package pipeline

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"ocrclip/internal/clip"
	"ocrclip/internal/image"
	"ocrclip/internal/logger"
	"ocrclip/internal/ocr"
)

// Recognizer turns one image file into its ordered text lines.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string, lang string) ([]ocr.Line, error)
}

// Rasterizer turns a PDF into one image file per page, in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath string, outputDir string) ([]string, error)
}

// Enhancer writes an improved copy of an image before recognition and removes
// it afterwards.
type Enhancer interface {
	EnhanceQuality(path string) (string, error)
	Cleanup(path string) error
}

type Processor struct {
	recognizer Recognizer
	rasterizer Rasterizer
	enhancer   Enhancer
}

type Option func(*Processor)

// WithEnhancer runs every image through e before recognition.
func WithEnhancer(e Enhancer) Option {
	return func(p *Processor) { p.enhancer = e }
}

func New(recognizer Recognizer, rasterizer Rasterizer, opts ...Option) *Processor {
	p := &Processor{recognizer: recognizer, rasterizer: rasterizer}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request describes one extraction: which file, how to read it and which part
// of the recognized lines to keep.
type Request struct {
	Path    string
	Lang    string
	PDF     bool
	Markers clip.Markers
}

// Extract recognizes the file in req and clips the result to req.Markers. Files
// are read as PDFs when req.PDF is set or the name ends in .pdf.
func (p *Processor) Extract(ctx context.Context, req Request) ([]ocr.Line, error) {
	if err := validateInput(req.Path); err != nil {
		return nil, err
	}

	var lines []ocr.Line
	var err error
	if req.PDF || image.IsPDFFile(req.Path) {
		lines, err = p.RecognizePDF(ctx, req.Path, req.Lang)
	} else {
		lines, err = p.RecognizeImage(ctx, req.Path, req.Lang)
	}
	if err != nil {
		return nil, err
	}

	if req.Markers.IsZero() {
		logger.L().Debug("extracted", zap.String("file", req.Path), zap.Int("recognized", len(lines)))
		return lines, nil
	}

	clipped := clip.Clip(lines, req.Markers)
	logger.L().Debug("extracted",
		zap.String("file", req.Path),
		zap.Int("recognized", len(lines)),
		zap.Int("kept", len(clipped)))
	return clipped, nil
}

// RecognizeImage returns the lines recognized in a single image.
func (p *Processor) RecognizeImage(ctx context.Context, path string, lang string) ([]ocr.Line, error) {
	if err := validateInput(path); err != nil {
		return nil, err
	}
	if !image.IsImageFile(path) {
		return nil, eris.Wrapf(ocr.ErrInvalidInput, "%s is not a supported image (use --pdf for PDF files)", path)
	}
	return p.recognize(ctx, path, lang)
}

// RasterizeOnly renders the pages of a PDF into outputDir, or a new temporary
// directory when outputDir is empty, without recognizing them.
func (p *Processor) RasterizeOnly(ctx context.Context, path string, outputDir string) ([]string, error) {
	if err := validateInput(path); err != nil {
		return nil, err
	}
	return p.rasterizer.Rasterize(ctx, path, outputDir)
}

func (p *Processor) recognize(ctx context.Context, path string, lang string) ([]ocr.Line, error) {
	target := path
	if p.enhancer != nil {
		enhanced, err := p.enhancer.EnhanceQuality(path)
		if err != nil {
			return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "preprocessing image %s: %v", path, err)
		}
		target = enhanced
		defer func() {
			if err := p.enhancer.Cleanup(enhanced); err != nil {
				logger.L().Warn("cleanup failed", zap.String("file", enhanced), zap.Error(err))
			}
		}()
	}

	logger.DebugLog("[recognize]: processing image %s lang=%s", target, lang)
	return p.recognizer.Recognize(ctx, target, lang)
}

func validateInput(path string) error {
	if path == "" {
		return eris.Wrap(ocr.ErrInvalidInput, "no file given")
	}
	info, err := os.Stat(path)
	if err != nil {
		return eris.Wrapf(ocr.ErrInvalidInput, "%s: %v", path, err)
	}
	if info.IsDir() {
		return eris.Wrapf(ocr.ErrInvalidInput, "%s is a directory", path)
	}
	return nil
}
