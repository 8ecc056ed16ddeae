// Package image prepares page and photo images for recognition.
package image

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rotisserie/eris"
)

const processedSuffix = "_processed"

// Processor upscales small images and boosts their contrast so Tesseract has
// more to work with. Enhanced copies are written next to the source image.
type Processor struct {
	MinSide  int
	Contrast float64
	Sharpen  float64
}

func NewProcessor() *Processor {
	return &Processor{
		MinSide:  300,
		Contrast: 10,
		Sharpen:  1.1,
	}
}

// EnhanceQuality writes a grayscale, contrast-adjusted and sharpened copy of the
// image at path and returns the copy's path.
func (p *Processor) EnhanceQuality(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", eris.Wrapf(err, "opening image %s", path)
	}

	bounds := img.Bounds()
	if bounds.Dx() < p.MinSide || bounds.Dy() < p.MinSide {
		img = imaging.Resize(img, bounds.Dx()*2, bounds.Dy()*2, imaging.Lanczos)
	}

	enhanced := imaging.Sharpen(imaging.AdjustContrast(imaging.Grayscale(img), p.Contrast), p.Sharpen)

	out := ProcessedPath(path)
	if err := imaging.Save(enhanced, out); err != nil {
		return "", eris.Wrapf(err, "saving processed image %s", out)
	}
	return out, nil
}

// Cleanup removes an enhanced copy. Paths that EnhanceQuality did not produce are
// left alone.
func (p *Processor) Cleanup(path string) error {
	if !IsProcessed(path) {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return eris.Wrapf(err, "removing %s", path)
	}
	return nil
}

// ProcessedPath returns where EnhanceQuality stores the enhanced copy of path.
func ProcessedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + processedSuffix + ext
}

func IsProcessed(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(strings.TrimSuffix(name, filepath.Ext(name)), processedSuffix)
}

// IsImageFile reports whether the extension is one the recognition engines read.
func IsImageFile(filename string) bool {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "jpg", "jpeg", "png", "tif", "tiff", "bmp", "gif", "webp", "pnm", "pbm", "pgm", "ppm", "jp2":
		return true
	}
	return false
}

// IsPDFFile reports whether filename has a .pdf extension.
func IsPDFFile(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
