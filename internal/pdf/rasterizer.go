// Package pdf renders PDF pages to image files for recognition.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"ocrclip/internal/logger"
	"ocrclip/internal/ocr"
)

const DefaultDPI = 300

// Rasterizer writes one PNG per PDF page using MuPDF.
type Rasterizer struct {
	dpi int
}

func NewRasterizer(dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{dpi: dpi}
}

// PageFileName is the file name used for the zero-based page index.
func PageFileName(page int) string {
	return fmt.Sprintf("page_%d.png", page)
}

// Rasterize renders every page of pdfPath into outputDir and returns the image
// paths in page order. An empty outputDir means a new temporary directory,
// which is not removed afterwards. outputDir is created if it does not exist.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath string, outputDir string) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, eris.Wrapf(ocr.ErrRasterizationFailed, "opening PDF %s: %v", pdfPath, err)
	}
	defer doc.Close()

	dir, err := prepareOutputDir(outputDir)
	if err != nil {
		return nil, err
	}

	pages := doc.NumPage()
	logger.L().Debug("rasterizing PDF",
		zap.String("file", pdfPath),
		zap.Int("pages", pages),
		zap.Int("dpi", r.dpi),
		zap.String("dir", dir))

	paths := make([]string, 0, pages)
	for page := 0; page < pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImageDPI(page, float64(r.dpi))
		if err != nil {
			return nil, eris.Wrapf(ocr.ErrRasterizationFailed, "rendering page %d of %s: %v", page+1, pdfPath, err)
		}

		path := filepath.Join(dir, PageFileName(page))
		if err := imaging.Save(img, path); err != nil {
			return nil, eris.Wrapf(ocr.ErrRasterizationFailed, "saving page %d to %s: %v", page+1, path, err)
		}
		logger.DebugLog("[rasterize]: wrote page %d to %s", page+1, path)
		paths = append(paths, path)
	}
	return paths, nil
}

func prepareOutputDir(outputDir string) (string, error) {
	if outputDir == "" {
		dir, err := os.MkdirTemp("", "ocrclip-pages-")
		if err != nil {
			return "", eris.Wrapf(ocr.ErrRasterizationFailed, "creating temporary directory: %v", err)
		}
		return dir, nil
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", eris.Wrapf(ocr.ErrRasterizationFailed, "creating output directory %s: %v", outputDir, err)
	}
	return outputDir, nil
}
