package writer

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

type WriteMode int

const (
	ModeReplace WriteMode = iota
	ModeAppend
)

type MapperFunc[T any] func(T) []string

type HeaderFunc[T any] func() []string

// CSVWriter writes records of T as CSV. A file written in ModeAppend gets its
// header only when it is new or empty.
type CSVWriter[T any] struct {
	mapper MapperFunc[T]
	header HeaderFunc[T]
}

func NewCSVWriter[T any](mapper MapperFunc[T], header HeaderFunc[T]) *CSVWriter[T] {
	return &CSVWriter[T]{
		mapper: mapper,
		header: header,
	}
}

func (cw *CSVWriter[T]) WriteToFile(data []T, outputPath string, mode WriteMode) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return eris.Wrapf(err, "creating output directory for %s", outputPath)
	}

	hasHeader := false
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if mode == ModeAppend {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		if info, err := os.Stat(outputPath); err == nil && info.Size() > 0 {
			hasHeader = true
		}
	}

	file, err := os.OpenFile(outputPath, flags, 0644)
	if err != nil {
		return eris.Wrapf(err, "opening CSV file %s", outputPath)
	}
	defer file.Close()

	if err := cw.write(file, data, !hasHeader); err != nil {
		return err
	}
	return file.Close()
}

// Write writes data with a header to w.
func (cw *CSVWriter[T]) Write(w io.Writer, data []T) error {
	return cw.write(w, data, true)
}

func (cw *CSVWriter[T]) write(w io.Writer, data []T, withHeader bool) error {
	writer := csv.NewWriter(w)

	if withHeader && len(data) > 0 {
		if err := writer.Write(cw.header()); err != nil {
			return eris.Wrap(err, "writing CSV header")
		}
	}
	for _, item := range data {
		if err := writer.Write(cw.mapper(item)); err != nil {
			return eris.Wrap(err, "writing CSV record")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return eris.Wrap(err, "flushing CSV")
	}
	return nil
}
