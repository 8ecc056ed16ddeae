package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"ocrclip/internal/clip"
	"ocrclip/internal/config"
	"ocrclip/internal/image"
	"ocrclip/internal/logger"
	"ocrclip/internal/ocr"
	"ocrclip/internal/ocr/engine"
	"ocrclip/internal/pdf"
	"ocrclip/internal/pipeline"
	"ocrclip/internal/writer"
)

var version = "dev"

var errUsage = eris.New("usage error")

type processorFactory func(cfg *config.Config) (*pipeline.Processor, func(), error)

type CLI struct {
	stdout io.Writer
	stderr io.Writer

	configPath    string
	jsonOutput    bool
	csvPath       string
	csvAppend     bool
	forcePDF      bool
	lang          string
	engineType    string
	dpi           int
	enhance       bool
	debug         bool
	pdf2imageOnly bool
	pdf2imageDir  string
	showVersion   bool
	markers       clip.Markers

	newProcessor processorFactory
}

func NewCLI() *CLI {
	return &CLI{
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		newProcessor: buildProcessor,
	}
}

func (c *CLI) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("ocrclip", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Extract text from an image or PDF with OCR.\n\nUsage: ocrclip [flags] <file>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&c.configPath, "config", "", "Path to a YAML config file")
	fs.BoolVar(&c.jsonOutput, "json", false, "Output results in JSON format")
	fs.BoolVar(&c.jsonOutput, "j", false, "Shorthand for --json")
	fs.StringVar(&c.csvPath, "csv", "", "Also write results as CSV to this file (\"-\" writes CSV to stdout instead of text)")
	fs.BoolVar(&c.csvAppend, "csv-append", false, "Append rows to the --csv file instead of replacing it")
	fs.BoolVar(&c.forcePDF, "pdf", false, "Treat the input file as a PDF (.pdf files are detected automatically)")
	fs.BoolVar(&c.forcePDF, "p", false, "Shorthand for --pdf")
	fs.StringVar(&c.lang, "lang", "", "Recognition language, e.g. eng, fra, deu, zh-Hans, zh-Hant (default from config, eng)")
	fs.StringVar(&c.lang, "l", "", "Shorthand for --lang")
	fs.StringVar(&c.engineType, "engine", "", "OCR engine (gosseract, ollama)")
	fs.IntVar(&c.dpi, "dpi", 0, "Resolution used to render PDF pages")
	fs.BoolVar(&c.enhance, "enhance", false, "Enhance images (grayscale, contrast, sharpen) before recognition")
	fs.BoolVar(&c.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&c.pdf2imageOnly, "pdf2image-only", false, "Only convert the PDF to images without performing OCR")
	fs.StringVar(&c.pdf2imageDir, "pdf2image-dir", "", "Directory for the page images (default: a new temporary directory)")
	fs.StringVar(&c.markers.StartInclusive, "start-marker-inclusive", "", "Start output at the first line containing this text, keeping that line")
	fs.StringVar(&c.markers.StartExclusive, "start-marker-exclusive", "", "Start output after the first line containing this text")
	fs.StringVar(&c.markers.EndInclusive, "end-marker-inclusive", "", "Stop output at the first line containing this text, keeping that line")
	fs.StringVar(&c.markers.EndExclusive, "end-marker-exclusive", "", "Stop output before the first line containing this text")
	fs.BoolVar(&c.showVersion, "version", false, "Print the version and exit")
	fs.BoolVar(&c.showVersion, "V", false, "Shorthand for --version")
	return fs
}

func (c *CLI) Run(ctx context.Context, args []string) error {
	fs := c.flagSet()

	// flag stops at the first positional argument; keep parsing after it so
	// flags may follow the file name.
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return eris.Wrap(errUsage, err.Error())
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	if c.showVersion {
		fmt.Fprintf(c.stdout, "ocrclip %s\n", version)
		return nil
	}
	if len(positional) != 1 {
		fs.Usage()
		return eris.Wrapf(errUsage, "expected exactly one file, got %d", len(positional))
	}

	if c.csvAppend && (c.csvPath == "" || c.csvPath == "-") {
		return eris.Wrap(errUsage, "--csv-append needs a --csv file")
	}

	cfg, err := c.resolveConfig(fs)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Debug); err != nil {
		return err
	}
	defer logger.Sync()

	logger.DebugLog("[cli]: config %+v", *cfg)

	processor, closeFn, err := c.newProcessor(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if c.pdf2imageOnly {
		return c.rasterizeOnly(ctx, processor, positional[0])
	}
	return c.extract(ctx, processor, cfg, positional[0])
}

// resolveConfig layers explicitly set flags over the loaded configuration.
func (c *CLI) resolveConfig(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lang", "l":
			cfg.Lang = c.lang
		case "engine":
			cfg.Engine = c.engineType
		case "dpi":
			cfg.DPI = c.dpi
		case "enhance":
			cfg.Enhance = c.enhance
		case "debug":
			cfg.Debug = c.debug
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(errUsage, err.Error())
	}
	return cfg, nil
}

func (c *CLI) rasterizeOnly(ctx context.Context, processor *pipeline.Processor, path string) error {
	paths, err := processor.RasterizeOnly(ctx, path, c.pdf2imageDir)
	if err != nil {
		return err
	}

	where := c.pdf2imageDir
	if where == "" {
		where = "a secure temporary directory"
	}
	fmt.Fprintf(c.stdout, "Images saved to: %s\n", where)
	for _, p := range paths {
		fmt.Fprintln(c.stdout, p)
	}
	return nil
}

func (c *CLI) extract(ctx context.Context, processor *pipeline.Processor, cfg *config.Config, path string) error {
	lines, err := processor.Extract(ctx, pipeline.Request{
		Path:    path,
		Lang:    cfg.Lang,
		PDF:     c.forcePDF,
		Markers: c.markers,
	})
	if err != nil {
		return err
	}

	csvWriter := writer.NewLineCSVWriter()
	switch c.csvPath {
	case "":
	case "-":
		return csvWriter.Write(c.stdout, lines)
	default:
		mode := writer.ModeReplace
		if c.csvAppend {
			mode = writer.ModeAppend
		}
		if err := csvWriter.WriteToFile(lines, c.csvPath, mode); err != nil {
			return err
		}
	}

	if c.jsonOutput {
		return writer.WriteJSON(c.stdout, lines)
	}
	return writer.WriteText(c.stdout, lines)
}

func buildProcessor(cfg *config.Config) (*pipeline.Processor, func(), error) {
	ocrEngine, err := engine.New(cfg.Engine, engine.Options{
		OllamaBaseURL: cfg.Ollama.BaseURL,
		OllamaModel:   cfg.Ollama.Model,
	})
	if err != nil {
		return nil, nil, err
	}

	var opts []pipeline.Option
	if cfg.Enhance {
		opts = append(opts, pipeline.WithEnhancer(image.NewProcessor()))
	}

	processor := pipeline.New(ocrEngine, pdf.NewRasterizer(cfg.DPI), opts...)
	closeFn := func() {
		logger.DebugLog("[cli]: closing %s engine", ocrEngine.Name())
		ocrEngine.Close()
	}
	return processor, closeFn, nil
}

// exitCode maps an error returned by Run to a process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case eris.Is(err, errUsage):
		return 2
	default:
		return 1
	}
}

// describe turns an error into a message for the user.
func describe(err error) string {
	switch {
	case eris.Is(err, ocr.ErrInvalidInput):
		return fmt.Sprintf("invalid file path: %v", err)
	case eris.Is(err, ocr.ErrRasterizationFailed):
		return fmt.Sprintf("could not convert PDF to images: %v", err)
	case eris.Is(err, ocr.ErrRecognitionFailed):
		return fmt.Sprintf("text recognition failed: %v", err)
	case errors.Is(err, context.Canceled):
		return "interrupted"
	default:
		return err.Error()
	}
}
