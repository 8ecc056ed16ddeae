package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"ocrclip/internal/ocr/engine"
	"ocrclip/internal/pdf"
)

type Ollama struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type Config struct {
	Lang    string `yaml:"lang"`
	Engine  string `yaml:"engine"`
	DPI     int    `yaml:"dpi"`
	Enhance bool   `yaml:"enhance"`
	Debug   bool   `yaml:"debug"`
	Ollama  Ollama `yaml:"ollama"`
}

const DefaultLang = "eng"

func Default() *Config {
	return &Config{
		Lang:   DefaultLang,
		Engine: engine.TypeGosseract,
		DPI:    pdf.DefaultDPI,
		Ollama: Ollama{
			BaseURL: engine.DefaultOllamaBaseURL,
			Model:   engine.DefaultOllamaModel,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path (if
// path is non-empty), then environment variables. A .env file in the working
// directory is loaded into the environment first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, eris.Wrap(err, "loading .env")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "reading config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, eris.Wrapf(err, "parsing config %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("OCRCLIP_LANG"); v != "" {
		c.Lang = v
	}
	if v := os.Getenv("OCRCLIP_ENGINE"); v != "" {
		c.Engine = v
	}
	if v := os.Getenv("OCRCLIP_DPI"); v != "" {
		dpi, err := strconv.Atoi(v)
		if err != nil {
			return eris.Wrapf(err, "OCRCLIP_DPI=%q", v)
		}
		c.DPI = dpi
	}
	if v := os.Getenv("OCRCLIP_ENHANCE"); v != "" {
		enhance, err := strconv.ParseBool(v)
		if err != nil {
			return eris.Wrapf(err, "OCRCLIP_ENHANCE=%q", v)
		}
		c.Enhance = enhance
	}
	if os.Getenv("DEBUG") == "1" {
		c.Debug = true
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.Ollama.BaseURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		c.Ollama.Model = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DPI <= 0 {
		return eris.Errorf("dpi must be positive, got %d", c.DPI)
	}
	if !engine.Known(c.Engine) {
		return eris.Wrapf(engine.ErrUnknownEngine, "%q", c.Engine)
	}
	return nil
}
