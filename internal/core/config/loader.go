package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"apidocgen/internal/core/errors"
)

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the decoder from the file extension; TOML is the default.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read config"), errors.CtxPath, path)
	}
	cfg, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return cfg, nil
}

// Parse decodes, defaults, normalizes and validates a config.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	if err := decode(data, format, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode "+string(format)+" config")
	}

	applyDefaults(&cfg)
	normalizeSource(&cfg)
	normalizeDocuments(&cfg)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(stderrors.Join(errs...), errors.CodeValidationError, "invalid config")
	}
	return &cfg, nil
}

func decode(data []byte, format Format, cfg *Config) error {
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, cfg)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	default:
		_, err := toml.Decode(string(data), cfg)
		return err
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}

	if cfg.Source.Timeout.Duration <= 0 {
		cfg.Source.Timeout.Duration = 30 * time.Second
	}
	if cfg.Source.RateLimit == 0 {
		cfg.Source.RateLimit = 2
	}
	if cfg.Source.Burst == 0 {
		cfg.Source.Burst = 4
	}
	if strings.TrimSpace(cfg.Source.UserAgent) == "" {
		cfg.Source.UserAgent = "apidocgen"
	}

	if strings.TrimSpace(cfg.Cache.Path) == "" {
		cfg.Cache.Path = "data/cache/documents.db"
	}
	if cfg.Cache.BusyTimeout.Duration <= 0 {
		cfg.Cache.BusyTimeout.Duration = 5 * time.Second
	}

	if strings.TrimSpace(cfg.Output.ModuleName) == "" {
		cfg.Output.ModuleName = "electron"
	}
	if strings.TrimSpace(cfg.Output.Path) == "" {
		cfg.Output.Path = filepath.Join("typings", cfg.Output.ModuleName, cfg.Output.ModuleName+".d.ts")
	}
	if strings.TrimSpace(cfg.Output.Aggregate) == "" {
		name := cfg.Output.ModuleName
		cfg.Output.Aggregate = strings.ToUpper(name[:1]) + name[1:]
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce.Duration == 0 {
		cfg.Watch.Debounce.Duration = 500 * time.Millisecond
	}

	if cfg.Observability.Port == 0 {
		cfg.Observability.Port = 9464
	}

	for i := range cfg.Documents {
		if strings.TrimSpace(cfg.Documents[i].Mode) == "" {
			cfg.Documents[i].Mode = "module"
		}
	}
}

func normalizeSource(cfg *Config) {
	cfg.Source.RawBaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.Source.RawBaseURL), "/")
	cfg.Source.HTMLBaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.Source.HTMLBaseURL), "/")
	cfg.Source.LocalDir = strings.TrimSpace(cfg.Source.LocalDir)
	if cfg.Source.HTMLBaseURL == "" {
		cfg.Source.HTMLBaseURL = cfg.Source.RawBaseURL
	}
}

func normalizeDocuments(cfg *Config) {
	for i := range cfg.Documents {
		doc := &cfg.Documents[i]
		doc.Name = strings.TrimSpace(doc.Name)
		doc.Mode = strings.ToLower(strings.TrimSpace(doc.Mode))
		doc.Symbol = strings.TrimSpace(doc.Symbol)
	}
}
