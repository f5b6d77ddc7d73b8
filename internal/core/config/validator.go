package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"apidocgen/internal/engine/definition"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateWorkers(cfg *Config) error {
	if cfg.Workers < 1 || cfg.Workers > 32 {
		return fmt.Errorf("workers must be between 1 and 32, got %d", cfg.Workers)
	}
	return nil
}

func validateSource(cfg *Config) []error {
	var errs []error
	src := cfg.Source
	if src.RawBaseURL == "" && src.LocalDir == "" {
		errs = append(errs, fmt.Errorf("source.raw_base_url or source.local_dir must be set"))
	}
	if src.RawBaseURL != "" {
		if err := validateBaseURL("source.raw_base_url", src.RawBaseURL); err != nil {
			errs = append(errs, err)
		}
	}
	if src.HTMLBaseURL != "" && src.HTMLBaseURL != src.RawBaseURL {
		if err := validateBaseURL("source.html_base_url", src.HTMLBaseURL); err != nil {
			errs = append(errs, err)
		}
	}
	if src.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("source.rate_limit must be > 0"))
	}
	if src.Burst < 1 {
		errs = append(errs, fmt.Errorf("source.burst must be >= 1"))
	}
	return errs
}

func validateBaseURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", field)
	}
	return nil
}

func validateCache(cfg *Config) error {
	if cfg.Cache.IsEnabled() && strings.TrimSpace(cfg.Cache.Path) == "" {
		return fmt.Errorf("cache.path must not be empty when cache.enabled=true")
	}
	if cfg.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}

func validateOutput(cfg *Config) []error {
	var errs []error
	if strings.TrimSpace(cfg.Output.Path) == "" {
		errs = append(errs, fmt.Errorf("output.path must not be empty"))
	}
	if !identifierPattern.MatchString(cfg.Output.Aggregate) {
		errs = append(errs, fmt.Errorf("output.aggregate must be an identifier, got %q", cfg.Output.Aggregate))
	}
	if strings.ContainsAny(cfg.Output.ModuleName, "'\"\n") {
		errs = append(errs, fmt.Errorf("output.module_name must not contain quotes or newlines"))
	}
	outputs := make(map[string]string)
	for _, target := range []struct{ name, path string }{
		{"output.path", cfg.Output.Path},
		{"output.schema_path", cfg.Output.SchemaPath},
		{"output.index_path", cfg.Output.IndexPath},
		{"output.diagnostics_path", cfg.Output.DiagnosticsPath},
		{"output.sarif_path", cfg.Output.SARIFPath},
	} {
		if target.path == "" {
			continue
		}
		clean := filepath.Clean(target.path)
		if owner, exists := outputs[clean]; exists {
			errs = append(errs, fmt.Errorf("output conflict: %s and %s share the same path %q", owner, target.name, clean))
			continue
		}
		outputs[clean] = target.name
	}
	for name := range cfg.TypeAliases {
		if !identifierPattern.MatchString(name) {
			errs = append(errs, fmt.Errorf("type_aliases key %q must be an identifier", name))
		}
	}
	return errs
}

func validateDocuments(cfg *Config) []error {
	if len(cfg.Documents) == 0 {
		return []error{fmt.Errorf("documents must not be empty")}
	}

	var errs []error
	seen := make(map[string]bool, len(cfg.Documents))
	for i, doc := range cfg.Documents {
		ref := fmt.Sprintf("documents[%d]", i)
		if doc.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name must not be empty", ref))
			continue
		}
		if seen[doc.Name] {
			errs = append(errs, fmt.Errorf("duplicate document name %q", doc.Name))
		}
		seen[doc.Name] = true

		if _, err := definition.ParseOutputMode(doc.Mode); err != nil {
			errs = append(errs, fmt.Errorf("%s.mode: %w", ref, err))
		}
		for section, role := range doc.Parsing.UncommonSections {
			if _, err := definition.ParseSectionRole(role); err != nil {
				errs = append(errs, fmt.Errorf("%s.parsing.uncommon_sections[%q]: %w", ref, section, err))
			}
		}
		errs = append(errs, validatePatches(ref, doc.Patches)...)
	}
	return errs
}

func validatePatches(ref string, p Patches) []error {
	var errs []error
	for i, patch := range p.MethodReturns {
		if patch.Method == "" || patch.Type == "" {
			errs = append(errs, fmt.Errorf("%s.patches.method_returns[%d] needs method and type", ref, i))
		}
	}
	for i, patch := range p.MethodParams {
		if patch.Method == "" || patch.Param == "" || patch.Type == "" {
			errs = append(errs, fmt.Errorf("%s.patches.method_params[%d] needs method, param and type", ref, i))
		}
	}
	for i, patch := range p.EventParams {
		if patch.Event == "" || patch.Param == "" || patch.Type == "" {
			errs = append(errs, fmt.Errorf("%s.patches.event_params[%d] needs event, param and type", ref, i))
		}
	}
	for i, patch := range p.Properties {
		if patch.Property == "" || patch.Type == "" {
			errs = append(errs, fmt.Errorf("%s.patches.properties[%d] needs property and type", ref, i))
		}
	}
	return errs
}

func validateWatch(cfg *Config) []error {
	var errs []error
	if cfg.Watch.Debounce.Duration < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative"))
	}
	for i, pattern := range cfg.Watch.Exclude {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("watch.exclude[%d] is invalid: %w", i, err))
		}
	}
	return errs
}

func validateObservability(cfg *Config) error {
	if !cfg.Observability.Enabled {
		return nil
	}
	if cfg.Observability.Port < 1 || cfg.Observability.Port > 65535 {
		return fmt.Errorf("observability.port must be between 1 and 65535")
	}
	return nil
}

func Validate(cfg *Config) []error {
	var errs []error

	if err := validateVersion(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateWorkers(cfg); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, validateSource(cfg)...)
	if err := validateCache(cfg); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, validateOutput(cfg)...)
	errs = append(errs, validateDocuments(cfg)...)
	errs = append(errs, validateWatch(cfg)...)
	if err := validateObservability(cfg); err != nil {
		errs = append(errs, err)
	}

	return errs
}
