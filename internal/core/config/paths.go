package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	ProjectRoot string
	ConfigDir   string
	LocalDir    string
	CachePath   string
	OutputPath  string
	SchemaPath  string
	IndexPath   string
	DiagPath    string
	SARIFPath   string
}

// ResolvePaths anchors relative paths in cfg at the directory of the config
// file; without one, the detected project root is used.
func ResolvePaths(cfg *Config, configPath string) (ResolvedPaths, error) {
	var base string
	if strings.TrimSpace(configPath) != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return ResolvedPaths{}, fmt.Errorf("resolve config path: %w", err)
		}
		base = filepath.Dir(abs)
	}

	projectRoot, err := DetectProjectRoot([]string{base})
	if err != nil {
		return ResolvedPaths{}, err
	}
	if base == "" {
		base = projectRoot
	}

	resolved := ResolvedPaths{
		ProjectRoot: projectRoot,
		ConfigDir:   filepath.Clean(base),
		CachePath:   ResolveRelative(base, cfg.Cache.Path),
		OutputPath:  ResolveRelative(base, cfg.Output.Path),
	}
	if cfg.Source.LocalDir != "" {
		resolved.LocalDir = ResolveRelative(base, cfg.Source.LocalDir)
	}
	if cfg.Output.SchemaPath != "" {
		resolved.SchemaPath = ResolveRelative(base, cfg.Output.SchemaPath)
	}
	if cfg.Output.IndexPath != "" {
		resolved.IndexPath = ResolveRelative(base, cfg.Output.IndexPath)
	}
	if cfg.Output.DiagnosticsPath != "" {
		resolved.DiagPath = ResolveRelative(base, cfg.Output.DiagnosticsPath)
	}
	if cfg.Output.SARIFPath != "" {
		resolved.SARIFPath = ResolveRelative(base, cfg.Output.SARIFPath)
	}
	return resolved, nil
}

// Apply rewrites cfg so that every path field holds its resolved value.
func (r ResolvedPaths) Apply(cfg *Config) {
	cfg.Source.LocalDir = r.LocalDir
	cfg.Cache.Path = r.CachePath
	cfg.Output.Path = r.OutputPath
	cfg.Output.SchemaPath = r.SchemaPath
	cfg.Output.IndexPath = r.IndexPath
	cfg.Output.DiagnosticsPath = r.DiagPath
	cfg.Output.SARIFPath = r.SARIFPath
	cfg.ProjectRoot = r.ProjectRoot
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

func DetectProjectRoot(candidates []string) (string, error) {
	markers := []string{
		"go.mod",
		".git",
		"data/config/apidocgen.toml",
		"apidocgen.toml",
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}
