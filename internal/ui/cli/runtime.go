package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	coreapp "apidocgen/internal/core/app"
	"apidocgen/internal/core/config"
	"apidocgen/internal/core/diag"
	"apidocgen/internal/core/errors"
	"apidocgen/internal/shared/observability"
	"apidocgen/internal/shared/version"
)

func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("apidocgen %s\n", version.String())
		return 0
	}

	cleanupLogs := configureLogging(opts.ui, opts.verbose)
	defer cleanupLogs()

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	if err := prepareConfig(cfg, cfgPath); err != nil {
		slog.Error("failed to resolve runtime paths", "error", err)
		return 1
	}

	if err := applyModeOptions(&opts, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.Enabled && cfg.Observability.EnableTracing {
		shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, version.Version)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					slog.Warn("failed to flush traces", "error", err)
				}
			}()
		}
	}

	app, err := coreapp.New(cfg, coreapp.Options{
		Sink:    diagnosticsSink(opts),
		Refresh: opts.refresh,
	})
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer func() { _ = app.Close(context.Background()) }()

	if opts.history != "" {
		return runHistoryMode(ctx, app, opts, os.Stdout)
	}

	if opts.ui {
		return runInteractive(ctx, app, cfgPath, opts)
	}

	res, runErr := app.Run(ctx)
	if runErr != nil {
		slog.Error("generation failed", "error", runErr)
	}
	if opts.once {
		return exitCode(res, runErr, opts.strict)
	}

	if err := startWatchMode(ctx, app, cfgPath, opts.args); err != nil {
		slog.Error("failed to start watch mode", "error", err)
		return 1
	}
	<-ctx.Done()
	slog.Info("shutting down")
	return 0
}

// runInteractive starts watch mode behind the diagnostics UI. The first run
// happens after the program starts so its result reaches the UI.
func runInteractive(ctx context.Context, app *coreapp.App, cfgPath string, opts cliOptions) int {
	if err := startWatchMode(ctx, app, cfgPath, opts.args); err != nil {
		slog.Error("failed to start watch mode", "error", err)
		return 1
	}
	if err := runUI(ctx, app, opts.strict); err != nil {
		slog.Error("failed to run UI", "error", err)
		return 1
	}
	res := app.LastResult()
	if res == nil {
		return 0
	}
	return exitCode(res, nil, opts.strict)
}

// startWatchMode wires the document watcher, the config watcher and the
// observability server. Reloaded configs keep the command line selection.
// Everything stops when ctx is cancelled.
func startWatchMode(ctx context.Context, app *coreapp.App, cfgPath string, selection []string) error {
	cfg := app.Config
	if err := app.StartWatcher(ctx); err != nil {
		return err
	}
	slog.Info("watching documents", "dir", cfg.Source.LocalDir, "debounce", cfg.Watch.Debounce.Duration)

	cfgWatcher := config.NewWatcher(cfgPath, func(next *config.Config) {
		if err := prepareConfig(next, cfgPath); err != nil {
			slog.Error("failed to resolve reloaded config paths", "error", err)
			return
		}
		if err := selectDocuments(next, selection); err != nil {
			slog.Error("ignoring reloaded config", "error", err)
			return
		}
		app.Reconfigure(next)
		if _, err := app.Run(ctx); err != nil {
			slog.Error("generation failed after config reload", "error", err)
		}
	})
	if err := cfgWatcher.Start(ctx); err != nil {
		slog.Warn("config reload disabled", "path", cfgPath, "error", err)
	} else {
		go func() {
			<-ctx.Done()
			cfgWatcher.Stop()
		}()
	}

	if cfg.Observability.Enabled {
		server := NewObservabilityServer(fmt.Sprintf(":%d", cfg.Observability.Port), coreapp.NewHealthService(app))
		if err := server.Start(ctx); err != nil {
			return err
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}
	return nil
}

func exitCode(res *coreapp.Result, runErr error, strict bool) int {
	if runErr != nil || res == nil {
		return 1
	}
	if res.HasErrors() {
		return 1
	}
	if strict && res.HasWarnings() {
		return 1
	}
	return 0
}

func diagnosticsSink(opts cliOptions) diag.Sink {
	if opts.ui {
		return diag.NewSlogSink(slog.Default())
	}
	return diag.NewConsoleSink(os.Stderr, opts.verbose)
}

func prepareConfig(cfg *config.Config, cfgPath string) error {
	config.ApplyEnvOverrides(cfg)
	paths, err := config.ResolvePaths(cfg, cfgPath)
	if err != nil {
		return err
	}
	paths.Apply(cfg)
	return nil
}

func loadConfig(path, cwd string) (*config.Config, string, error) {
	if path != defaultConfigPath {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	candidates, err := discoverDefaultConfig(cwd)
	if err != nil {
		return nil, "", err
	}

	var lastErr error
	for _, candidate := range candidates {
		cfg, loadErr := config.Load(candidate)
		if loadErr == nil {
			return cfg, candidate, nil
		}
		if errors.IsCode(loadErr, errors.CodeNotFound) {
			lastErr = loadErr
			continue
		}
		return nil, "", loadErr
	}

	if lastErr != nil {
		return nil, "", lastErr
	}
	return nil, "", fmt.Errorf("no default config file found")
}

func discoverDefaultConfig(cwd string) ([]string, error) {
	if strings.TrimSpace(cwd) == "" {
		return nil, fmt.Errorf("cwd must not be empty")
	}
	return []string{
		filepath.Clean(filepath.Join(cwd, "data/config/apidocgen.toml")),
		filepath.Clean(filepath.Join(cwd, "apidocgen.toml")),
		filepath.Clean(filepath.Join(cwd, "apidocgen.yaml")),
		filepath.Clean(filepath.Join(cwd, "apidocgen.json")),
	}, nil
}

// applyModeOptions checks flag combinations and narrows the configured
// documents to any named on the command line.
func applyModeOptions(opts *cliOptions, cfg *config.Config) error {
	if opts.once && (opts.watch || opts.ui) {
		return fmt.Errorf("--once cannot be combined with --watch or --ui")
	}
	if opts.since != "" && opts.history == "" {
		return fmt.Errorf("--since requires --history")
	}
	if opts.history != "" {
		if opts.watch || opts.ui {
			return fmt.Errorf("--history cannot be combined with --watch or --ui")
		}
		if _, err := parseSince(opts.since); err != nil {
			return err
		}
		return nil
	}
	if opts.ui {
		opts.watch = true
	}
	if !opts.watch {
		opts.once = true
	}
	if opts.watch && cfg.Source.LocalDir == "" {
		return fmt.Errorf("--watch requires source.local_dir in the config")
	}

	return selectDocuments(cfg, opts.args)
}

// selectDocuments narrows cfg to the documents named on the command line.
// No names keeps every configured document.
func selectDocuments(cfg *config.Config, names []string) error {
	if len(names) == 0 {
		return nil
	}
	selected := make([]config.Document, 0, len(names))
	for _, name := range names {
		doc, ok := cfg.Document(name)
		if !ok {
			return fmt.Errorf("document %q is not configured", name)
		}
		selected = append(selected, doc)
	}
	cfg.Documents = selected
	return nil
}

func parseSince(value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, nil
	}

	rfc3339, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return rfc3339.UTC(), nil
	}

	dateOnly, err := time.Parse("2006-01-02", raw)
	if err == nil {
		return dateOnly.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("--since must be RFC3339 or YYYY-MM-DD, got %q", value)
}

func runHistoryMode(ctx context.Context, app *coreapp.App, opts cliOptions, w io.Writer) int {
	since, err := parseSince(opts.since)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	runs, err := app.History(ctx, opts.history, since)
	if err != nil {
		slog.Error("failed to load run history", "document", opts.history, "error", err)
		return 1
	}
	fmt.Fprintln(w, "RunID\tTimestamp\tErrors\tWarnings\tPatches\tDurationMS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format(time.RFC3339),
			run.Errors,
			run.Warnings,
			run.PatchesApplied,
			run.Duration.Milliseconds(),
		)
	}
	return 0
}

func configureLogging(uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stderr
	var closeFn func() = func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "apidocgen", "apidocgen.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "apidocgen", "apidocgen.log")
	}

	return "apidocgen.log"
}
