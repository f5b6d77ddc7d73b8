package app

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"apidocgen/internal/core/config"
	"apidocgen/internal/core/diag"
	"apidocgen/internal/core/errors"
	"apidocgen/internal/core/watcher"
	"apidocgen/internal/data/fetch"
	"apidocgen/internal/data/store"
	"apidocgen/internal/engine/definition"
	"apidocgen/internal/shared/observability"
)

// DocumentResult is what one configured document produced in a run.
type DocumentResult struct {
	Name     string
	URL      string
	Output   *definition.Output
	Entries  []diag.Entry
	Errors   int
	Warnings int
	Patches  int
	Duration time.Duration
	// Err is set when the document could not be loaded at all.
	Err error
}

type Result struct {
	RunID        string
	Documents    []DocumentResult
	SyntaxIssues int
	Duration     time.Duration
	// Emitted is false when a document failed to load and the previous
	// declarations were left in place.
	Emitted bool
}

func (r *Result) ErrorCount() int {
	total := r.SyntaxIssues
	for _, d := range r.Documents {
		total += d.Errors
		if d.Err != nil {
			total++
		}
	}
	return total
}

func (r *Result) WarningCount() int {
	total := 0
	for _, d := range r.Documents {
		total += d.Warnings
	}
	return total
}

func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

func (r *Result) HasWarnings() bool {
	return r.WarningCount() > 0
}

type Options struct {
	// Sink receives every diagnostic as it is reported, in addition to the
	// per-document collectors. Nil logs through slog.
	Sink diag.Sink
	// Refresh ignores cached remote documents for this process.
	Refresh bool
	// Fetcher replaces the fetcher built from the source config. It is used
	// as is, without the document cache.
	Fetcher fetch.Fetcher
}

type App struct {
	Config *config.Config

	fetcher fetch.Fetcher
	store   *store.Store
	sink    diag.Sink
	closers []func()

	runMu sync.Mutex

	updateMu sync.RWMutex
	onUpdate func(*Result)

	lastMu sync.RWMutex
	last   *Result

	activeWatcher *watcher.Watcher
}

func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}
	a := &App{Config: cfg, sink: opts.Sink}
	if a.sink == nil {
		a.sink = diag.NewSlogSink(slog.Default())
	}

	if cfg.Cache.IsEnabled() {
		st, err := store.Open(cfg.Cache.Path, store.Options{BusyTimeout: cfg.Cache.BusyTimeout.Duration})
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxOperation, "open_cache")
		}
		a.store = st
		a.closers = append(a.closers, func() {
			if err := st.Close(); err != nil {
				slog.Warn("failed to close cache", "path", st.Path(), "error", err)
			}
		})
	}

	a.fetcher = opts.Fetcher
	if a.fetcher == nil {
		a.fetcher = a.buildFetcher(opts.Refresh)
	}
	return a, nil
}

// buildFetcher reads local_dir straight from disk so edits are seen on the
// next run. Only remote documents go through the cache.
func (a *App) buildFetcher(refresh bool) fetch.Fetcher {
	src := a.Config.Source
	if src.LocalDir != "" {
		return fetch.NewLocalFetcher(src.LocalDir, src.HTMLBaseURL)
	}
	f := fetch.NewHTTPFetcher(fetch.HTTPOptions{
		RawBaseURL:  src.RawBaseURL,
		HTMLBaseURL: src.HTMLBaseURL,
		Timeout:     src.Timeout.Duration,
		RateLimit:   src.RateLimit,
		Burst:       src.Burst,
		UserAgent:   src.UserAgent,
	})
	a.closers = append(a.closers, f.Close)
	if a.store == nil {
		return f
	}
	return fetch.NewCachedFetcher(f, a.store, a.Config.Cache.TTL.Duration).WithRefresh(refresh)
}

func (a *App) Close(ctx context.Context) error {
	if a.activeWatcher != nil {
		if err := a.activeWatcher.Close(); err != nil {
			slog.Warn("failed to stop watcher", "error", err)
		}
		a.activeWatcher = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	return ctx.Err()
}

// SetUpdateHandler registers a callback invoked after every run.
func (a *App) SetUpdateHandler(handler func(*Result)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

// LastResult returns the most recent run, or nil before the first one.
func (a *App) LastResult() *Result {
	a.lastMu.RLock()
	defer a.lastMu.RUnlock()
	return a.last
}

// Run loads, parses and patches every configured document, then writes the
// configured outputs. Diagnostics never fail a run; a document that cannot
// be loaded does, and in that case no output is rewritten.
func (a *App) Run(ctx context.Context) (*Result, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	ctx, span := observability.Tracer.Start(ctx, "app.Run",
		trace.WithAttributes(attribute.Int("documents", len(a.Config.Documents))))
	defer span.End()

	start := time.Now()
	res := &Result{
		RunID:     store.NewRunID(),
		Documents: a.processAll(ctx),
	}

	var loadErrs []error
	for _, d := range res.Documents {
		if d.Err != nil {
			loadErrs = append(loadErrs, d.Err)
		}
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	var runErr error
	if len(loadErrs) > 0 {
		runErr = errors.Wrap(stderrors.Join(loadErrs...), errors.CodeFetchFailed, "load documents")
		slog.Error("skipping outputs, some documents could not be loaded", "failed", len(loadErrs))
	} else {
		issues, err := a.writeOutputs(ctx, res.Documents)
		res.SyntaxIssues = len(issues)
		if err != nil {
			runErr = err
		} else {
			res.Emitted = true
		}
	}
	res.Duration = time.Since(start)

	a.recordRuns(ctx, res)
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	}

	observability.LastRunTimestamp.SetToCurrentTime()
	slog.Info("run complete",
		"run_id", res.RunID,
		"documents", len(res.Documents),
		"errors", res.ErrorCount(),
		"warnings", res.WarningCount(),
		"duration", res.Duration.Round(time.Millisecond),
		"heap_mb", observability.RecordRunHeap(),
	)

	a.lastMu.Lock()
	a.last = res
	a.lastMu.Unlock()
	a.emitUpdate(res)
	return res, runErr
}

func (a *App) processAll(ctx context.Context) []DocumentResult {
	docs := a.Config.Documents
	results := make([]DocumentResult, len(docs))

	workers := a.Config.Workers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc config.Document) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = DocumentResult{Name: doc.Name, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			results[i] = a.processDocument(ctx, doc)
		}(i, doc)
	}
	wg.Wait()
	return results
}

func (a *App) processDocument(ctx context.Context, doc config.Document) DocumentResult {
	ctx, span := observability.Tracer.Start(ctx, "app.processDocument",
		trace.WithAttributes(attribute.String("document", doc.Name), attribute.String("mode", doc.Mode)))
	defer span.End()

	res := DocumentResult{Name: doc.Name}
	fail := func(err error) DocumentResult {
		res.Err = errors.AddContext(err, errors.CtxDocument, doc.Name)
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		observability.DocumentsParsedTotal.WithLabelValues("failed").Inc()
		slog.Error("failed to load document", "document", doc.Name, "error", res.Err)
		return res
	}

	settings, err := doc.ParserSettings()
	if err != nil {
		return fail(errors.Wrap(err, errors.CodeValidationError, "parser settings"))
	}
	fetched, err := a.fetcher.Fetch(ctx, doc.Name)
	if err != nil {
		return fail(err)
	}
	res.URL = fetched.URL
	span.SetAttributes(attribute.Bool("content_changed", fetched.Changed))

	collector := diag.NewCollector(a.sink)
	start := time.Now()
	out := definition.Generate(fetched.URL, fetched.Text, settings, collector)
	res.Patches = definition.ApplyPatches(out, doc.PatchSet(), collector)
	res.Duration = time.Since(start)

	res.Output = out
	res.Entries = collector.Entries()
	res.Errors = collector.ErrorCount()
	res.Warnings = collector.WarningCount()

	observability.ParsingDuration.WithLabelValues(settings.Mode.String()).Observe(res.Duration.Seconds())
	observability.DiagnosticsTotal.WithLabelValues(diag.SeverityError.String()).Add(float64(res.Errors))
	observability.DiagnosticsTotal.WithLabelValues(diag.SeverityWarning.String()).Add(float64(res.Warnings))
	observability.PatchesAppliedTotal.Add(float64(res.Patches))
	outcome := "ok"
	if res.Errors > 0 {
		outcome = "errors"
	}
	observability.DocumentsParsedTotal.WithLabelValues(outcome).Inc()
	span.SetAttributes(
		attribute.Int("errors", res.Errors),
		attribute.Int("warnings", res.Warnings),
		attribute.Int("patches", res.Patches),
	)

	slog.Debug("parsed document",
		"document", doc.Name,
		"name", out.Name,
		"methods", len(out.Methods),
		"properties", len(out.Properties),
		"events", len(out.Events),
		"data_types", len(out.DataTypes),
		"duration", res.Duration,
	)
	return res
}

func (a *App) recordRuns(ctx context.Context, res *Result) {
	if a.store == nil || !a.Config.Cache.RecordsRuns() {
		return
	}
	now := time.Now().UTC()
	for _, d := range res.Documents {
		errs := d.Errors
		if d.Err != nil {
			errs++
		}
		err := a.store.SaveRun(ctx, store.Run{
			ID:             res.RunID,
			Document:       d.Name,
			URL:            d.URL,
			Errors:         errs,
			Warnings:       d.Warnings,
			PatchesApplied: d.Patches,
			Duration:       d.Duration,
			Timestamp:      now,
		})
		if err != nil {
			slog.Warn("failed to record run", "run_id", res.RunID, "document", d.Name, "error", err)
		}
	}
}

// History returns recorded runs for a document since the given time.
func (a *App) History(ctx context.Context, document string, since time.Time) ([]store.Run, error) {
	if a.store == nil {
		return nil, errors.New(errors.CodeNotSupported, "run history requires the cache to be enabled")
	}
	return a.store.LoadRuns(ctx, document, since)
}

func (a *App) emitUpdate(res *Result) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(res)
	}
}

// Reconfigure swaps in the document, output, alias and watch exclude
// settings of a reloaded config. Source and cache settings are fixed for the
// process.
func (a *App) Reconfigure(cfg *config.Config) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if cfg.Source != a.Config.Source || cfg.Cache.Path != a.Config.Cache.Path {
		slog.Warn("source and cache changes take effect after a restart")
	}
	next := *a.Config
	next.Workers = cfg.Workers
	next.Output = cfg.Output
	next.TypeAliases = cfg.TypeAliases
	next.Documents = cfg.Documents
	next.Watch.Exclude = cfg.Watch.Exclude
	if a.activeWatcher != nil {
		if err := a.activeWatcher.SetExcludeFiles(cfg.Watch.Exclude); err != nil {
			slog.Warn("keeping previous watch excludes", "error", err)
			next.Watch.Exclude = a.Config.Watch.Exclude
		}
	}
	a.Config = &next
	slog.Info("config applied", "documents", len(next.Documents))
}
