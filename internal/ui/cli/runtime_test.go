package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	coreapp "apidocgen/internal/core/app"
	"apidocgen/internal/core/config"
)

func TestApplyModeOptions_OnceIsDefault(t *testing.T) {
	opts := &cliOptions{}
	if err := applyModeOptions(opts, &config.Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.once {
		t.Fatal("expected --once to be implied without --watch")
	}
}

func TestApplyModeOptions_UIImpliesWatch(t *testing.T) {
	opts := &cliOptions{ui: true}
	cfg := &config.Config{Source: config.Source{LocalDir: "./docs"}}
	if err := applyModeOptions(opts, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.watch || opts.once {
		t.Fatalf("expected watch mode, got watch=%v once=%v", opts.watch, opts.once)
	}
}

func TestApplyModeOptions_Rejects(t *testing.T) {
	cases := []struct {
		name string
		opts cliOptions
		cfg  config.Config
		want string
	}{
		{"once and watch", cliOptions{once: true, watch: true}, config.Config{}, "cannot be combined"},
		{"watch without local dir", cliOptions{watch: true}, config.Config{}, "requires source.local_dir"},
		{"since without history", cliOptions{since: "2026-01-01"}, config.Config{}, "requires --history"},
		{"bad since", cliOptions{history: "api/app.md", since: "yesterday"}, config.Config{}, "RFC3339"},
		{"history with watch", cliOptions{history: "api/app.md", watch: true}, config.Config{}, "cannot be combined"},
		{"unknown document", cliOptions{args: []string{"api/missing.md"}}, config.Config{}, "not configured"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := tc.opts
			cfg := tc.cfg
			err := applyModeOptions(&opts, &cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestApplyModeOptions_SelectsNamedDocuments(t *testing.T) {
	cfg := &config.Config{Documents: []config.Document{
		{Name: "api/app.md"},
		{Name: "api/shell.md"},
		{Name: "api/clipboard.md"},
	}}
	opts := &cliOptions{args: []string{"api/shell.md"}}
	if err := applyModeOptions(opts, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Documents) != 1 || cfg.Documents[0].Name != "api/shell.md" {
		t.Fatalf("unexpected documents: %+v", cfg.Documents)
	}
}

func TestSelectDocuments_ReloadedConfigKeepsSelection(t *testing.T) {
	reloaded := &config.Config{Documents: []config.Document{
		{Name: "api/app.md"},
		{Name: "api/shell.md", Mode: "class"},
		{Name: "api/tray.md"},
	}}
	if err := selectDocuments(reloaded, []string{"api/shell.md"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reloaded.Documents) != 1 || reloaded.Documents[0].Mode != "class" {
		t.Fatalf("expected reloaded shell entry only, got %+v", reloaded.Documents)
	}

	all := &config.Config{Documents: []config.Document{{Name: "api/app.md"}, {Name: "api/tray.md"}}}
	if err := selectDocuments(all, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all.Documents) != 2 {
		t.Fatalf("expected every document without a selection, got %+v", all.Documents)
	}

	dropped := &config.Config{Documents: []config.Document{{Name: "api/app.md"}}}
	if err := selectDocuments(dropped, []string{"api/shell.md"}); err == nil {
		t.Fatal("expected error when a selected document leaves the config")
	}
}

func TestParseSince(t *testing.T) {
	got, err := parseSince("2026-02-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2026 || got.Month() != 2 || got.Day() != 3 {
		t.Fatalf("unexpected date: %v", got)
	}
	if zero, err := parseSince(" "); err != nil || !zero.IsZero() {
		t.Fatalf("expected zero time for blank input, got %v err=%v", zero, err)
	}
}

func TestExitCode(t *testing.T) {
	warned := &coreapp.Result{Documents: []coreapp.DocumentResult{{Warnings: 1}}}
	failed := &coreapp.Result{Documents: []coreapp.DocumentResult{{Errors: 1}}}
	clean := &coreapp.Result{Documents: []coreapp.DocumentResult{{}}}

	if got := exitCode(clean, nil, true); got != 0 {
		t.Fatalf("clean run: expected 0, got %d", got)
	}
	if got := exitCode(warned, nil, false); got != 0 {
		t.Fatalf("warnings without strict: expected 0, got %d", got)
	}
	if got := exitCode(warned, nil, true); got != 1 {
		t.Fatalf("warnings with strict: expected 1, got %d", got)
	}
	if got := exitCode(failed, nil, false); got != 1 {
		t.Fatalf("errors: expected 1, got %d", got)
	}
	if got := exitCode(clean, errors.New("boom"), false); got != 1 {
		t.Fatalf("run error: expected 1, got %d", got)
	}
}

func TestLoadConfig_DiscoversDefault(t *testing.T) {
	cwd := t.TempDir()
	if err := os.WriteFile(filepath.Join(cwd, "apidocgen.toml"), []byte(`
version = 1

[source]
local_dir = "docs"

[[documents]]
name = "api/app.md"
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := loadConfig(defaultConfigPath, cwd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "apidocgen.toml" {
		t.Fatalf("unexpected config path: %s", path)
	}
	if len(cfg.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(cfg.Documents))
	}

	if err := prepareConfig(cfg, path); err != nil {
		t.Fatalf("prepare config: %v", err)
	}
	if cfg.Source.LocalDir != filepath.Join(cwd, "docs") {
		t.Fatalf("expected local dir resolved against config dir, got %s", cfg.Source.LocalDir)
	}
}

func TestLoadConfig_NoDefault(t *testing.T) {
	if _, _, err := loadConfig(defaultConfigPath, t.TempDir()); err == nil {
		t.Fatal("expected error without any config file")
	}
}

func newRunnableApp(t *testing.T) (*coreapp.App, *config.Config) {
	t.Helper()
	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	if err := os.MkdirAll(docs, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := "# shell\n\nManage files.\n\n## Methods\n\n### `shell.beep()`\n\nPlay the beep sound.\n"
	if err := os.WriteFile(filepath.Join(docs, "shell.md"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	off := false
	cfg := &config.Config{
		Version: 1,
		Workers: 1,
		Source:  config.Source{LocalDir: docs},
		Cache:   config.Cache{Enabled: &off},
		Output: config.Output{
			Path:       filepath.Join(root, "out", "electron.d.ts"),
			ModuleName: "electron",
			Aggregate:  "Electron",
		},
		Documents: []config.Document{{Name: "shell.md", Mode: "module"}},
	}
	app, err := coreapp.New(cfg, coreapp.Options{})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	return app, cfg
}

func TestObservabilityServer_Health(t *testing.T) {
	app, _ := newRunnableApp(t)
	server := NewObservabilityServer("127.0.0.1:0", coreapp.NewHealthService(app))
	handler := server.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 before first run, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"last_run":"pending"`) {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics endpoint, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "apidocgen_") {
		t.Fatal("expected apidocgen metrics in exposition")
	}
}

func TestObservabilityServer_StartStop(t *testing.T) {
	app, _ := newRunnableApp(t)
	server := NewObservabilityServer("127.0.0.1:0", coreapp.NewHealthService(app))
	if err := server.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer server.Stop(context.Background())

	resp, err := http.Get("http://" + server.Addr() + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRunHistoryMode_RequiresCache(t *testing.T) {
	app, _ := newRunnableApp(t)
	var out bytes.Buffer
	if code := runHistoryMode(context.Background(), app, cliOptions{history: "shell.md"}, &out); code != 1 {
		t.Fatalf("expected exit 1 without cache, got %d", code)
	}
}

func TestRunHistoryMode_PrintsRuns(t *testing.T) {
	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	if err := os.MkdirAll(docs, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "shell.md"), []byte("# shell\n\nManage files.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		Workers: 1,
		Source:  config.Source{LocalDir: docs},
		Cache:   config.Cache{Path: filepath.Join(root, "cache.db")},
		Output: config.Output{
			Path:       filepath.Join(root, "out.d.ts"),
			ModuleName: "electron",
			Aggregate:  "Electron",
		},
		Documents: []config.Document{{Name: "shell.md", Mode: "module"}},
	}
	app, err := coreapp.New(cfg, coreapp.Options{})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer app.Close(context.Background())
	if _, err := app.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var out bytes.Buffer
	if code := runHistoryMode(context.Background(), app, cliOptions{history: "shell.md"}, &out); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one run, got %q", out.String())
	}
	if !strings.HasPrefix(lines[0], "RunID\t") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}
