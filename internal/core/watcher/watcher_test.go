package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsBadGlob(t *testing.T) {
	if _, err := NewWatcher(time.Millisecond, nil, []string{"[unclosed"}, func([]string) {}); err == nil {
		t.Fatal("expected glob compile error")
	}
}

func waitFor(t *testing.T, changed <-chan []string, target string) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changed:
			for _, p := range paths {
				if p == target {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for change event on %s", target)
		}
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, []string{".git"}, []string{"draft-*.md"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "app.md")
	if err := os.WriteFile(testFile, []byte("# app\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, testFile)

	// Excluded names and non-document extensions stay silent.
	for _, name := range []string{"draft-menu.md", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			if base := filepath.Base(p); base == "draft-menu.md" || base == "notes.txt" {
				t.Errorf("excluded file %s triggered event", base)
			}
		}
	case <-time.After(500 * time.Millisecond):
	}

	// New directories are watched once created.
	subdir := filepath.Join(tmpDir, "structures")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "rectangle.md")
	if err := os.WriteFile(subFile, []byte("# Rectangle\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, subFile)
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "old.md")
	newPath := filepath.Join(tmpDir, "new.md")
	if err := os.WriteFile(oldPath, []byte("# old\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == oldPath || p == newPath {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for rename event, old=%s new=%s", oldPath, newPath)
		}
	}
}

func TestWatcher_Filters(t *testing.T) {
	w, err := NewWatcher(10*time.Millisecond, []string{"node_modules"}, []string{"api/internal/**"}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	w.roots = []string{"/docs"}

	if !w.shouldExcludeFile("/docs/app.txt") {
		t.Fatal("expected non-markdown files to be excluded")
	}
	if w.shouldExcludeFile("/docs/api/app.md") {
		t.Fatal("expected markdown files to be included")
	}
	if !w.shouldExcludeFile("/docs/api/internal/deep/secret.md") {
		t.Fatal("expected relative path pattern to exclude nested file")
	}
	if !w.shouldExcludeDir("/docs/node_modules") {
		t.Fatal("expected node_modules to be excluded")
	}

	w.SetExtensions([]string{"txt"})
	if w.shouldExcludeFile("/docs/app.txt") {
		t.Fatal("expected .txt to be included after SetExtensions")
	}
}

func TestWatcher_SetExcludeFiles(t *testing.T) {
	w, err := NewWatcher(10*time.Millisecond, nil, []string{"draft-*.md"}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	w.roots = []string{"/docs"}

	if !w.shouldExcludeFile("/docs/draft-app.md") {
		t.Fatal("expected initial pattern to exclude draft")
	}
	if err := w.SetExcludeFiles([]string{"api/internal/**"}); err != nil {
		t.Fatal(err)
	}
	if w.shouldExcludeFile("/docs/draft-app.md") {
		t.Fatal("expected replaced patterns to drop the draft exclude")
	}
	if !w.shouldExcludeFile("/docs/api/internal/secret.md") {
		t.Fatal("expected new pattern to apply")
	}

	if err := w.SetExcludeFiles([]string{"[unclosed"}); err == nil {
		t.Fatal("expected glob compile error")
	}
	if !w.shouldExcludeFile("/docs/api/internal/secret.md") {
		t.Fatal("expected previous patterns to survive a bad update")
	}
}
