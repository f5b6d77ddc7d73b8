package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidocgen/internal/core/errors"
	"apidocgen/internal/data/store"
)

func TestHelpURL(t *testing.T) {
	assert.Equal(t, "https://example.com/docs/app.md", HelpURL("https://example.com/docs/", "app.md"))
	assert.Equal(t, "app.md", HelpURL("  ", "app.md"))
}

func TestLocalFetcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "structures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.md"), []byte("# app\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "structures", "rectangle.md"), []byte("# Rectangle\n"), 0o644))

	f := NewLocalFetcher(dir, "https://example.com/api")

	doc, err := f.Fetch(context.Background(), "app.md")
	require.NoError(t, err)
	assert.Equal(t, "# app\n", doc.Text)
	assert.Equal(t, "https://example.com/api/app.md", doc.URL)

	doc, err = f.Fetch(context.Background(), "structures/rectangle.md")
	require.NoError(t, err)
	assert.Equal(t, "# Rectangle\n", doc.Text)

	_, err = f.Fetch(context.Background(), "missing.md")
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	_, err = f.Fetch(context.Background(), "../outside.md")
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestHTTPFetcher_Markdown(t *testing.T) {
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/docs/app.md":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("# app\n\nControl your application.\n"))
		case "/docs/broken.md":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{
		RawBaseURL:  srv.URL + "/docs",
		HTMLBaseURL: "https://example.com/docs/api",
		RateLimit:   100,
		Burst:       10,
		UserAgent:   "apidocgen-test",
	})
	defer f.Close()

	doc, err := f.Fetch(context.Background(), "app.md")
	require.NoError(t, err)
	assert.Equal(t, "# app\n\nControl your application.\n", doc.Text)
	assert.Equal(t, "https://example.com/docs/api/app.md", doc.URL)
	assert.Equal(t, "apidocgen-test", agent.Load())

	_, err = f.Fetch(context.Background(), "missing.md")
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	_, err = f.Fetch(context.Background(), "broken.md")
	assert.True(t, errors.IsCode(err, errors.CodeFetchFailed))
}

func TestHTTPFetcher_ConvertsHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><h1>app</h1><h2>Events</h2><p>Emitted when ready.</p></body></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{RawBaseURL: srv.URL, RateLimit: 100, Burst: 10})
	defer f.Close()

	doc, err := f.Fetch(context.Background(), "app.md")
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "# app")
	assert.Contains(t, doc.Text, "## Events")
	assert.Contains(t, doc.Text, "Emitted when ready.")
	assert.Equal(t, srv.URL+"/app.md", doc.URL)
}

func TestHTTPFetcher_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# app\n"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{RawBaseURL: srv.URL, RateLimit: 1, Burst: 1})
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Fetch(ctx, "app.md")
	assert.Error(t, err)
}

type stubFetcher struct {
	calls int
	doc   Document
	err   error
}

func (s *stubFetcher) Fetch(_ context.Context, name string) (Document, error) {
	s.calls++
	if s.err != nil {
		return Document{}, s.err
	}
	doc := s.doc
	doc.Name = name
	return doc, nil
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "documents.db"), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCachedFetcher(t *testing.T) {
	ctx := context.Background()
	inner := &stubFetcher{doc: Document{Text: "# app\n", URL: "https://example.com/app.md"}}
	cf := NewCachedFetcher(inner, openStore(t), 0)

	first, err := cf.Fetch(ctx, "app.md")
	require.NoError(t, err)
	second, err := cf.Fetch(ctx, "app.md")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls, "second fetch should be served from cache")
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.URL, second.URL)
	assert.True(t, first.Changed)
	assert.False(t, second.Changed)

	cf.WithRefresh(true)
	_, err = cf.Fetch(ctx, "app.md")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedFetcher_TTLAndStaleFallback(t *testing.T) {
	ctx := context.Background()
	inner := &stubFetcher{doc: Document{Text: "v1", URL: "u"}}
	cf := NewCachedFetcher(inner, openStore(t), time.Hour)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cf.now = func() time.Time { return now }

	_, err := cf.Fetch(ctx, "app.md")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	inner.doc.Text = "v2"
	doc, err := cf.Fetch(ctx, "app.md")
	require.NoError(t, err)
	assert.Equal(t, "v2", doc.Text, "expired entry should be refetched")
	assert.Equal(t, 2, inner.calls)

	now = now.Add(2 * time.Hour)
	inner.err = errors.New(errors.CodeFetchFailed, "offline")
	doc, err = cf.Fetch(ctx, "app.md")
	require.NoError(t, err)
	assert.Equal(t, "v2", doc.Text, "stale entry should be served when fetch fails")

	_, err = cf.Fetch(ctx, "other.md")
	assert.True(t, errors.IsCode(err, errors.CodeFetchFailed))
}

func TestCachedFetcher_ReportsContentChanges(t *testing.T) {
	ctx := context.Background()
	inner := &stubFetcher{doc: Document{Text: "v1", URL: "u"}}
	cache := openStore(t)
	cf := NewCachedFetcher(inner, cache, 0).WithRefresh(true)

	doc, err := cf.Fetch(ctx, "app.md")
	require.NoError(t, err)
	assert.True(t, doc.Changed, "first fetch has no cached copy")

	doc, err = cf.Fetch(ctx, "app.md")
	require.NoError(t, err)
	assert.False(t, doc.Changed, "same content should match the stored digest")

	inner.doc.Text = "v2"
	doc, err = cf.Fetch(ctx, "app.md")
	require.NoError(t, err)
	assert.True(t, doc.Changed)

	cached, ok, err := cache.GetDocument(ctx, "app.md")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, store.ContentDigest("v2"), cached.SHA256)
}
