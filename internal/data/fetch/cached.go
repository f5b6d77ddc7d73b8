package fetch

import (
	"context"
	"log/slog"
	"time"

	"apidocgen/internal/data/store"
	"apidocgen/internal/shared/observability"
)

// DocumentCache is the subset of the sqlite store used for caching.
type DocumentCache interface {
	GetDocument(ctx context.Context, name string) (store.Document, bool, error)
	PutDocument(ctx context.Context, doc store.Document) error
}

// CachedFetcher serves documents from a cache and falls through to the inner
// fetcher on a miss. A zero TTL keeps entries until they are refreshed.
type CachedFetcher struct {
	inner   Fetcher
	cache   DocumentCache
	ttl     time.Duration
	refresh bool
	now     func() time.Time
}

func NewCachedFetcher(inner Fetcher, cache DocumentCache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{inner: inner, cache: cache, ttl: ttl, now: time.Now}
}

// WithRefresh bypasses cached entries while still writing fresh ones.
func (f *CachedFetcher) WithRefresh(refresh bool) *CachedFetcher {
	f.refresh = refresh
	return f
}

func (f *CachedFetcher) Fetch(ctx context.Context, name string) (Document, error) {
	cached, ok, err := f.cache.GetDocument(ctx, name)
	if err != nil {
		slog.Warn("document cache read failed", "document", name, "error", err)
		ok = false
	}
	if ok && !f.refresh && !f.expired(cached) {
		observability.CacheHitsTotal.Inc()
		slog.Debug("document served from cache", "document", name, "fetched_at", cached.FetchedAt)
		return Document{Name: name, Text: cached.Content, URL: cached.URL}, nil
	}
	observability.CacheMissesTotal.Inc()

	doc, fetchErr := f.inner.Fetch(ctx, name)
	if fetchErr != nil {
		if ok {
			slog.Warn("fetch failed, using stale cached document", "document", name, "error", fetchErr)
			return Document{Name: name, Text: cached.Content, URL: cached.URL}, nil
		}
		return Document{}, fetchErr
	}

	doc.Changed = !ok || store.ContentDigest(doc.Text) != cached.SHA256
	if ok && doc.Changed {
		slog.Info("document changed since last fetch", "document", name, "previous_fetch", cached.FetchedAt)
	} else if ok {
		slog.Debug("document unchanged since last fetch", "document", name)
	}

	if err := f.cache.PutDocument(ctx, store.Document{
		Name:      name,
		URL:       doc.URL,
		Content:   doc.Text,
		FetchedAt: f.now().UTC(),
	}); err != nil {
		slog.Warn("document cache write failed", "document", name, "error", err)
	}
	return doc, nil
}

func (f *CachedFetcher) expired(doc store.Document) bool {
	if f.ttl <= 0 {
		return false
	}
	return f.now().Sub(doc.FetchedAt) > f.ttl
}
