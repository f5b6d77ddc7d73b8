// Package fetch loads API documents from disk or over HTTP.
package fetch

import (
	"context"
	"strings"
)

// Document is the raw Markdown of one API file plus the address readers use
// to browse it.
type Document struct {
	Name string
	Text string
	URL  string
	// Changed is set by CachedFetcher when a fresh fetch differs from the
	// cached copy, or when there was no cached copy.
	Changed bool
}

type Fetcher interface {
	Fetch(ctx context.Context, name string) (Document, error)
}

// HelpURL joins a browsable base address and a document name.
func HelpURL(base, name string) string {
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	if base == "" {
		return name
	}
	return base + "/" + strings.TrimPrefix(name, "/")
}
