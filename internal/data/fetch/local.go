package fetch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"apidocgen/internal/core/errors"
	"apidocgen/internal/shared/observability"
	"apidocgen/internal/shared/util"
)

// LocalFetcher reads documents from a directory checkout of the docs.
type LocalFetcher struct {
	dir      string
	helpBase string
}

func NewLocalFetcher(dir, helpBase string) *LocalFetcher {
	return &LocalFetcher{dir: dir, helpBase: helpBase}
}

func (f *LocalFetcher) Dir() string {
	return f.dir
}

func (f *LocalFetcher) Fetch(ctx context.Context, name string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if !util.IsSafeDocumentName(name) {
		return Document{}, errors.AddContext(
			errors.Newf(errors.CodeValidationError, "document name %q escapes the source directory", name),
			errors.CtxDocument, name)
	}

	start := time.Now()
	path := filepath.Join(f.dir, filepath.FromSlash(name))
	data, err := os.ReadFile(path)
	observability.FetchDuration.WithLabelValues("local").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.FetchErrorsTotal.WithLabelValues("local").Inc()
		code := errors.CodeFetchFailed
		if os.IsNotExist(err) {
			code = errors.CodeNotFound
		}
		return Document{}, errors.AddContext(errors.Wrap(err, code, "read document"), errors.CtxPath, path)
	}

	return Document{Name: name, Text: string(data), URL: HelpURL(f.helpBase, name)}, nil
}
