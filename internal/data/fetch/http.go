package fetch

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"apidocgen/internal/core/errors"
	"apidocgen/internal/shared/observability"
	"apidocgen/internal/shared/util"
)

const maxDocumentBytes = 8 << 20

type HTTPOptions struct {
	RawBaseURL  string
	HTMLBaseURL string
	Timeout     time.Duration
	RateLimit   float64
	Burst       int
	UserAgent   string
	Client      *http.Client
}

// HTTPFetcher downloads documents from RawBaseURL, one rate limiter per host.
// HTML responses are converted to Markdown before parsing.
type HTTPFetcher struct {
	opts     HTTPOptions
	client   *http.Client
	limiters *util.LimiterRegistry
	md       *converter.Converter
}

func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPFetcher{
		opts:     opts,
		client:   client,
		limiters: util.NewLimiterRegistry(opts.RateLimit, opts.Burst, 10*time.Minute),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Close releases the limiter registry.
func (f *HTTPFetcher) Close() {
	f.limiters.Close()
}

func (f *HTTPFetcher) Fetch(ctx context.Context, name string) (Document, error) {
	rawURL := strings.TrimSuffix(f.opts.RawBaseURL, "/") + "/" + strings.TrimPrefix(name, "/")
	u, err := url.Parse(rawURL)
	if err != nil {
		return Document{}, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "build document url"), errors.CtxURL, rawURL)
	}

	if err := f.limiters.Get(u.Host).Wait(ctx, 1); err != nil {
		return Document{}, errors.AddContext(errors.Wrap(err, errors.CodeFetchFailed, "wait for rate limiter"), errors.CtxURL, rawURL)
	}

	start := time.Now()
	text, err := f.get(ctx, u.String())
	observability.FetchDuration.WithLabelValues("http").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.FetchErrorsTotal.WithLabelValues("http").Inc()
		return Document{}, errors.AddContext(errors.AddContext(err, errors.CtxURL, rawURL), errors.CtxDocument, name)
	}

	helpBase := f.opts.HTMLBaseURL
	if helpBase == "" {
		helpBase = f.opts.RawBaseURL
	}
	return Document{Name: name, Text: text, URL: HelpURL(helpBase, name)}, nil
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeFetchFailed, "build request")
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, text/html;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeFetchFailed, "fetch document")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", errors.Newf(errors.CodeNotFound, "document not found (HTTP %d)", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", errors.Newf(errors.CodeFetchFailed, "unexpected HTTP status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeFetchFailed, "read response body")
	}
	if len(body) > maxDocumentBytes {
		return "", errors.Newf(errors.CodeFetchFailed, "document exceeds %d bytes", maxDocumentBytes)
	}

	if isHTML(resp.Header.Get("Content-Type")) {
		slog.Debug("converting html document to markdown", "url", rawURL)
		text, err := f.md.ConvertString(string(body), converter.WithDomain(rawURL))
		if err != nil {
			return "", errors.Wrap(err, errors.CodeFetchFailed, "convert html to markdown")
		}
		if strings.TrimSpace(text) == "" {
			return "", errors.Newf(errors.CodeFetchFailed, "html document at %s converted to empty markdown", rawURL)
		}
		return text + "\n", nil
	}
	return string(body), nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
