package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ContentDigest is the hex sha256 stored alongside cached content.
func ContentDigest(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Document is a cached copy of a source file.
type Document struct {
	Name      string
	URL       string
	Content   string
	SHA256    string
	FetchedAt time.Time
}

func (s *Store) PutDocument(ctx context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(doc.Name)
	if name == "" {
		return fmt.Errorf("document name must not be empty")
	}
	if doc.FetchedAt.IsZero() {
		doc.FetchedAt = time.Now().UTC()
	}

	query := `
INSERT INTO documents (name, url, content, content_sha256, fetched_at_utc)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
  url=excluded.url,
  content=excluded.content,
  content_sha256=excluded.content_sha256,
  fetched_at_utc=excluded.fetched_at_utc
`
	return s.withRetry("put document", func() error {
		_, err := s.db.ExecContext(ctx, query, name, doc.URL, doc.Content, ContentDigest(doc.Content), formatTS(doc.FetchedAt))
		return err
	})
}

// GetDocument returns the cached document and whether it exists.
func (s *Store) GetDocument(ctx context.Context, name string) (Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		doc   Document
		tsRaw string
	)
	err := s.withRetry("get document", func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT name, url, content, content_sha256, fetched_at_utc FROM documents WHERE name = ?`,
			strings.TrimSpace(name),
		).Scan(&doc.Name, &doc.URL, &doc.Content, &doc.SHA256, &tsRaw)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, err
	}

	doc.FetchedAt, err = parseTS(tsRaw)
	if err != nil {
		return Document{}, false, err
	}
	return doc, true, nil
}

func (s *Store) DeleteDocument(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withRetry("delete document", func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, strings.TrimSpace(name))
		return err
	})
}
