// Package wiki loads the current text of published wiki pages.
package wiki

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
	"git.home.luguber.info/inful/wikilist/internal/logfields"
)

// maxPageSize bounds remote page downloads.
const maxPageSize = 16 << 20

// Source returns the current Markdown of a page.
type Source interface {
	Load(ctx context.Context, page string) (string, error)
}

// LocalSource reads pages from a directory, usually the wiki working copy.
type LocalSource struct {
	Dir string
}

// Load reads Dir/page.
func (s LocalSource) Load(_ context.Context, page string) (string, error) {
	path := filepath.Join(s.Dir, page)
	data, err := os.ReadFile(path)
	if stderrors.Is(err, os.ErrNotExist) {
		return "", errors.NotFoundError("wiki page not found").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if err != nil {
		return "", errors.IOError("failed to read wiki page").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return string(data), nil
}

// HTTPSource fetches pages from the raw wiki endpoint.
type HTTPSource struct {
	urlFor func(page string) string
	client *http.Client
}

// NewHTTPSource creates a remote page source. urlFor maps a page filename to
// its raw URL. A nil client selects a client with a 30s timeout.
func NewHTTPSource(urlFor func(page string) string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{urlFor: urlFor, client: client}
}

// Load performs GET on the page's raw URL.
func (s *HTTPSource) Load(ctx context.Context, page string) (string, error) {
	url := s.urlFor(page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.InternalError("failed to build request").WithCause(err).WithContext("url", url).Build()
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.NewError(errors.CategoryNetwork, "failed to fetch wiki page").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", errors.NotFoundError("wiki page not found").
			WithContext("url", url).
			Build()
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", errors.NewError(errors.CategoryNetwork, fmt.Sprintf("unexpected status %d fetching wiki page", resp.StatusCode)).
			WithContext("url", url).
			WithContext("status", resp.StatusCode).
			Build()
	}

	// One byte past the limit tells an oversized page from one that fits exactly.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize+1))
	if err != nil {
		return "", errors.IOError("failed to read wiki page body").WithCause(err).WithContext("url", url).Build()
	}
	if len(body) > maxPageSize {
		return "", errors.IOError("wiki page exceeds size limit").
			WithContext("url", url).
			WithContext("limit", maxPageSize).
			Build()
	}
	slog.Debug("Fetched wiki page", logfields.URL(url), slog.Int("bytes", len(body)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return string(body), nil
}
