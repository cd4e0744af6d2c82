package amazonmusic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

const (
	// Preview crawlers get server-rendered OpenGraph tags instead of the client-side shell
	crawlerUserAgent = "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)"
	acceptHTML       = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	maxMarkupBytes = 8 << 20
)

// Fetcher downloads Amazon Music pages
type Fetcher struct {
	base       string
	timeout    time.Duration
	httpClient *http.Client
	observer   Observer
	logger     *log.Entry
}

func newFetcher(base string, timeout time.Duration, httpClient *http.Client, observer Observer) *Fetcher {
	return &Fetcher{
		base:       base,
		timeout:    timeout,
		httpClient: httpClient,
		observer:   observer,
		logger:     log.WithFields(log.Fields{"module": "amazonmusic", "component": "fetcher"}),
	}
}

// PageURL returns the URL fetched for a kind segment and ID
func (f *Fetcher) PageURL(segment, id string) string {
	return joinURL(f.base, "/"+segment+"/"+id)
}

// FetchMarkup issues a single GET for the page and returns its raw markup.
// It fails with ErrFetchTimeout, *HTTPError or *NetworkError.
func (f *Fetcher) FetchMarkup(ctx context.Context, segment, id string) ([]byte, error) {
	pageURL := f.PageURL(segment, id)

	span := sentry.StartSpan(ctx, "amazonmusic.fetch_markup")
	span.Description = "Fetch Amazon Music page"
	span.SetTag("segment", segment)
	span.SetTag("id", id)
	defer span.Finish()

	fetchCtx, cancel := context.WithTimeout(span.Context(), f.timeout)
	defer cancel()

	start := time.Now()
	markup, err := f.do(fetchCtx, pageURL)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		span.Status = sentry.SpanStatusOK
		f.observer.ObserveFetch(segment, OutcomeOK, elapsed)
		f.logger.Tracef("Fetched %s (%d bytes) in %s", pageURL, len(markup), elapsed)
		return markup, nil
	case errors.Is(fetchCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		span.Status = sentry.SpanStatusDeadlineExceeded
		f.observer.ObserveFetch(segment, OutcomeTimeout, elapsed)
		f.logger.Warnf("Timed out after %s fetching %s", f.timeout, pageURL)
		return nil, fmt.Errorf("%w after %s", ErrFetchTimeout, f.timeout)
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		span.Status = sentry.SpanStatusUnavailable
		if httpErr.StatusCode == http.StatusNotFound {
			span.Status = sentry.SpanStatusNotFound
		}
		f.observer.ObserveFetch(segment, OutcomeHTTPError, elapsed)
	} else {
		span.Status = sentry.SpanStatusInternalError
		f.observer.ObserveFetch(segment, OutcomeNetwork, elapsed)
	}
	f.logger.Debugf("Fetch failed: %v", err)
	return nil, err
}

func (f *Fetcher) do(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", crawlerUserAgent)
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: pageURL}
	}

	markup, err := io.ReadAll(io.LimitReader(resp.Body, maxMarkupBytes))
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: fmt.Errorf("reading body: %w", err)}
	}
	return markup, nil
}

// joinURL appends path to base, dropping a duplicated /api prefix when the
// base already ends with one.
func joinURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(strings.ToLower(base), "/api") && strings.HasPrefix(path, "/api") {
		path = strings.TrimPrefix(path, "/api")
	}
	return base + path
}
