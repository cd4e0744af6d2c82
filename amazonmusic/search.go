package amazonmusic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultSearchLimit = 20

	searchUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	trackSiteFilter = "site:music.amazon.com/tracks"
	siteFilter      = "site:music.amazon.com"

	placeholderName = "Unknown"
)

// Result links wrap the destination as an encoded RU= path parameter
var redirectRegex = regexp.MustCompile(`/RU=([^/"'\s<>]+)/R[KS]=`)

// Search scrapes the search engine for Amazon Music tracks matching query.
// It never fails: upstream errors and empty pages yield an empty slice.
// At most limit tracks are returned, in the order the engine lists them.
func (c *Client) Search(ctx context.Context, query string, limit int) []Track {
	logger := c.logger.WithFields(log.Fields{"function": "Search", "query": query})

	span := sentry.StartSpan(ctx, "amazonmusic.search")
	span.Description = "Search Amazon Music tracks via web search"
	span.SetTag("query", query)
	span.SetTag("limit", strconv.Itoa(limit))
	defer span.Finish()
	ctx = span.Context()

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	query = strings.TrimSpace(query)
	if query == "" {
		span.Status = sentry.SpanStatusInvalidArgument
		return []Track{}
	}

	results := c.harvest(ctx, trackSiteFilter+" "+query, limit, true)
	phase := "tracks"
	if len(results) == 0 {
		logger.Debug("no track results, retrying with a site-wide query")
		results = c.harvest(ctx, siteFilter+" "+query, limit, false)
		phase = "site"
	}

	c.observer.ObserveSearch(phase, len(results))
	span.Status = sentry.SpanStatusOK
	span.SetData("results_count", len(results))
	logger.Tracef("found %d tracks (phase %s)", len(results), phase)
	return results
}

// harvest collects unique track references from one search results page
func (c *Client) harvest(ctx context.Context, query string, limit int, enrich bool) []Track {
	results := make([]Track, 0)

	markup, err := c.fetchSearchPage(ctx, query)
	if err != nil {
		c.logger.Warnf("Search request for %q failed: %v", query, err)
		return results
	}

	seen := make(map[string]struct{})
	for _, ref := range harvestTrackRefs(markup) {
		if len(results) >= limit {
			break
		}
		if _, dup := seen[ref.ID]; dup {
			continue
		}
		seen[ref.ID] = struct{}{}

		if enrich {
			results = append(results, c.enrichedTrack(ctx, ref))
		} else {
			results = append(results, placeholderTrack(ref.ID))
		}
	}
	return results
}

// harvestTrackRefs decodes every redirect link in markup and keeps the ones
// pointing at Amazon Music tracks, duplicates included.
func harvestTrackRefs(markup string) []ParsedReference {
	var refs []ParsedReference
	for _, m := range redirectRegex.FindAllStringSubmatch(markup, -1) {
		target, err := url.QueryUnescape(m[1])
		if err != nil {
			continue
		}
		if !isServiceURL(target) {
			continue
		}
		ref, ok := ParseURL(target)
		if !ok || ref.Kind != KindTrack {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

// enrichedTrack resolves a search hit quietly. Failures only downgrade the
// hit to a placeholder and are reported once, as such.
func (c *Client) enrichedTrack(ctx context.Context, ref ParsedReference) Track {
	span := sentry.StartSpan(ctx, "amazonmusic.enrich_search_hit")
	span.SetTag("id", ref.ID)
	defer span.Finish()
	ctx = span.Context()

	ext, err := c.extract(ctx, KindTrack, ref.ID)
	if err != nil || ext == nil {
		c.logger.Debugf("Enrichment for search hit %s failed, using placeholder: %v", ref.ID, err)
		span.Status = sentry.SpanStatusUnavailable
		c.observer.ObserveResolve(KindTrack, OutcomePlaceholder)
		return placeholderTrack(ref.ID)
	}

	track := c.track(ctx, ref.ID, ext)
	span.Status = sentry.SpanStatusOK
	c.observer.ObserveResolve(KindTrack, trackOutcome(track))
	return *track
}

func placeholderTrack(id string) Track {
	name := "Track " + id
	return Track{
		ID:         id,
		Name:       name,
		Title:      name,
		Artist:     ArtistRef{Name: placeholderName},
		Album:      AlbumRef{Name: placeholderName},
		Duration:   0,
		URL:        canonicalURL(KindTrack, id),
		Enrichment: EnrichmentPlaceholder,
	}
}

func (c *Client) fetchSearchPage(ctx context.Context, query string) (string, error) {
	pageURL := c.searchBase + "?" + url.Values{"p": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", searchUserAgent)
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMarkupBytes))
	if err != nil {
		return "", fmt.Errorf("reading search page: %w", err)
	}
	return string(body), nil
}
