package amazonmusic

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultSearchBase        = "https://search.yahoo.com/search"
	DefaultRequestTimeout    = 10 * time.Second
	DefaultSearchResultLimit = 5
	MaxSearchResultLimit     = 10

	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"

	servicePlaylistCreator = brandName
	userPlaylistCreator    = "User"
)

// Options configures a Client. Only APIBase is required.
type Options struct {
	// APIBase is the origin page requests are sent to, e.g. https://music.amazon.com
	APIBase string
	// SearchBase is the search engine results endpoint
	SearchBase string
	// SearchResultLimit is clamped to [1,10]
	SearchResultLimit int
	RequestTimeout    time.Duration
	HTTPClient        *http.Client
	Extractor         Extractor
	Observer          Observer
}

// Client resolves Amazon Music identifiers and URLs into public records.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	fetcher           *Fetcher
	extractor         Extractor
	observer          Observer
	httpClient        *http.Client
	searchBase        string
	searchResultLimit int
	logger            *log.Entry
}

// NewClient validates opts and builds a Client
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.APIBase)
	if base == "" {
		return nil, &ConfigError{Field: "APIBase", Reason: "must not be empty"}
	}

	if opts.SearchBase == "" {
		opts.SearchBase = DefaultSearchBase
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.HTTPClient == nil {
		// Page fetches are bounded per request by RequestTimeout instead
		opts.HTTPClient = &http.Client{}
	}
	if opts.Extractor == nil {
		opts.Extractor = NewHTMLExtractor()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}

	return &Client{
		fetcher:           newFetcher(base, opts.RequestTimeout, opts.HTTPClient, opts.Observer),
		extractor:         opts.Extractor,
		observer:          opts.Observer,
		httpClient:        opts.HTTPClient,
		searchBase:        opts.SearchBase,
		searchResultLimit: clampSearchResultLimit(opts.SearchResultLimit),
		logger:            log.WithFields(log.Fields{"module": "amazonmusic"}),
	}, nil
}

func clampSearchResultLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchResultLimit
	}
	if limit > MaxSearchResultLimit {
		return MaxSearchResultLimit
	}
	return limit
}

// SearchResultLimit is the configured default number of search results
func (c *Client) SearchResultLimit() int {
	return c.searchResultLimit
}

// GetTrack fetches a track page. A nil track with a nil error means the page
// had no title.
func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	return resolve(ctx, c, KindTrack, id, c.track)
}

// GetAlbum fetches an album page. Songs is always empty.
func (c *Client) GetAlbum(ctx context.Context, id string) (*AlbumFull, error) {
	return resolve(ctx, c, KindAlbum, id, c.album)
}

// GetArtist fetches an artist page
func (c *Client) GetArtist(ctx context.Context, id string) (*ArtistFull, error) {
	return resolve(ctx, c, KindArtist, id, c.artist)
}

// GetPlaylist fetches a service playlist page
func (c *Client) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	return resolve(ctx, c, KindPlaylist, id, c.playlist)
}

// GetUserPlaylist fetches a community playlist page
func (c *Client) GetUserPlaylist(ctx context.Context, id string) (*Playlist, error) {
	return resolve(ctx, c, KindUserPlaylist, id, c.userPlaylist)
}

// ResolveByKindAndID dispatches to the assembler for kind
func (c *Client) ResolveByKindAndID(ctx context.Context, kind ResourceKind, id string) (Resource, error) {
	switch kind {
	case KindTrack:
		t, err := c.GetTrack(ctx, id)
		return asResource(t, err)
	case KindAlbum:
		a, err := c.GetAlbum(ctx, id)
		return asResource(a, err)
	case KindArtist:
		a, err := c.GetArtist(ctx, id)
		return asResource(a, err)
	case KindPlaylist:
		p, err := c.GetPlaylist(ctx, id)
		return asResource(p, err)
	case KindUserPlaylist:
		p, err := c.GetUserPlaylist(ctx, id)
		return asResource(p, err)
	}
	return nil, fmt.Errorf("unknown resource kind %q", kind)
}

// ResolveByURL parses rawURL and resolves it. Unrecognized URLs return
// (nil, nil) without any request being made.
func (c *Client) ResolveByURL(ctx context.Context, rawURL string) (Resource, error) {
	ref, ok := ParseURL(rawURL)
	if !ok {
		c.logger.Debugf("Not an Amazon Music URL: %s", rawURL)
		return nil, nil
	}
	return c.ResolveByKindAndID(ctx, ref.Kind, ref.ID)
}

// asResource keeps a nil record from becoming a non-nil interface
func asResource[T any, P interface {
	*T
	Resource
}](record P, err error) (Resource, error) {
	if err != nil || record == nil {
		return nil, err
	}
	return record, nil
}

func resolve[T any](ctx context.Context, c *Client, kind ResourceKind, id string,
	build func(context.Context, string, *Extraction) *T) (*T, error) {
	logger := c.logger.WithFields(log.Fields{"kind": kind, "id": id})
	logger.Tracef("Resolving Amazon Music %s", kind)

	span := sentry.StartSpan(ctx, "amazonmusic.get_"+strings.ReplaceAll(string(kind), "-", "_"))
	span.Description = fmt.Sprintf("Get %s from Amazon Music via page scraping", kind)
	span.SetTag("kind", string(kind))
	span.SetTag("id", id)
	defer span.Finish()
	ctx = span.Context()

	if strings.TrimSpace(id) == "" {
		err := fmt.Errorf("%s id is required", kind)
		span.Status = sentry.SpanStatusInvalidArgument
		c.observer.ObserveResolve(kind, OutcomeError)
		return nil, err
	}

	ext, err := c.extract(ctx, kind, id)
	if err != nil {
		logger.Errorf("Failed to fetch Amazon Music %s: %v", kind, err)
		span.Status = sentry.SpanStatusInternalError
		c.observer.ObserveResolve(kind, OutcomeError)
		return nil, err
	}
	if ext == nil {
		logger.Debugf("Amazon Music %s %s has no title, treating as not found", kind, id)
		span.Status = sentry.SpanStatusNotFound
		c.observer.ObserveResolve(kind, OutcomeNotFound)
		return nil, nil
	}

	record := build(ctx, id, ext)

	outcome := OutcomeOK
	if t, ok := any(record).(*Track); ok {
		outcome = trackOutcome(t)
	}
	span.Status = sentry.SpanStatusOK
	span.SetData("title", ext.Metadata.Title)
	c.observer.ObserveResolve(kind, outcome)
	logger.Debugf("Successfully fetched Amazon Music %s: '%s'", kind, ext.Metadata.Title)
	return record, nil
}

// extract fetches and parses a page. A nil Extraction means no title was found.
func (c *Client) extract(ctx context.Context, kind ResourceKind, id string) (*Extraction, error) {
	segment := kind.Segment()
	markup, err := c.fetcher.FetchMarkup(ctx, segment, id)
	if err != nil {
		return nil, fmt.Errorf("fetching %s %s: %w", kind, id, err)
	}

	ext := c.extractor.Extract(markup, c.fetcher.PageURL(segment, id))
	if ext.Degraded() {
		c.logger.Debugf("Extraction for %s %s tolerated %d issue(s): %v", kind, id, len(ext.Issues), ext.Issues)
	}
	if ext.Metadata.Title == "" {
		return nil, nil
	}
	return &ext, nil
}

func (c *Client) track(ctx context.Context, id string, ext *Extraction) *Track {
	md := ext.Metadata
	artist := orDefault(md.ArtistName, UnknownArtist)
	albumName := orDefault(md.AlbumName, UnknownAlbum)
	albumURL := ""
	enrichment := EnrichmentHeuristic

	if ref, ok := ParseURL(md.AlbumURL); ok && ref.Kind == KindAlbum {
		album, err := c.linkedAlbum(ctx, ref.ID)
		if album != nil {
			albumName = album.Name
			albumURL = album.URL
			if album.Artist.Name != UnknownArtist {
				artist = album.Artist.Name
			}
			enrichment = EnrichmentAlbumPage
		} else {
			c.logger.Debugf("Album lookup for track %s failed, keeping page heuristics: %v", id, err)
			enrichment = EnrichmentDegraded
		}
	}

	if albumURL == "" {
		albumURL = searchURL(albumName, UnknownAlbum)
	}

	return &Track{
		ID:    id,
		Name:  md.Title,
		Title: md.Title,
		Artist: ArtistRef{
			Name: artist,
			URL:  searchURL(artist, UnknownArtist),
		},
		Album: AlbumRef{
			Name: albumName,
			URL:  albumURL,
		},
		Duration:   md.DurationSeconds,
		URL:        canonicalURL(KindTrack, id),
		Image:      md.Image,
		Enrichment: enrichment,
	}
}

func trackOutcome(t *Track) string {
	if t.Enrichment == EnrichmentDegraded {
		return OutcomeDegraded
	}
	return OutcomeOK
}

// linkedAlbum resolves a track's album without reporting failures upstream
func (c *Client) linkedAlbum(ctx context.Context, albumID string) (*AlbumFull, error) {
	ext, err := c.extract(ctx, KindAlbum, albumID)
	if err != nil {
		return nil, err
	}
	if ext == nil {
		return nil, fmt.Errorf("album %s has no title", albumID)
	}
	return c.album(ctx, albumID, ext), nil
}

func (c *Client) album(_ context.Context, id string, ext *Extraction) *AlbumFull {
	md := ext.Metadata
	name := md.Title
	artist := UnknownArtist
	if parts, ok := splitTitle(md.Title); ok {
		name = strings.TrimSpace(parts[0])
		if candidate := strings.TrimSpace(parts[len(parts)-1]); candidate != "" && !isBrand(candidate) {
			artist = candidate
		}
		if name == "" {
			name = md.Title
		}
	}

	return &AlbumFull{
		ID:    id,
		Name:  name,
		URL:   canonicalURL(KindAlbum, id),
		Image: md.Image,
		Artist: ArtistRef{
			Name: artist,
			URL:  searchURL(artist, UnknownArtist),
		},
		Songs:      []Track{},
		TotalSongs: 0,
	}
}

func (c *Client) artist(_ context.Context, id string, ext *Extraction) *ArtistFull {
	return &ArtistFull{
		ID:       id,
		Name:     ext.Metadata.Title,
		URL:      canonicalURL(KindArtist, id),
		Image:    ext.Metadata.Image,
		TopSongs: []Track{},
	}
}

func (c *Client) playlist(_ context.Context, id string, ext *Extraction) *Playlist {
	return newPlaylist(KindPlaylist, id, ext, servicePlaylistCreator)
}

func (c *Client) userPlaylist(_ context.Context, id string, ext *Extraction) *Playlist {
	return newPlaylist(KindUserPlaylist, id, ext, userPlaylistCreator)
}

func newPlaylist(kind ResourceKind, id string, ext *Extraction, createdBy string) *Playlist {
	return &Playlist{
		ID:         id,
		Name:       ext.Metadata.Title,
		URL:        canonicalURL(kind, id),
		Image:      ext.Metadata.Image,
		CreatedBy:  createdBy,
		Songs:      []Track{},
		TotalSongs: 0,
	}
}

// searchURL links to a site search for name, or "" for a placeholder name
func searchURL(name, placeholder string) string {
	if name == "" || name == placeholder {
		return ""
	}
	return siteURL + "/search/" + url.PathEscape(name)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
