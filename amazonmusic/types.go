package amazonmusic

// ResourceKind is the category of an Amazon Music entity
type ResourceKind string

const (
	KindTrack        ResourceKind = "track"
	KindAlbum        ResourceKind = "album"
	KindArtist       ResourceKind = "artist"
	KindPlaylist     ResourceKind = "playlist"
	KindUserPlaylist ResourceKind = "user-playlist"
)

var kindSegments = map[ResourceKind]string{
	KindTrack:        "tracks",
	KindAlbum:        "albums",
	KindArtist:       "artists",
	KindPlaylist:     "playlists",
	KindUserPlaylist: "user-playlists",
}

var segmentKinds = map[string]ResourceKind{
	"tracks":         KindTrack,
	"albums":         KindAlbum,
	"artists":        KindArtist,
	"playlists":      KindPlaylist,
	"user-playlists": KindUserPlaylist,
}

// Segment returns the URL path segment for the kind, or "" for an unknown kind
func (k ResourceKind) Segment() string {
	return kindSegments[k]
}

// KindFromSegment maps a path segment such as "albums" back to its kind
func KindFromSegment(segment string) (ResourceKind, bool) {
	kind, ok := segmentKinds[segment]
	return kind, ok
}

// ParsedReference represents a recognized Amazon Music URL
type ParsedReference struct {
	Kind ResourceKind `json:"kind"`
	ID   string       `json:"id"`
}

// CanonicalURL rebuilds the public URL for the reference
func (r ParsedReference) CanonicalURL() string {
	return canonicalURL(r.Kind, r.ID)
}

func canonicalURL(kind ResourceKind, id string) string {
	return siteURL + "/" + kind.Segment() + "/" + id
}

// Enrichment records where a track's album and artist data came from
type Enrichment string

const (
	EnrichmentHeuristic   Enrichment = "heuristic"
	EnrichmentAlbumPage   Enrichment = "album-page"
	EnrichmentDegraded    Enrichment = "degraded"
	EnrichmentPlaceholder Enrichment = "placeholder"
)

// ArtistRef is a named link to an artist
type ArtistRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AlbumRef is a named link to an album
type AlbumRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Track is the public track record
type Track struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Artist   ArtistRef `json:"artist"`
	Album    AlbumRef  `json:"album"`
	Duration int       `json:"duration"`
	URL      string    `json:"url"`
	Image    string    `json:"image,omitempty"`

	Enrichment Enrichment `json:"-"`
}

// AlbumFull is the public album record. Songs is always empty since the
// album page carries no track listing.
type AlbumFull struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Image      string    `json:"image,omitempty"`
	Artist     ArtistRef `json:"artist"`
	Songs      []Track   `json:"songs"`
	TotalSongs int       `json:"totalSongs"`
}

// ArtistFull is the public artist record
type ArtistFull struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Image    string  `json:"image,omitempty"`
	TopSongs []Track `json:"topSongs"`
}

// Playlist is the public record for both service and user playlists
type Playlist struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	URL        string  `json:"url"`
	Image      string  `json:"image,omitempty"`
	CreatedBy  string  `json:"createdBy"`
	Songs      []Track `json:"songs"`
	TotalSongs int     `json:"totalSongs"`
}

// Resource is any of *Track, *AlbumFull, *ArtistFull or *Playlist
type Resource interface {
	resourceKind() ResourceKind
}

func (*Track) resourceKind() ResourceKind      { return KindTrack }
func (*AlbumFull) resourceKind() ResourceKind  { return KindAlbum }
func (*ArtistFull) resourceKind() ResourceKind { return KindArtist }

func (p *Playlist) resourceKind() ResourceKind {
	if p.CreatedBy == userPlaylistCreator {
		return KindUserPlaylist
	}
	return KindPlaylist
}

// KindOf reports the kind of a resolved resource
func KindOf(r Resource) ResourceKind {
	return r.resourceKind()
}
