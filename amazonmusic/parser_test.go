package amazonmusic

import (
	"testing"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   ParsedReference
		wantOK bool
	}{
		{
			name:   "track with query",
			url:    "https://music.amazon.com/tracks/B079TPJ3G4?ref=x",
			want:   ParsedReference{Kind: KindTrack, ID: "B079TPJ3G4"},
			wantOK: true,
		},
		{
			name:   "leading whitespace",
			url:    "  https://music.amazon.com/tracks/B079TPJ3G4",
			wantOK: false,
		},
		{
			name:   "trailing newline",
			url:    "https://music.amazon.com/tracks/B079TPJ3G4\n",
			wantOK: false,
		},
		{
			name:   "album with slug",
			url:    "https://music.amazon.com/albums/B079TNKQ8X/evolve",
			want:   ParsedReference{Kind: KindAlbum, ID: "B079TNKQ8X"},
			wantOK: true,
		},
		{
			name:   "artist with fragment",
			url:    "https://music.amazon.com/artists/B0045DYTLK#top",
			want:   ParsedReference{Kind: KindArtist, ID: "B0045DYTLK"},
			wantOK: true,
		},
		{
			name:   "playlist over http",
			url:    "http://music.amazon.com/playlists/B07H9XZ2T6",
			want:   ParsedReference{Kind: KindPlaylist, ID: "B07H9XZ2T6"},
			wantOK: true,
		},
		{
			name:   "user playlist trailing slash",
			url:    "https://music.amazon.com/user-playlists/a1b2c3d4e5/",
			want:   ParsedReference{Kind: KindUserPlaylist, ID: "a1b2c3d4e5"},
			wantOK: true,
		},
		{
			name:   "uppercase scheme and host",
			url:    "HTTPS://MUSIC.AMAZON.COM/tracks/B079TPJ3G4",
			want:   ParsedReference{Kind: KindTrack, ID: "B079TPJ3G4"},
			wantOK: true,
		},
		{
			name:   "uk storefront",
			url:    "https://music.amazon.co.uk/albums/B079TNKQ8X",
			want:   ParsedReference{Kind: KindAlbum, ID: "B079TNKQ8X"},
			wantOK: true,
		},
		{name: "unknown segment", url: "https://music.amazon.com/unknown/B079TPJ3G4"},
		{name: "uppercase segment", url: "https://music.amazon.com/TRACKS/B079TPJ3G4"},
		{name: "wrong host", url: "https://www.amazon.com/tracks/B079TPJ3G4"},
		{name: "other service", url: "https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b"},
		{name: "missing id", url: "https://music.amazon.com/tracks/"},
		{name: "malformed id", url: "https://music.amazon.com/tracks/B079-TPJ3G4"},
		{name: "relative", url: "/tracks/B079TPJ3G4"},
		{name: "no scheme", url: "music.amazon.com/tracks/B079TPJ3G4"},
		{name: "empty", url: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseURL(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ParseURL(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseURL(%q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseURLRoundTrip(t *testing.T) {
	kinds := []ResourceKind{KindTrack, KindAlbum, KindArtist, KindPlaylist, KindUserPlaylist}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			ref := ParsedReference{Kind: kind, ID: "B0ABC123xyz"}
			got, ok := ParseURL(ref.CanonicalURL())
			if !ok {
				t.Fatalf("ParseURL(%q) failed", ref.CanonicalURL())
			}
			if got != ref {
				t.Errorf("round trip = %+v, want %+v", got, ref)
			}
		})
	}
}

func TestKindFromSegment(t *testing.T) {
	for kind, segment := range kindSegments {
		got, ok := KindFromSegment(segment)
		if !ok || got != kind {
			t.Errorf("KindFromSegment(%q) = %q, %v; want %q", segment, got, ok, kind)
		}
		if kind.Segment() != segment {
			t.Errorf("%q.Segment() = %q, want %q", kind, kind.Segment(), segment)
		}
	}
	if _, ok := KindFromSegment("songs"); ok {
		t.Error("KindFromSegment(songs) should not match")
	}
}
