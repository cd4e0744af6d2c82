package amazonmusic

import "regexp"

const (
	siteURL   = "https://music.amazon.com"
	brandName = "Amazon Music"
)

var (
	// Scheme and host are matched case-insensitively, the kind segment is not
	referenceRegex = regexp.MustCompile(
		`^(?i:https?://music\.amazon\.(?:com|co\.uk|de|fr|it|es|ca|in|co\.jp|com\.au|com\.br|com\.mx))` +
			`/(tracks|albums|artists|playlists|user-playlists)/([A-Za-z0-9]+)(?:[/?#].*)?$`)

	serviceHostRegex = regexp.MustCompile(`(?i)^https?://music\.amazon\.`)
)

// ParseURL recognizes an Amazon Music URL and extracts its kind and ID.
// Trailing slugs, query strings and fragments are ignored. The input must be
// the exact URL: surrounding whitespace does not match.
func ParseURL(rawURL string) (ParsedReference, bool) {
	matches := referenceRegex.FindStringSubmatch(rawURL)
	if matches == nil {
		return ParsedReference{}, false
	}

	kind, ok := KindFromSegment(matches[1])
	if !ok {
		return ParsedReference{}, false
	}
	return ParsedReference{Kind: kind, ID: matches[2]}, true
}

// isServiceURL is a cheap prefilter used before full parsing
func isServiceURL(rawURL string) bool {
	return serviceHostRegex.MatchString(rawURL)
}
