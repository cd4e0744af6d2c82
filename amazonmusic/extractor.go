package amazonmusic

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// Extractor turns raw page markup into normalized metadata. Implementations
// must never fail; the worst case is an empty Metadata.
type Extractor interface {
	Extract(markup []byte, sourceURL string) Extraction
}

// Title separators in priority order
var titleSeparators = []string{" – ", " - ", " | "}

var descriptionAlbumRegex = regexp.MustCompile(
	`(?i)\b(?:from|on)\s+(?:"([^"]+)"|“([^”]+)”|'([^']+)'|([^.,;!?\n"“”]+))`)

var brandSuffixRegex = regexp.MustCompile(`(?i)\s+on\s+` + regexp.QuoteMeta(brandName) + `\s*$`)

type page struct {
	doc       *goquery.Document
	meta      map[string]string
	sourceURL string
}

type extractionStage struct {
	name Stage
	run  func(b *metadataBuilder, p *page)
}

// HTMLExtractor reads OpenGraph tags, the title element and JSON-LD blocks
type HTMLExtractor struct {
	stages []extractionStage
}

// NewHTMLExtractor returns the default extractor
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{
		stages: []extractionStage{
			{StageOGTags, extractOpenGraph},
			{StageTitleElement, extractTitleElement},
			{StageJSONLD, extractJSONLD},
			{StageTitleSplit, extractArtistFromTitle},
			{StageDescription, extractAlbumFromDescription},
			{StageSourceURL, extractSourceURL},
		},
	}
}

// Extract runs every stage in order over the markup
func (e *HTMLExtractor) Extract(markup []byte, sourceURL string) Extraction {
	b := newMetadataBuilder()

	p := &page{sourceURL: sourceURL}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		log.Debugf("Failed to parse markup for %s: %v", sourceURL, err)
		b.fail(fmt.Errorf("parsing markup: %w", err))
	} else {
		p.doc = doc
		p.meta = collectMetaTags(doc)
	}

	for _, stage := range e.stages {
		if p.doc == nil && stage.name != StageSourceURL {
			continue
		}
		b.stage = stage.name
		stage.run(b, p)
	}

	return b.result()
}

// collectMetaTags keys each meta tag by its property (or name) attribute,
// keeping the first non-empty content for every key.
func collectMetaTags(doc *goquery.Document) map[string]string {
	tags := make(map[string]string)
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr("property")
		if key == "" {
			key, _ = s.Attr("name")
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return
		}
		content, _ := s.Attr("content")
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		if _, seen := tags[key]; !seen {
			tags[key] = content
		}
	})
	return tags
}

func extractOpenGraph(b *metadataBuilder, p *page) {
	m := p.meta
	b.set(FieldTitle, m["og:title"])
	b.set(FieldDescription, m["og:description"])
	b.set(FieldImage, m["og:image"], m["og:image:secure_url"])
	b.set(FieldType, m["og:type"])
	b.set(FieldSiteName, m["og:site_name"])
	b.set(FieldAudioURL, m["og:audio"], m["og:audio:url"], m["og:audio:secure_url"])
	b.set(FieldURL, m["og:url"])
	b.set(FieldAlbumURL, m["music:album"])
}

func extractTitleElement(b *metadataBuilder, p *page) {
	if !b.empty(FieldTitle) {
		return
	}
	title := strings.TrimSpace(p.doc.Find("title").First().Text())
	title = strings.TrimSuffix(title, " | "+brandName)
	b.set(FieldTitle, title)
}

func extractJSONLD(b *metadataBuilder, p *page) {
	var recording *ldNode
	p.doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		node, err := findRecording([]byte(s.Text()))
		if err != nil {
			log.Tracef("Failed to parse JSON-LD block %d: %v", i, err)
			b.fail(fmt.Errorf("JSON-LD block %d: %w", i, err))
			return true
		}
		if node == nil {
			return true
		}
		recording = node
		return false
	})
	if recording == nil {
		return
	}

	if artist, ok := recording.ByArtist.first(); ok {
		b.set(FieldArtistName, artist.Name, artist.identifier())
	}
	if album, ok := recording.InAlbum.first(); ok {
		b.set(FieldAlbumName, album.Name)
	}
	b.setDuration(ParseISODuration(recording.Duration))
}

func extractArtistFromTitle(b *metadataBuilder, _ *page) {
	if !b.empty(FieldArtistName) || b.md.Title == "" {
		return
	}
	parts, ok := splitTitle(b.md.Title)
	if !ok {
		return
	}
	// The first separator present decides, even if its candidate is rejected
	candidate := strings.TrimSpace(parts[len(parts)-1])
	if isBrand(candidate) {
		return
	}
	b.set(FieldArtistName, candidate)
}

func extractAlbumFromDescription(b *metadataBuilder, _ *page) {
	if !b.empty(FieldAlbumName) || b.md.Description == "" {
		return
	}
	m := descriptionAlbumRegex.FindStringSubmatch(b.md.Description)
	if m == nil {
		return
	}
	var candidate string
	for _, group := range m[1:] {
		if group != "" {
			candidate = group
			break
		}
	}
	candidate = strings.TrimSpace(brandSuffixRegex.ReplaceAllString(candidate, ""))
	if candidate == "" || isBrand(candidate) {
		return
	}
	b.set(FieldAlbumName, candidate)
}

func extractSourceURL(b *metadataBuilder, p *page) {
	b.set(FieldURL, p.sourceURL)
}

// splitTitle splits on the highest-priority separator present in the title
func splitTitle(title string) ([]string, bool) {
	for _, sep := range titleSeparators {
		if strings.Contains(title, sep) {
			return strings.Split(title, sep), true
		}
	}
	return nil, false
}
