package amazonmusic

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Metadata is the normalized intermediate record produced by an Extractor
type Metadata struct {
	URL             string
	Title           string
	Description     string
	Image           string
	Type            string
	SiteName        string
	AudioURL        string
	ArtistName      string
	AlbumName       string
	AlbumURL        string
	DurationSeconds int
}

// Field identifies a Metadata field
type Field int

const (
	FieldURL Field = iota
	FieldTitle
	FieldDescription
	FieldImage
	FieldType
	FieldSiteName
	FieldAudioURL
	FieldArtistName
	FieldAlbumName
	FieldAlbumURL
	FieldDuration
)

func (f Field) String() string {
	switch f {
	case FieldURL:
		return "url"
	case FieldTitle:
		return "title"
	case FieldDescription:
		return "description"
	case FieldImage:
		return "image"
	case FieldType:
		return "type"
	case FieldSiteName:
		return "siteName"
	case FieldAudioURL:
		return "audioUrl"
	case FieldArtistName:
		return "artistName"
	case FieldAlbumName:
		return "albumName"
	case FieldAlbumURL:
		return "albumUrl"
	case FieldDuration:
		return "durationSeconds"
	}
	return "unknown"
}

// Stage names an extraction step. Stages run in the order of their
// declaration below.
type Stage string

const (
	StageOGTags       Stage = "og-tags"
	StageTitleElement Stage = "title-element"
	StageJSONLD       Stage = "json-ld"
	StageTitleSplit   Stage = "title-split"
	StageDescription  Stage = "description"
	StageSourceURL    Stage = "source-url"
)

// Extraction is the result of running the extraction stages over a page.
// Issues holds failures that were tolerated along the way.
type Extraction struct {
	Metadata   Metadata
	Provenance map[Field]Stage
	Issues     []error
}

// Degraded reports whether any stage had to swallow a failure
func (e Extraction) Degraded() bool {
	return len(e.Issues) > 0
}

// Source returns the stage that filled a field, or "" when it is unset
func (e Extraction) Source(f Field) Stage {
	return e.Provenance[f]
}

// metadataBuilder fills each field at most once: the first stage to supply
// a non-empty value wins and later stages cannot overwrite it.
type metadataBuilder struct {
	md         Metadata
	provenance map[Field]Stage
	issues     []error
	stage      Stage
}

func newMetadataBuilder() *metadataBuilder {
	return &metadataBuilder{provenance: make(map[Field]Stage)}
}

func (b *metadataBuilder) stringField(f Field) *string {
	switch f {
	case FieldURL:
		return &b.md.URL
	case FieldTitle:
		return &b.md.Title
	case FieldDescription:
		return &b.md.Description
	case FieldImage:
		return &b.md.Image
	case FieldType:
		return &b.md.Type
	case FieldSiteName:
		return &b.md.SiteName
	case FieldAudioURL:
		return &b.md.AudioURL
	case FieldArtistName:
		return &b.md.ArtistName
	case FieldAlbumName:
		return &b.md.AlbumName
	case FieldAlbumURL:
		return &b.md.AlbumURL
	}
	return nil
}

func (b *metadataBuilder) empty(f Field) bool {
	if f == FieldDuration {
		return b.md.DurationSeconds == 0
	}
	if p := b.stringField(f); p != nil {
		return *p == ""
	}
	return false
}

// set stores the first non-empty candidate if the field is still unset
func (b *metadataBuilder) set(f Field, candidates ...string) bool {
	p := b.stringField(f)
	if p == nil || *p != "" {
		return false
	}
	for _, c := range candidates {
		if c = cleanText(c); c != "" {
			*p = c
			b.provenance[f] = b.stage
			return true
		}
	}
	return false
}

func (b *metadataBuilder) setDuration(seconds int) bool {
	if seconds <= 0 || b.md.DurationSeconds != 0 {
		return false
	}
	b.md.DurationSeconds = seconds
	b.provenance[FieldDuration] = b.stage
	return true
}

func (b *metadataBuilder) fail(err error) {
	b.issues = append(b.issues, err)
}

func (b *metadataBuilder) result() Extraction {
	return Extraction{Metadata: b.md, Provenance: b.provenance, Issues: b.issues}
}

func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func isBrand(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), brandName)
}
