package amazonmusic

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
)

const maxGraphDepth = 4

var isoDurationRegex = regexp.MustCompile(`(?i)^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)(?:\.\d+)?S)?$`)

// ldNode holds the parts of a schema.org object we read
type ldNode struct {
	Type     ldTypes           `json:"@type"`
	Graph    []json.RawMessage `json:"@graph"`
	ByArtist ldEntities        `json:"byArtist"`
	InAlbum  ldEntities        `json:"inAlbum"`
	Duration string            `json:"duration"`
}

// ldTypes accepts "@type" as a string or an array of strings
type ldTypes []string

func (t *ldTypes) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = ldTypes{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = many
	return nil
}

func (t ldTypes) has(want string) bool {
	for _, v := range t {
		if v == want {
			return true
		}
	}
	return false
}

type ldEntity struct {
	ID         string          `json:"@id"`
	Name       string          `json:"name"`
	Identifier json.RawMessage `json:"identifier"`
}

// identifier falls back from "@id" to a string "identifier"
func (e ldEntity) identifier() string {
	if e.ID != "" {
		return e.ID
	}
	var id string
	if len(e.Identifier) > 0 && json.Unmarshal(e.Identifier, &id) == nil {
		return id
	}
	return ""
}

// ldEntities accepts an object, an array of objects, or a bare name
type ldEntities []ldEntity

func (es *ldEntities) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '[':
		var many []ldEntity
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*es = many
	case '{':
		var one ldEntity
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*es = ldEntities{one}
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*es = ldEntities{{Name: name}}
	}
	return nil
}

func (es ldEntities) first() (ldEntity, bool) {
	if len(es) == 0 {
		return ldEntity{}, false
	}
	return es[0], true
}

// findRecording returns the first MusicRecording in a JSON-LD block. The
// block may be a single object, an array, or an object with an @graph.
func findRecording(data []byte) (*ldNode, error) {
	return findRecordingDepth(bytes.TrimSpace(data), 0)
}

func findRecordingDepth(data []byte, depth int) (*ldNode, error) {
	if len(data) == 0 {
		return nil, errors.New("empty block")
	}
	if depth > maxGraphDepth {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		for _, item := range items {
			item = bytes.TrimSpace(item)
			if !isContainer(item) {
				continue
			}
			node, err := findRecordingDepth(item, depth+1)
			if err != nil || node != nil {
				return node, err
			}
		}
		return nil, nil
	case '{':
		var node ldNode
		if err := json.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if node.Type.has("MusicRecording") {
			return &node, nil
		}
		for _, item := range node.Graph {
			item = bytes.TrimSpace(item)
			if !isContainer(item) {
				continue
			}
			found, err := findRecordingDepth(item, depth+1)
			if err != nil || found != nil {
				return found, err
			}
		}
		return nil, nil
	}
	return nil, errors.New("unexpected JSON-LD value")
}

// isContainer reports whether a nested value can hold a node. Context strings
// and other scalars inside arrays are skipped.
func isContainer(item []byte) bool {
	return len(item) > 0 && (item[0] == '{' || item[0] == '[')
}

// ParseISODuration converts a PT#H#M#S duration into whole seconds. Missing
// components count as zero; anything unparseable yields 0.
func ParseISODuration(s string) int {
	m := isoDurationRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	hours, okH := durationComponent(m[1])
	minutes, okM := durationComponent(m[2])
	seconds, okS := durationComponent(m[3])
	if !okH || !okM || !okS {
		return 0
	}
	return hours*3600 + minutes*60 + seconds
}

// Components above this bound are treated as unparseable so the total cannot overflow
const maxDurationComponent = 100000

func durationComponent(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > maxDurationComponent {
		return 0, false
	}
	return n, true
}
