// README: Token tags and the single decode boundary for the loose tagger format.
package tagger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Tag is a part-of-speech or entity label attached to a caption substring.
type Tag string

const (
	TagTaste     Tag = "taste"
	TagCategory  Tag = "category"
	TagPlace     Tag = "place"
	TagNoun      Tag = "noun"
	TagAdjective Tag = "adjective"
	TagVerb      Tag = "verb"
	TagOther     Tag = "other"
)

// Tags maps caption substrings to their tag sets.
type Tags map[string][]Tag

// Has reports whether the given substring carries the tag.
func (t Tags) Has(text string, tag Tag) bool {
	for _, candidate := range t[text] {
		if candidate == tag {
			return true
		}
	}
	return false
}

// HasAny reports whether the substring carries at least one of the tags.
func (t Tags) HasAny(text string, tags ...Tag) bool {
	for _, tag := range tags {
		if t.Has(text, tag) {
			return true
		}
	}
	return false
}

// HasPlaceName reports whether any substring was tagged as a place name;
// this is the named-entity signal the classifier consumes.
func (t Tags) HasPlaceName() bool {
	for _, tags := range t {
		for _, tag := range tags {
			if tag == TagPlace {
				return true
			}
		}
	}
	return false
}

// Tagger is the black-box text tagging service.
type Tagger interface {
	Tag(ctx context.Context, text string) (Tags, error)
}

// taggedToken is the loose wire shape produced by the tagging model.
type taggedToken struct {
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

type taggerResponse struct {
	Tokens []taggedToken `json:"tokens"`
}

// DecodeTags is the only translation point between the tagger's loose JSON
// output and the typed Tags map. Unknown tag strings are kept as TagOther so
// a model drift never drops a token entirely.
func DecodeTags(raw []byte) (Tags, error) {
	var resp taggerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("malformed tagger response: %w", err)
	}

	tags := make(Tags, len(resp.Tokens))
	for _, token := range resp.Tokens {
		text := strings.TrimSpace(token.Text)
		if text == "" {
			continue
		}
		for _, raw := range token.Tags {
			tags[text] = append(tags[text], normalizeTag(raw))
		}
	}
	return tags, nil
}

func normalizeTag(raw string) Tag {
	switch Tag(strings.ToLower(strings.TrimSpace(raw))) {
	case TagTaste:
		return TagTaste
	case TagCategory:
		return TagCategory
	case TagPlace:
		return TagPlace
	case TagNoun:
		return TagNoun
	case TagAdjective:
		return TagAdjective
	case TagVerb:
		return TagVerb
	default:
		return TagOther
	}
}
