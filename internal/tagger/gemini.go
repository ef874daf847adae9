// README: Gemini-backed implementation of the Tagger contract.
package tagger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiTagger tags caption tokens using Google's Gemini models.
type GeminiTagger struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiTagger initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiTagger(ctx context.Context, apiKey string) (*GeminiTagger, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Flash keeps per-caption tagging latency low.
	model := client.GenerativeModel("gemini-2.0-flash")
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.0)

	return &GeminiTagger{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (t *GeminiTagger) Close() {
	t.client.Close()
}

// Tag labels every token of the caption with part-of-speech and entity tags.
func (t *GeminiTagger) Tag(ctx context.Context, text string) (Tags, error) {
	prompt := fmt.Sprintf("%s\n\nCaption: %s", taggerPrompt, text)

	resp, err := t.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	return DecodeTags([]byte(cleanJSONString(responseText.String())))
}

const taggerPrompt = `Role: You are a token tagger for a place-search assistant.
Given a user caption, split it into tokens and label each token.

Allowed tags (use only these, lowercase):
- "place": proper name of a specific place or business (e.g. "Joe's Pizza").
- "category": a kind of venue or cuisine (e.g. "pizza", "coffee shop", "bar").
- "taste": a food/drink taste or dish keyword (e.g. "spicy", "ramen").
- "noun": other nouns.
- "adjective": descriptive words (e.g. "cheap", "fancy", "open").
- "verb": action words.
- "other": everything else (articles, prepositions, punctuation).

Rules:
- Multi-word names stay one token ("Joe's Pizza", not "Joe's" + "Pizza").
- A token may carry several tags ("pizza" -> ["category", "noun"]).
- Tag every token; never skip one.

Output JSON Schema:
{
  "tokens": [
    {"text": "string (the token exactly as written)", "tags": ["string"]}
  ]
}`

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
