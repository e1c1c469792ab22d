// Package stub provides offline generators used when no API key is configured.
// Replies are derived from simple keyword matching so local runs stay useful.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"dreamspeak/application/ports"
)

var (
	_ ports.TextGenerator  = (*TextGenerator)(nil)
	_ ports.ImageGenerator = (*ImageGenerator)(nil)
)

// keyword tables for the offline analysis
var (
	archetypeKeywords = map[string][]string{
		"Hero":         {"fight", "rescue", "battle", "climb", "quest"},
		"Shadow":       {"chase", "chased", "monster", "dark", "stranger"},
		"Anima":        {"woman", "goddess", "mother"},
		"Wise Old Man": {"old man", "teacher", "guide", "wizard"},
		"Trickster":    {"trick", "joke", "fool", "maze"},
		"Self":         {"circle", "mandala", "light", "whole"},
		"Child":        {"child", "baby", "school"},
		"Great Mother": {"nature", "earth", "garden"},
	}
	symbolKeywords = []string{
		"water", "ocean", "door", "key", "lock", "house", "tree", "snake",
		"bridge", "mountain", "forest", "fire", "flying", "falling", "mirror",
	}
)

// TextGenerator answers analysis prompts with keyword-based JSON
type TextGenerator struct{}

// NewTextGenerator creates a stub text generator
func NewTextGenerator() *TextGenerator {
	return &TextGenerator{}
}

// GenerateJSON extracts the dream text from the prompt and describes it
func (g *TextGenerator) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content := extractDream(userPrompt)
	lower := strings.ToLower(content)

	var archetypes []string
	for _, name := range []string{"Hero", "Shadow", "Anima", "Wise Old Man", "Trickster", "Self", "Child", "Great Mother"} {
		for _, kw := range archetypeKeywords[name] {
			if strings.Contains(lower, kw) {
				archetypes = append(archetypes, name)
				break
			}
		}
	}

	var symbols []string
	for _, kw := range symbolKeywords {
		if strings.Contains(lower, kw) {
			symbols = append(symbols, kw)
		}
	}

	reply := map[string]any{
		"summary":               summarize(content),
		"archetypes":            archetypes,
		"symbols":               symbols,
		"jungianInterpretation": "Offline analysis: the images in this dream point to material the unconscious is asking you to notice.",
		"emotionalTone":         "Reflective",
		"recommendations":       []string{"Write down the feeling the dream left you with."},
	}
	if len(symbols) > 0 {
		reply["predominantSymbol"] = map[string]string{
			"name":                symbols[0],
			"meaning":             fmt.Sprintf("The %s stands out in this dream.", symbols[0]),
			"jungianSignificance": "A recurring image worth tracking across dreams.",
		}
	}

	raw, err := json.Marshal(reply)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ImageGenerator returns placeholder image URLs
type ImageGenerator struct {
	baseURL string
}

// NewImageGenerator creates a stub image generator serving from baseURL
func NewImageGenerator(baseURL string) *ImageGenerator {
	if baseURL == "" {
		baseURL = "https://picsum.photos/seed"
	}
	return &ImageGenerator{baseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateImage returns a stable placeholder URL for prompt
func (g *ImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	return fmt.Sprintf("%s/%08x/1024/1024", g.baseURL, h.Sum32()), nil
}

// extractDream pulls the dream text out of the analysis prompt
func extractDream(prompt string) string {
	lines := strings.Split(prompt, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "Dream:" && i+1 < len(lines) {
			var parts []string
			for _, l := range lines[i+1:] {
				if strings.TrimSpace(l) == "" {
					break
				}
				parts = append(parts, strings.TrimSpace(l))
			}
			return strings.Join(parts, " ")
		}
	}
	return strings.TrimSpace(prompt)
}

func summarize(content string) string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return ""
	}
	if len(words) > 12 {
		words = words[:12]
	}
	return "A dream about " + strings.TrimSuffix(strings.Join(words, " "), ".")
}
