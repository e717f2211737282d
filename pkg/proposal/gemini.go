package proposal

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"
)

const systemPrompt = `You are the processing engine of an isomorphic translation system.
Analyze the source text, tokenize it grammatically and propose strict 1:1 equivalences.

Rules:
1. Isomorphism: keep the exact word count and positions.
2. Literality: prefer the etymological root over style.
3. Classify each token as NUCLEO (noun/verb/adjective/adverb) or PARTICULA.
4. Respond ONLY with a valid JSON array.

Required JSON shape:
[
  {
    "source": "source_word",
    "target": "target_word",
    "category": "NUCLEO" | "PARTICULA",
    "grammar": "SUSTANTIVO" | "VERBO" | "PREPOSICION" | "...",
    "root": "etymological_root_if_any",
    "rationale": "brief reason"
  }
]`

// GeminiProvider implements Provider over the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a provider. The model defaults to
// gemini-2.0-flash.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Propose sends the source text plus the current glossary and parses the
// returned JSON array.
func (p *GeminiProvider) Propose(ctx context.Context, text string, current map[string]string) ([]Proposal, error) {
	var sb strings.Builder
	sb.WriteString("ANALYZE THIS TEXT:\n\n")
	sb.WriteString(text)
	if len(current) > 0 {
		sb.WriteString("\n\nCURRENT GLOSSARY (authoritative, do not contradict):\n")
		keys := make([]string, 0, len(current))
		for k := range current {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "%s -> %s\n", k, current[k])
		}
	}
	sb.WriteString("\nProduce the isomorphic mapping JSON:")

	result, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(sb.String()),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate: %w", err)
	}

	return ParseProposals(result.Text())
}

// ParseProposals decodes the provider's JSON payload, tolerating markdown
// code fences around it.
func ParseProposals(raw string) ([]Proposal, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var proposals []Proposal
	if err := json.Unmarshal([]byte(clean), &proposals); err != nil {
		return nil, fmt.Errorf("parse proposals: %w", err)
	}
	return proposals, nil
}
