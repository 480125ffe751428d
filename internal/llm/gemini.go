package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used when none is configured
const DefaultModelName = "gemini-2.0-flash"

// MaxItemsPerRequest caps how many transactions are sent in one categorization prompt
const MaxItemsPerRequest = 25

const (
	insightTemperature  float32 = 0.5
	categoryTemperature float32 = 0.3
)

var errEmptyResponse = errors.New("empty response from model")

// textModel sends a single-turn prompt and returns the raw text reply
type textModel interface {
	GenerateText(ctx context.Context, systemPrompt, prompt string, temperature float32) (string, error)
}

// genaiModel adapts the genai client to textModel
type genaiModel struct {
	models *genai.Models
	name   string
}

func (m *genaiModel) GenerateText(ctx context.Context, systemPrompt, prompt string, temperature float32) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		Temperature:       genai.Ptr(temperature),
		ResponseMIMEType:  "application/json",
	}

	resp, err := m.models.GenerateContent(ctx, m.name, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// GeminiGenerator produces coaching insights and transaction categories with Gemini
type GeminiGenerator struct {
	model textModel
}

// NewGeminiGenerator creates a generator backed by the Gemini API
func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.ErrInsightUnavailable
	}
	if modelName == "" {
		modelName = DefaultModelName
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiGenerator{model: &genaiModel{models: client.Models, name: modelName}}, nil
}

// GenerateInsights asks the model for coaching text about the summary
func (g *GeminiGenerator) GenerateInsights(ctx context.Context, summary *domain.InsightSummary) (*domain.Insights, error) {
	prompt, err := buildInsightPrompt(summary)
	if err != nil {
		return nil, err
	}

	raw, err := g.model.GenerateText(ctx, insightSystemPrompt, prompt, insightTemperature)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInsight, errEmptyResponse)
	}

	insights, err := parseInsights(raw)
	if err != nil {
		log.Debug().Str("raw", raw).Msg("Could not parse insights response")
		return nil, err
	}
	return insights, nil
}

// Categorize asks the model to pick a category for each item. Only the first
// MaxItemsPerRequest items are sent.
func (g *GeminiGenerator) Categorize(ctx context.Context, items []domain.UncategorizedItem) ([]domain.CategoryAssignment, error) {
	if len(items) == 0 {
		return []domain.CategoryAssignment{}, nil
	}
	if len(items) > MaxItemsPerRequest {
		items = items[:MaxItemsPerRequest]
	}

	prompt, err := buildCategoryPrompt(items)
	if err != nil {
		return nil, err
	}

	raw, err := g.model.GenerateText(ctx, categorySystemPrompt, prompt, categoryTemperature)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInsight, errEmptyResponse)
	}

	assignments, err := parseAssignments(raw, items)
	if err != nil {
		log.Debug().Str("raw", raw).Msg("Could not parse categorization response")
		return nil, err
	}
	return assignments, nil
}
