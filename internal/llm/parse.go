package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
)

// extractJSON strips Markdown fences and keeps the span from the first opening to the last closing delimiter
func extractJSON(raw string, opening, closing string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = strings.TrimSpace(s[idx+1:])
			// Only a fenced reply has a closing fence to strip
			if end := strings.LastIndex(s, "```"); end != -1 {
				s = strings.TrimSpace(s[:end])
			}
		}
	}

	if start := strings.Index(s, opening); start != -1 {
		if end := strings.LastIndex(s, closing); end > start {
			s = s[start : end+1]
		}
	}
	return s
}

type insightsPayload struct {
	MainInsight      string          `json:"mainInsight"`
	GoalInsight      string          `json:"goalInsight"`
	SavingSuggestion string          `json:"savingSuggestion"`
	CoachFeed        json.RawMessage `json:"coachFeed"`
}

// parseInsights decodes the model's insight object. A coachFeed that is not an
// array of strings becomes an empty feed.
func parseInsights(raw string) (*domain.Insights, error) {
	var payload insightsPayload
	if err := json.Unmarshal([]byte(extractJSON(raw, "{", "}")), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInsight, err)
	}

	feed := []string{}
	if len(payload.CoachFeed) > 0 {
		var items []string
		if err := json.Unmarshal(payload.CoachFeed, &items); err == nil {
			feed = items
		}
	}

	return &domain.Insights{
		MainInsight:      payload.MainInsight,
		GoalInsight:      payload.GoalInsight,
		SavingSuggestion: payload.SavingSuggestion,
		CoachFeed:        feed,
	}, nil
}

type assignmentPayload struct {
	Index    *int   `json:"index"`
	Category string `json:"category"`
}

// parseAssignments decodes the model's category array. Entries for indexes
// that were not sent are dropped; categories outside AllowedCategories map to
// FallbackCategory.
func parseAssignments(raw string, sent []domain.UncategorizedItem) ([]domain.CategoryAssignment, error) {
	var payload []assignmentPayload
	if err := json.Unmarshal([]byte(extractJSON(raw, "[", "]")), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInsight, err)
	}

	known := make(map[int]bool, len(sent))
	for _, item := range sent {
		known[item.Index] = true
	}

	assignments := make([]domain.CategoryAssignment, 0, len(payload))
	for _, p := range payload {
		if p.Index == nil || !known[*p.Index] {
			continue
		}
		category := strings.TrimSpace(p.Category)
		if category == "" {
			continue
		}
		assignments = append(assignments, domain.CategoryAssignment{
			Index:    *p.Index,
			Category: canonicalCategory(category),
		})
	}
	return assignments, nil
}

func canonicalCategory(category string) string {
	for _, c := range AllowedCategories {
		if strings.EqualFold(c, category) {
			return c
		}
	}
	return FallbackCategory
}
