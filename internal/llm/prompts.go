package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
)

const insightSystemPrompt = "You are a concise, friendly personal financial coach. Always respond with valid JSON only."

const categorySystemPrompt = "You are a precise transaction categorization engine. Always respond with valid JSON only."

// AllowedCategories is the closed set of categories the model may assign
var AllowedCategories = []string{
	"Bills",
	"Groceries",
	"Eating Out",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Health & Fitness",
	"Travel",
	"Subscriptions",
	"Income",
	"Transfer",
	"Other",
}

// FallbackCategory is assigned when the model answers outside AllowedCategories
const FallbackCategory = "Other"

func buildInsightPrompt(summary *domain.InsightSummary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal insight summary: %w", err)
	}

	var b strings.Builder
	b.WriteString("You will receive JSON with a user's spending summary.\n\n")
	b.WriteString("Respond ONLY with a valid JSON object, no extra text, in this exact format:\n\n")
	b.WriteString("{\n")
	b.WriteString("  \"mainInsight\": \"one short paragraph about their current spending, in plain language\",\n")
	b.WriteString("  \"goalInsight\": \"one short paragraph about whether they are on track to reach their financial goals, based on deadlines and required monthly savings\",\n")
	b.WriteString("  \"savingSuggestion\": \"one practical, non-judgmental suggestion for how they could save a bit more next month\",\n")
	b.WriteString("  \"coachFeed\": [\"short tip 1\", \"short tip 2\", \"short tip 3\"]\n")
	b.WriteString("}\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Keep the tone supportive, not shaming.\n")
	b.WriteString("- Use dollar amounts when helpful.\n")
	b.WriteString("- Do not mention that you are an AI or language model.\n")
	b.WriteString("- Do not include any markdown or bullet characters, just plain sentences.\n\n")
	b.WriteString("Here is the JSON summary of their data:\n\n")
	b.Write(data)
	b.WriteString("\n")
	return b.String(), nil
}

func buildCategoryPrompt(items []domain.UncategorizedItem) (string, error) {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal categorization batch: %w", err)
	}

	var b strings.Builder
	b.WriteString("You will receive a list of transactions with fields: index, description, merchant, amount.\n")
	b.WriteString("Assign a spending category to each transaction.\n\n")
	b.WriteString("Allowed categories (choose the closest one):\n")
	for _, c := range AllowedCategories {
		b.WriteString("- \"" + c + "\"\n")
	}
	b.WriteString("\nImportant:\n")
	b.WriteString("- Always return one of the allowed categories.\n")
	b.WriteString("- Use \"Subscriptions\" for recurring digital services (Netflix, Spotify, phone plans, etc.).\n")
	b.WriteString("- Use \"Income\" only when the amount is positive and looks like salary, paycheck, or refund.\n")
	b.WriteString("- Use \"Transfer\" when it looks like money moved between accounts, ATM, or generic transfer.\n")
	b.WriteString("- If unsure, use \"Other\".\n\n")
	b.WriteString("Respond ONLY with a valid JSON array, no extra text, in this exact format:\n\n")
	b.WriteString("[\n  { \"index\": 0, \"category\": \"Groceries\" },\n  { \"index\": 3, \"category\": \"Eating Out\" }\n]\n\n")
	b.WriteString("Here are the transactions to categorize:\n\n")
	b.Write(data)
	b.WriteString("\n")
	return b.String(), nil
}
