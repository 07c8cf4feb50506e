// Package assist turns natural-language questions into PostgreSQL queries
// against the migrated schema. It is thin glue over the OpenAI chat
// completion API: the only real contract is that the prompt carries the
// destination schema (post-reconciliation names and types), never the source
// schema, since the generated SQL runs against the destination.
package assist

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a PostgreSQL expert who generates accurate SQL queries based on natural language questions."

const promptTemplate = `You are a PostgreSQL expert. Given the following database schema and a user's question, generate a valid PostgreSQL query.

%s

User Question: %s

Requirements:
1. Generate ONLY the SQL query that I can directly use. No other response.
2. Use proper JOINs to get descriptive names from lookup tables
3. Use appropriate aggregations (COUNT, AVG, SUM, etc.) when needed
4. Add LIMIT clauses for queries that might return many rows (default LIMIT 100)
5. Use proper date/time functions for TIMESTAMP columns
6. Make sure the query is syntactically correct for PostgreSQL
7. Add helpful column aliases using AS

Generate the SQL query:`

// ChatCompleter is the slice of the OpenAI client the assistant needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Assistant generates SQL from questions over one schema document.
type Assistant struct {
	client ChatCompleter
	schema string
	model  string
}

// New creates an assistant over the rendered destination schema document.
func New(client ChatCompleter, schemaDoc string) *Assistant {
	return &Assistant{
		client: client,
		schema: schemaDoc,
		model:  openai.GPT4oMini,
	}
}

// NewOpenAI creates an assistant backed by the real OpenAI API.
func NewOpenAI(apiKey, schemaDoc string) *Assistant {
	return New(openai.NewClient(apiKey), schemaDoc)
}

// GenerateSQL asks the model for a single SQL statement answering the
// question. The response is stripped of markdown fencing before being
// returned; callers still validate it with EnsureReadOnly before execution.
func (a *Assistant) GenerateSQL(ctx context.Context, question string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.1,
		MaxTokens:   1000,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, a.schema, question),
			},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	sql := ExtractSQL(resp.Choices[0].Message.Content)
	if sql == "" {
		return "", fmt.Errorf("chat completion returned no SQL")
	}
	return sql, nil
}

var fenceRe = regexp.MustCompile("(?im)^```(?:sql)?\\s*$|^```(?:sql)?\\s*|\\s*```$")

// ExtractSQL strips markdown code fencing from a model response.
func ExtractSQL(response string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(response, ""))
}

// EnsureReadOnly rejects any generated statement that is not a plain SELECT
// or WITH query. The chat surface only ever reads the destination.
func EnsureReadOnly(sql string) error {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return fmt.Errorf("empty SQL statement")
	}
	if i := strings.Index(trimmed, ";"); i >= 0 && strings.TrimSpace(trimmed[i+1:]) != "" {
		return fmt.Errorf("multiple SQL statements are not allowed")
	}

	first := strings.ToUpper(firstWord(trimmed))
	if first != "SELECT" && first != "WITH" {
		return fmt.Errorf("only SELECT queries may be executed, got %s", first)
	}
	return nil
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
