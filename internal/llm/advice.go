package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

func (c *OpenAIClient) RefineAdvice(ctx context.Context, draft, reportJSON string) (string, error) {
	var sb strings.Builder
	sb.WriteString("ADVICE DRAFT:\n" + draft + "\n\n")
	sb.WriteString("RUN REPORT JSON:\n" + reportJSON + "\n")

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: adviceSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		Temperature: 0.2,
		MaxTokens:   800,
	})
	if err != nil {
		return "", fmt.Errorf("advice refinement failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return draft, nil
	}
	return out, nil
}
