package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"healthguide/internal/triage"
)

// OpenAIClient backs the oracle interface with the OpenAI chat completion
// API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIClient) AssessTriage(ctx context.Context, history []triage.Message, message string) (*triage.TriageResult, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: triageSystemPrompt},
	}
	messages = append(messages, toOpenAIMessages(history)...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: message,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &triage.OracleError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &triage.OracleError{Provider: "openai", Err: fmt.Errorf("empty completion")}
	}

	return parseAssessment("openai", resp.Choices[0].Message.Content)
}

func (c *OpenAIClient) GenerateResponse(ctx context.Context, messages []triage.Message, history []triage.Message) (string, error) {
	oaMessages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: responseSystemPrompt},
	}
	oaMessages = append(oaMessages, toOpenAIMessages(messages)...)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    oaMessages,
		Temperature: 0.6,
	})
	if err != nil {
		return "", &triage.OracleError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &triage.OracleError{Provider: "openai", Err: fmt.Errorf("empty completion")}
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []triage.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}
