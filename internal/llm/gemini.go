package llm

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"healthguide/internal/triage"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient backs the oracle interface with the Gemini generateContent
// REST API.
type GeminiClient struct {
	http   *resty.Client
	apiKey string
	model  string
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		http:   resty.New().SetBaseURL(geminiBaseURL),
		apiKey: apiKey,
		model:  model,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GeminiClient) AssessTriage(ctx context.Context, history []triage.Message, message string) (*triage.TriageResult, error) {
	contents := toGeminiContents(history)
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: message}}})

	raw, err := c.generate(ctx, triageSystemPrompt, contents)
	if err != nil {
		return nil, err
	}
	return parseAssessment("gemini", raw)
}

func (c *GeminiClient) GenerateResponse(ctx context.Context, messages []triage.Message, history []triage.Message) (string, error) {
	return c.generate(ctx, responseSystemPrompt, toGeminiContents(messages))
}

func (c *GeminiClient) generate(ctx context.Context, systemPrompt string, contents []geminiContent) (string, error) {
	var result geminiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(geminiRequest{
			SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
			Contents:          contents,
		}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))
	if err != nil {
		return "", &triage.OracleError{Provider: "gemini", Err: err}
	}
	if resp.IsError() {
		msg := resp.Status()
		if result.Error != nil {
			msg = result.Error.Message
		}
		return "", &triage.OracleError{Provider: "gemini", Err: fmt.Errorf("api error: %s", msg)}
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", &triage.OracleError{Provider: "gemini", Err: fmt.Errorf("empty candidate response")}
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

// toGeminiContents maps conversation roles onto Gemini's user/model naming.
func toGeminiContents(messages []triage.Message) []geminiContent {
	out := make([]geminiContent, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		out = append(out, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	return out
}
