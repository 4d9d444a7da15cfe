package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"kitemate/src/config"
	"kitemate/src/utils"
	requests "kitemate/src/utils/requests"
)

// systemPrompt constrains the model to emit a single JSON widget configuration.
const systemPrompt = `You translate a user's question about their stock portfolio into a JSON widget configuration.
Respond with a single JSON object and nothing else. Schema:
{"source":"holdings","metric":"market_value|unrealized_pnl|quantity|invested_value","dimension":"symbol|sector|exchange","filters":[{"field":"symbol|sector|exchange","op":"eq|neq","value":"..."}],"sort":"asc|desc","limit":1-500,"chart":{"kind":"line|bar|pie|table|card","title":"..."}}
Omit optional keys you do not need. Never invent fields.`

type LLMServiceClientI interface {
	GenerateWidgetConfig(ctx context.Context, prompt string) (*Completion, error)
}

// LLMServiceClient calls an OpenAI-compatible chat completions endpoint.
type LLMServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
	APIKey  string
	Model   string
}

// NewClient creates a new instance of LLMServiceClient
func NewClient(cfg *config.Config) *LLMServiceClient {
	return &LLMServiceClient{
		API:     requests.NewExternalAPIService(&http.Client{Timeout: 60 * time.Second}),
		BaseURL: cfg.ExternalClients.LLM.BaseURL,
		APIKey:  cfg.ExternalClients.LLM.APIKey,
		Model:   cfg.ExternalClients.LLM.Model,
	}
}

func (s *LLMServiceClient) GenerateWidgetConfig(ctx context.Context, prompt string) (*Completion, error) {
	body := chatRequest{
		Model: s.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	}

	start := time.Now()
	resp, err := s.API.Post(ctx, s.BaseURL+"/chat/completions", s.APIKey, nil, body)
	if err != nil {
		return nil, utils.ServiceUnavailable("model endpoint unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, utils.ServiceUnavailable(fmt.Sprintf("model endpoint returned %s", resp.Status))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, utils.ServiceUnavailable("model returned no choices")
	}

	return &Completion{
		Content:   chatResp.Choices[0].Message.Content,
		Model:     s.Model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
