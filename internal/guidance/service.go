package guidance

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/teamdesk/calldesk-backend/pkg/config"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
	pkgerrors "github.com/teamdesk/calldesk-backend/pkg/errors"
)

const systemPrompt = "You are a sales coach for a telecom outreach team. " +
	"Given a customer id, product category, and priority tag, write a short, " +
	"practical talk script the caller can follow. Keep it under 200 words."

// Input identifies the call the caller wants a script for.
type Input struct {
	CustomerID string         `json:"customer_id" validate:"required"`
	ListType   enums.ListType `json:"list_type"`
	Rank       enums.Rank     `json:"rank"`
}

// Result carries the generated script.
type Result struct {
	Script string `json:"script"`
}

type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Service generates talk-script guidance through the OpenAI chat API.
// One prompt, one response, no retry.
type Service struct {
	client completer
	model  string
}

// NewService builds the guidance service from configuration. Returns an
// error when no API key is configured so the route can be left unmounted.
func NewService(cfg config.OpenAIConfig) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key not configured")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Service{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Generate produces a talk script for the given call.
func (s *Service) Generate(ctx context.Context, input Input) (*Result, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required")
	}

	prompt := fmt.Sprintf("Customer id: %s\nProduct category: %s\nPriority tag: %s",
		input.CustomerID, orNone(string(input.ListType)), orNone(string(input.Rank)))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generating guidance")
	}
	if len(resp.Choices) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "no guidance generated")
	}

	return &Result{Script: resp.Choices[0].Message.Content}, nil
}

func orNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}
