// Package ai adapts the external conversational model into the reply
// capability consumed by the chat orchestrator.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/casterlin/fable-tavern/backend/internal/config"
	"github.com/casterlin/fable-tavern/backend/internal/model/character"
	"github.com/casterlin/fable-tavern/backend/internal/model/chat"
)

// Service drives character replies through a composed prompt + model chain.
// It is stateless per call; conversation context arrives with each request.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the model and compiles the reply chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// Reply produces the character's answer to a user utterance given the recent
// conversation window. The call is bounded by the configured timeout; an
// empty completion is reported as an error, never returned as a reply.
func (s *Service) Reply(ctx context.Context, char character.Character, history []chat.Message, utterance string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	input := map[string]any{
		"system":  BuildSystemPrompt(char),
		"history": historyMessages(history),
		"query":   utterance,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("model invocation failed: %w", err)
	}
	if strings.TrimSpace(response.Content) == "" {
		return "", fmt.Errorf("model returned an empty completion")
	}
	return response.Content, nil
}

// Disabled stands in for the backend when model credentials are absent; every
// exchange fails with a backend-unavailable outcome instead of a fabricated
// reply.
type Disabled struct{}

// Reply always fails.
func (Disabled) Reply(context.Context, character.Character, []chat.Message, string) (string, error) {
	return "", fmt.Errorf("model credentials not configured")
}

func historyMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.SenderCharacter:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return history
}
