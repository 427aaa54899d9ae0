package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	gemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"
)

// Config selects and authenticates the generative text provider.
type Config struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
}

// Service wraps an eino chat model behind a small generate-text surface.
// Synthesis never depends on provider specifics beyond this package.
type Service struct {
	config    Config
	chatModel model.BaseChatModel
}

func NewService(config Config) (*Service, error) {
	s := &Service{config: config}
	switch strings.ToLower(config.Provider) {
	case "gemini":
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: config.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		chatModel, err := gemini.NewChatModel(context.Background(), &gemini.Config{
			Client: client,
			Model:  config.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini chat model: %w", err)
		}
		s.chatModel = chatModel
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: gemini)", config.Provider)
	}
	return s, nil
}

// NewServiceWithModel injects a pre-built chat model. Used by tests to run
// synthesis against a fake model.
func NewServiceWithModel(config Config, chatModel model.BaseChatModel) *Service {
	return &Service{config: config, chatModel: chatModel}
}

// Generate runs a single chat completion and returns the raw text content.
func (s *Service) Generate(ctx context.Context, messages []*schema.Message) (string, error) {
	if s.chatModel == nil {
		return "", fmt.Errorf("chat model not initialized")
	}
	resp, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("llm generation failed: %w", err)
	}
	return resp.Content, nil
}

// CleanJSONResponse strips markdown code fences that models wrap around
// JSON payloads despite instructions not to.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// EstimateTokens approximates token count at the documented ~4 chars/token.
func EstimateTokens(text string) int32 {
	return int32(len(text) / 4)
}
