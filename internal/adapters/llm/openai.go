package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/PabloGalante/gourmetgo/internal/domain"
)

// OpenAIClient implements domain.ModelClient against any OpenAI-compatible
// chat completions endpoint. The API is stateless, so the session handle
// carries the transcript.
type OpenAIClient struct {
	client    *openai.Client
	modelName string
}

type openAISession struct {
	mu          sync.Mutex
	messages    []openai.ChatCompletionMessage
	temperature float32
}

// NewOpenAIClient creates an OpenAI-backed ModelClient. baseURL may be
// empty to use the public API.
func NewOpenAIClient(apiKey, baseURL, modelName string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai client needs an API key")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	return &OpenAIClient{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
	}, nil
}

// ModelName returns the model requested on every completion.
func (c *OpenAIClient) ModelName() string { return c.modelName }

// CreateSession implements domain.ModelClient. No request is made; the
// transcript is seeded locally.
func (c *OpenAIClient) CreateSession(ctx context.Context, cfg domain.SessionConfig) (domain.SessionHandle, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(cfg.Seed)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: cfg.SystemInstruction,
	})
	for _, turn := range cfg.Seed {
		role := openai.ChatMessageRoleUser
		if turn.Origin == domain.OriginAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}

	return &openAISession{messages: msgs, temperature: cfg.Temperature}, cfg.Welcome, nil
}

// Send implements domain.ModelClient. The user turn is kept in the
// transcript only when the exchange succeeds.
func (c *OpenAIClient) Send(ctx context.Context, handle domain.SessionHandle, text string) (string, error) {
	sess, ok := handle.(*openAISession)
	if !ok || sess == nil {
		return "", fmt.Errorf("%w: handle %T is not an openai session", domain.ErrTransport, handle)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	msgs := append(sess.messages[:len(sess.messages):len(sess.messages)], openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.modelName,
		Messages:    msgs,
		Temperature: sess.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai chat completion: %v", domain.ErrTransport, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", domain.ErrTransport)
	}

	reply := resp.Choices[0].Message.Content
	sess.messages = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: reply,
	})
	return reply, nil
}
