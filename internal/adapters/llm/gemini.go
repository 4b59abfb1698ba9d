package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/gourmetgo/internal/domain"
)

// GeminiClient implements domain.ModelClient on top of the genai chats API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// GeminiOptions selects the backend. APIKey uses the Gemini API; Project
// and Location use Vertex AI.
type GeminiOptions struct {
	APIKey    string
	Project   string
	Location  string
	ModelName string
}

// NewGeminiClient creates a ModelClient based on Gemini.
func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	cc := &genai.ClientConfig{}
	switch {
	case opts.Project != "":
		cc.Project = opts.Project
		cc.Location = opts.Location
		cc.Backend = genai.BackendVertexAI
	case opts.APIKey != "":
		cc.APIKey = opts.APIKey
		cc.Backend = genai.BackendGeminiAPI
	default:
		return nil, errors.New("gemini client needs an API key or a GCP project")
	}

	modelName := opts.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// CreateSession implements domain.ModelClient. The returned handle is a
// *genai.Chat that keeps its own history.
func (g *GeminiClient) CreateSession(ctx context.Context, cfg domain.SessionConfig) (domain.SessionHandle, string, error) {
	history := make([]*genai.Content, 0, len(cfg.Seed))
	for _, turn := range cfg.Seed {
		history = append(history, genai.NewContentFromText(turn.Text, toGenaiRole(turn.Origin)))
	}

	temp := cfg.Temperature
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser),
		Temperature:       &temp,
	}

	chat, err := g.client.Chats.Create(ctx, g.modelName, genCfg, history)
	if err != nil {
		return nil, "", fmt.Errorf("%w: gemini create chat: %v", domain.ErrConnection, err)
	}

	return chat, cfg.Welcome, nil
}

// Send implements domain.ModelClient.
func (g *GeminiClient) Send(ctx context.Context, handle domain.SessionHandle, text string) (string, error) {
	chat, ok := handle.(*genai.Chat)
	if !ok || chat == nil {
		return "", fmt.Errorf("%w: handle %T is not a gemini chat", domain.ErrTransport, handle)
	}

	res, err := chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("%w: gemini send: %v", domain.ErrTransport, err)
	}

	return res.Text(), nil
}

func toGenaiRole(o domain.Origin) genai.Role {
	if o == domain.OriginAssistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}
