package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"github.com/PabloGalante/gourmetgo/internal/domain"
)

func TestGeminiRoleMapping(t *testing.T) {
	assert.Equal(t, genai.Role(genai.RoleModel), toGenaiRole(domain.OriginAssistant))
	assert.Equal(t, genai.Role(genai.RoleUser), toGenaiRole(domain.OriginUser))
}

func TestGeminiSendRejectsForeignHandle(t *testing.T) {
	g := &GeminiClient{modelName: "gemini-2.5-flash"}

	_, err := g.Send(context.Background(), &mockSession{}, "hi")
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestNewGeminiClientNeedsCredentials(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiOptions{})
	assert.Error(t, err)
}
