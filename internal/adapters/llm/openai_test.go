package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/gourmetgo/internal/adapters/llm"
	"github.com/PabloGalante/gourmetgo/internal/domain"
)

type chatRequest struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newFakeOpenAI(t *testing.T, status int, reply string) (*httptest.Server, *[]chatRequest) {
	t.Helper()

	var (
		mu   sync.Mutex
		seen []chatRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestOpenAIClientCarriesTranscript(t *testing.T) {
	srv, seen := newFakeOpenAI(t, http.StatusOK, "Anything else?")
	c, err := llm.NewOpenAIClient("test-key", srv.URL+"/v1", "test-model")
	require.NoError(t, err)

	ctx := context.Background()
	handle, welcome, err := c.CreateSession(ctx, llm.DefaultProfile().SessionConfig())
	require.NoError(t, err)
	assert.Contains(t, welcome, "GourmetGo")

	reply, err := c.Send(ctx, handle, "one burger")
	require.NoError(t, err)
	assert.Equal(t, "Anything else?", reply)

	_, err = c.Send(ctx, handle, "that's all")
	require.NoError(t, err)

	require.Len(t, *seen, 2)
	first := (*seen)[0].Messages
	second := (*seen)[1].Messages
	// system + two seed turns + user
	require.Len(t, first, 4)
	assert.Equal(t, "system", first[0].Role)
	assert.Equal(t, "one burger", first[3].Content)
	// previous exchange is replayed
	require.Len(t, second, 6)
	assert.Equal(t, "assistant", second[4].Role)
	assert.Equal(t, "that's all", second[5].Content)
}

func TestOpenAIClientWrapsTransportErrors(t *testing.T) {
	srv, _ := newFakeOpenAI(t, http.StatusInternalServerError, "")
	c, err := llm.NewOpenAIClient("test-key", srv.URL+"/v1", "test-model")
	require.NoError(t, err)

	ctx := context.Background()
	handle, _, err := c.CreateSession(ctx, domain.SessionConfig{SystemInstruction: "sys"})
	require.NoError(t, err)

	_, err = c.Send(ctx, handle, "hello")
	assert.ErrorIs(t, err, domain.ErrTransport)

	_, err = c.Send(ctx, "not-a-handle", "hello")
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := llm.NewOpenAIClient("", "", "")
	assert.Error(t, err)
}
