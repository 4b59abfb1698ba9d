package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/PabloGalante/gourmetgo/internal/adapters/http"
	"github.com/PabloGalante/gourmetgo/internal/adapters/llm"
	"github.com/PabloGalante/gourmetgo/internal/adapters/storage/memory"
	"github.com/PabloGalante/gourmetgo/internal/app/conversation"
)

type sessionBody struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	View     string `json:"view"`
	CanSend  bool   `json:"can_send"`
	Messages []struct {
		ID     string `json:"id"`
		Text   string `json:"text"`
		Sender string `json:"sender"`
	} `json:"messages"`
	Order *struct {
		Items []struct {
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
			Notes    string `json:"notes"`
		} `json:"items"`
		DeliveryTime string `json:"deliveryTime"`
	} `json:"order"`
}

func newTestServer(t *testing.T, client *llm.MockLLM) http.Handler {
	t.Helper()

	svc := conversation.NewService(
		client,
		llm.DefaultProfile().SessionConfig(),
		memory.NewSessionStore[*conversation.Controller](),
		0,
	)
	return httpadapter.NewServer(svc, "*")
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, srv http.Handler) sessionBody {
	t.Helper()

	w := do(t, srv, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var s sessionBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, llm.NewMockLLM())

	w := do(t, srv, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateSessionReturnsWelcome(t *testing.T) {
	srv := newTestServer(t, llm.NewMockLLM())

	s := createSession(t, srv)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "ready", s.State)
	assert.Equal(t, "chat", s.View)
	assert.True(t, s.CanSend)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, "bot", s.Messages[0].Sender)
}

func TestSendMessageUntilSummary(t *testing.T) {
	reply := "```json\n" +
		`{"items":[{"name":"Large Pepperoni Pizza","quantity":1,"notes":"extra cheese"}],"deliveryTime":"7:30 PM"}` +
		"\n```"
	srv := newTestServer(t, llm.NewMockLLM("Anything else?", reply))
	s := createSession(t, srv)

	w := do(t, srv, http.MethodPost, "/api/sessions/"+s.ID+"/messages", map[string]string{"text": "I'd like a large pizza"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var first struct {
		Session   sessionBody `json:"session"`
		Confirmed bool        `json:"confirmed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.False(t, first.Confirmed)
	assert.Equal(t, "chat", first.Session.View)
	require.Len(t, first.Session.Messages, 3)
	assert.Equal(t, "user", first.Session.Messages[1].Sender)

	w = do(t, srv, http.MethodPost, "/api/sessions/"+s.ID+"/messages", map[string]string{"text": "that's it"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var second struct {
		Session   sessionBody `json:"session"`
		Confirmed bool        `json:"confirmed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.Confirmed)
	assert.Equal(t, "summary", second.Session.View)
	assert.Equal(t, "confirmed", second.Session.State)
	assert.False(t, second.Session.CanSend)
	require.NotNil(t, second.Session.Order)
	assert.Equal(t, "7:30 PM", second.Session.Order.DeliveryTime)
	assert.Equal(t, "Large Pepperoni Pizza", second.Session.Order.Items[0].Name)

	// chat is closed once confirmed
	w = do(t, srv, http.MethodPost, "/api/sessions/"+s.ID+"/messages", map[string]string{"text": "more"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// new order resets to the chat view
	w = do(t, srv, http.MethodPost, "/api/sessions/"+s.ID+"/new-order", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reset sessionBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reset))
	assert.Equal(t, "chat", reset.View)
	assert.Nil(t, reset.Order)
	assert.Len(t, reset.Messages, 1)
}

func TestSendMessageValidation(t *testing.T) {
	srv := newTestServer(t, llm.NewMockLLM())
	s := createSession(t, srv)

	w := do(t, srv, http.MethodPost, "/api/sessions/"+s.ID+"/messages", map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+s.ID+"/messages", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = do(t, srv, http.MethodPost, "/api/sessions/unknown/messages", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodGet, "/api/sessions/"+s.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var after sessionBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Len(t, after.Messages, 1)
}

func TestFailedSessionRejectsMessages(t *testing.T) {
	srv := newTestServer(t, llm.NewMockLLM().FailCreate(errors.New("bad key")))
	s := createSession(t, srv)

	assert.Equal(t, "failed", s.State)
	assert.False(t, s.CanSend)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, conversation.ConnectFailedText, s.Messages[0].Text)

	w := do(t, srv, http.MethodPost, "/api/sessions/"+s.ID+"/messages", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t, llm.NewMockLLM())
	s := createSession(t, srv)

	w := do(t, srv, http.MethodDelete, "/api/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodGet, "/api/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
