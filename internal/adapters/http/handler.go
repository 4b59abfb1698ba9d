package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/PabloGalante/gourmetgo/internal/app/conversation"
	"github.com/PabloGalante/gourmetgo/internal/domain"
	"github.com/PabloGalante/gourmetgo/internal/observability"
)

type Server struct {
	svc *conversation.Service
}

// NewServer builds the router. allowedOrigin feeds the CORS policy for the
// browser front-end.
func NewServer(svc *conversation.Service, allowedOrigin string) http.Handler {
	s := &Server{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(withRequestLogging)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{allowedOrigin},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}", s.handleGetSession)
		r.Delete("/{id}", s.handleDeleteSession)
		r.Post("/{id}/messages", s.handleSendMessage)
		r.Post("/{id}/new-order", s.handleNewOrder)
	})

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type messageResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

type orderItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

type orderResponse struct {
	Items        []orderItemResponse `json:"items"`
	DeliveryTime string              `json:"deliveryTime"`
}

type sessionResponse struct {
	ID       string            `json:"id"`
	State    string            `json:"state"`
	View     string            `json:"view"`
	CanSend  bool              `json:"can_send"`
	Messages []messageResponse `json:"messages"`
	Order    *orderResponse    `json:"order,omitempty"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	Session   sessionResponse `json:"session"`
	Reply     messageResponse `json:"reply"`
	Confirmed bool            `json:"confirmed"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.StartSession(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(snap))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Timeline(r.Context(), sessionID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(snap))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.EndSession(r.Context(), sessionID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	out, err := s.svc.Submit(r.Context(), sessionID(r), req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		Session:   toSessionResponse(out.Snapshot),
		Reply:     toMessageResponse(out.Result.Reply),
		Confirmed: out.Result.Order != nil,
	})
}

func (s *Server) handleNewOrder(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.NewOrder(r.Context(), sessionID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(snap))
}

// ─────────────────────────────────────────────
// Conversion helpers
// ─────────────────────────────────────────────

func sessionID(r *http.Request) domain.SessionID {
	return domain.SessionID(chi.URLParam(r, "id"))
}

func toSessionResponse(snap *conversation.Snapshot) sessionResponse {
	resp := sessionResponse{
		ID:       string(snap.SessionID),
		State:    string(snap.State),
		View:     "chat",
		CanSend:  snap.State.AcceptsInput(),
		Messages: make([]messageResponse, 0, len(snap.Messages)),
	}
	for _, m := range snap.Messages {
		resp.Messages = append(resp.Messages, toMessageResponse(m))
	}
	if snap.Order != nil {
		resp.View = "summary"
		resp.Order = toOrderResponse(snap.Order)
	}
	return resp
}

func toMessageResponse(m domain.ChatMessage) messageResponse {
	sender := "user"
	if m.Origin == domain.OriginAssistant {
		sender = "bot"
	}
	return messageResponse{
		ID:        string(m.ID),
		Text:      m.Text,
		Sender:    sender,
		CreatedAt: m.CreatedAt,
	}
}

func toOrderResponse(o *domain.OrderDetails) *orderResponse {
	resp := &orderResponse{
		Items:        make([]orderItemResponse, 0, len(o.Items)),
		DeliveryTime: o.DeliveryTime,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			Name:     it.Name,
			Quantity: it.Quantity,
			Notes:    it.Notes,
		})
	}
	return resp
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrEmptyInput):
		badRequest(w, "text is required")
	case errors.Is(err, domain.ErrNotAccepting):
		writeError(w, http.StatusConflict, "session is not accepting messages")
	case errors.Is(err, domain.ErrBusy):
		writeError(w, http.StatusConflict, "a reply is still pending")
	default:
		internalError(w, r, err)
	}
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
