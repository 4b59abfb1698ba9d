package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/gourmetgo/internal/domain"
	"github.com/PabloGalante/gourmetgo/internal/observability"
)

// ControllerStore holds the live controllers of a Service.
type ControllerStore interface {
	Create(id domain.SessionID, c *Controller) error
	Get(id domain.SessionID) (*Controller, error)
	Delete(id domain.SessionID) error
	Len() int
}

// Service hosts many independent controllers, one per session id. Each
// controller still runs its own single-session state machine.
type Service struct {
	client      domain.ModelClient
	sessionCfg  domain.SessionConfig
	store       ControllerStore
	sendTimeout time.Duration
	now         func() time.Time
}

func NewService(
	client domain.ModelClient,
	sessionCfg domain.SessionConfig,
	store ControllerStore,
	sendTimeout time.Duration,
) *Service {
	return &Service{
		client:      client,
		sessionCfg:  sessionCfg,
		store:       store,
		sendTimeout: sendTimeout,
		now:         time.Now,
	}
}

// Snapshot is a read-only view of one session.
type Snapshot struct {
	SessionID domain.SessionID
	State     domain.SessionState
	Messages  []domain.ChatMessage
	Order     *domain.OrderDetails
}

func snapshot(id domain.SessionID, c *Controller) *Snapshot {
	return &Snapshot{
		SessionID: id,
		State:     c.State(),
		Messages:  c.Messages(),
		Order:     c.Order(),
	}
}

// StartSession creates and activates a new controller. A model connection
// failure still yields a session, in the Failed state, so the caller can
// show the fallback message.
func (s *Service) StartSession(ctx context.Context) (*Snapshot, error) {
	id := domain.SessionID(uuid.NewString())
	ctx = observability.WithSessionID(ctx, string(id))
	log := observability.LoggerFromContext(ctx)
	log.Info("starting new session")

	c := NewController(s.client, s.sessionCfg,
		WithSendTimeout(s.sendTimeout),
		WithClock(s.now),
		WithOrderListener(func(details domain.OrderDetails) {
			log.Info("order handed to summary view", "items", len(details.Items))
		}),
	)

	if err := s.store.Create(id, c); err != nil {
		log.Error("failed to store session", "error", err)
		return nil, err
	}

	log.Info("session stored", "live_sessions", s.store.Len())

	if err := c.Activate(ctx); err != nil {
		log.Warn("session started without a model connection", "error", err)
	}

	return snapshot(id, c), nil
}

// SubmitOutput is the result of one user turn.
type SubmitOutput struct {
	Snapshot *Snapshot
	Result   SubmitResult
}

// Submit forwards text to the session's controller.
func (s *Service) Submit(ctx context.Context, id domain.SessionID, text string) (*SubmitOutput, error) {
	ctx = observability.WithSessionID(ctx, string(id))

	c, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	res, err := c.Submit(ctx, text)
	if err != nil {
		observability.LoggerFromContext(ctx).Info("submission rejected", "error", err)
		return nil, err
	}

	return &SubmitOutput{Snapshot: snapshot(id, c), Result: res}, nil
}

// NewOrder resets the session and opens a fresh model session under the
// same id.
func (s *Service) NewOrder(ctx context.Context, id domain.SessionID) (*Snapshot, error) {
	ctx = observability.WithSessionID(ctx, string(id))

	c, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	if err := c.NewOrder(ctx); err != nil && !isConnectionErr(err) {
		return nil, err
	}

	return snapshot(id, c), nil
}

// Timeline returns the current view of a session.
func (s *Service) Timeline(ctx context.Context, id domain.SessionID) (*Snapshot, error) {
	c, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return snapshot(id, c), nil
}

// EndSession drops a session.
func (s *Service) EndSession(ctx context.Context, id domain.SessionID) error {
	ctx = observability.WithSessionID(ctx, string(id))
	if err := s.store.Delete(id); err != nil {
		return err
	}
	observability.LoggerFromContext(ctx).Info("session ended", "live_sessions", s.store.Len())
	return nil
}

// LiveSessions reports how many sessions are currently hosted.
func (s *Service) LiveSessions() int {
	return s.store.Len()
}
