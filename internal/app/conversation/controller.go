package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/gourmetgo/internal/domain"
	"github.com/PabloGalante/gourmetgo/internal/observability"
	"github.com/PabloGalante/gourmetgo/internal/order"
)

// Fixed assistant messages shown when the model cannot be used or when an
// order is handed to the summary view.
const (
	ConnectFailedText = "Sorry, I couldn't connect to the service. Please check your API key and try again."
	SendFailedText    = "Oops, something went wrong. Please try again."
	ConfirmedText     = "Great! Here is your order summary."
)

// OrderListener receives a confirmed order. It is called once per
// successful extraction, outside the controller lock.
type OrderListener func(domain.OrderDetails)

// Controller drives one chat session from initialization to a confirmed
// order. It owns the message log and the state; the ModelClient is
// borrowed for the session's lifetime.
type Controller struct {
	client      domain.ModelClient
	sessionCfg  domain.SessionConfig
	onConfirmed OrderListener
	sendTimeout time.Duration
	now         func() time.Time
	newID       func() string

	mu       sync.Mutex
	state    domain.SessionState
	handle   domain.SessionHandle
	messages []domain.ChatMessage
	order    *domain.OrderDetails
}

// Option configures a Controller.
type Option func(*Controller)

// WithOrderListener registers the callback invoked when an order is
// confirmed.
func WithOrderListener(fn OrderListener) Option {
	return func(c *Controller) { c.onConfirmed = fn }
}

// WithSendTimeout bounds each model exchange. Zero disables the limit.
func WithSendTimeout(d time.Duration) Option {
	return func(c *Controller) { c.sendTimeout = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator overrides the message id source.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

func NewController(client domain.ModelClient, cfg domain.SessionConfig, opts ...Option) *Controller {
	c := &Controller{
		client:     client,
		sessionCfg: cfg,
		now:        time.Now,
		newID:      uuid.NewString,
		state:      domain.StateUninitialized,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetOrderListener replaces the confirmation callback.
func (c *Controller) SetOrderListener(fn OrderListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConfirmed = fn
}

// State returns the current session state.
func (c *Controller) State() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a copy of the log in insertion order.
func (c *Controller) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ChatMessage(nil), c.messages...)
}

// Order returns the confirmed order, or nil before confirmation.
func (c *Controller) Order() *domain.OrderDetails {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.order == nil {
		return nil
	}
	cp := *c.order
	cp.Items = append([]domain.OrderItem(nil), c.order.Items...)
	return &cp
}

// Activate creates the model session. It runs only from Uninitialized;
// later calls are no-ops. A creation failure leaves the controller in
// Failed with a single fallback message, and the error is returned for
// diagnostics.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()
	if c.state != domain.StateUninitialized {
		c.mu.Unlock()
		return nil
	}
	c.state = domain.StateInitializing
	c.mu.Unlock()

	log := observability.LoggerFromContext(ctx)
	log.Info("creating model session")

	handle, welcome, err := c.client.CreateSession(ctx, c.sessionCfg)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Error("model session creation failed", "error", err)
		c.state = domain.StateFailed
		c.appendLocked(domain.OriginAssistant, ConnectFailedText)
		if !errors.Is(err, domain.ErrConnection) {
			err = fmt.Errorf("%w: %v", domain.ErrConnection, err)
		}
		return err
	}

	c.handle = handle
	c.state = domain.StateReady
	c.appendLocked(domain.OriginAssistant, welcome)
	log.Info("model session ready")
	return nil
}

// SubmitResult reports what a submission produced.
type SubmitResult struct {
	UserMessage domain.ChatMessage
	Reply       domain.ChatMessage
	Outcome     order.Outcome
	Order       *domain.OrderDetails
	SendFailed  bool
}

// Submit sends one user turn. Blank text is rejected with ErrEmptyInput and
// any state but Ready with ErrNotAccepting; neither touches the log. A
// transport failure appends the fallback message, returns to Ready, and is
// reported through SubmitResult.SendFailed with a nil error.
func (c *Controller) Submit(ctx context.Context, text string) (SubmitResult, error) {
	if strings.TrimSpace(text) == "" {
		return SubmitResult{}, domain.ErrEmptyInput
	}

	c.mu.Lock()
	if !c.state.AcceptsInput() {
		state := c.state
		c.mu.Unlock()
		return SubmitResult{}, fmt.Errorf("%w (state %s)", domain.ErrNotAccepting, state)
	}
	userMsg := c.appendLocked(domain.OriginUser, text)
	c.state = domain.StateAwaitingReply
	handle := c.handle
	c.mu.Unlock()

	log := observability.LoggerFromContext(ctx)

	sendCtx := ctx
	if c.sendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, c.sendTimeout)
		defer cancel()
	}

	reply, err := c.client.Send(sendCtx, handle, text)
	if err != nil {
		log.Error("model send failed", "error", err)

		c.mu.Lock()
		msg := c.appendLocked(domain.OriginAssistant, SendFailedText)
		c.state = domain.StateReady
		c.mu.Unlock()

		return SubmitResult{UserMessage: userMsg, Reply: msg, SendFailed: true}, nil
	}

	res := order.Extract(reply)
	if res.Err != nil {
		log.Warn("order payload rejected", "outcome", res.Outcome.String(), "error", res.Err)
	}

	if !res.Confirmed() {
		c.mu.Lock()
		msg := c.appendLocked(domain.OriginAssistant, reply)
		c.state = domain.StateReady
		c.mu.Unlock()

		return SubmitResult{UserMessage: userMsg, Reply: msg, Outcome: res.Outcome}, nil
	}

	c.mu.Lock()
	c.order = res.Order
	c.state = domain.StateConfirmed
	msg := c.appendLocked(domain.OriginAssistant, ConfirmedText)
	listener := c.onConfirmed
	c.mu.Unlock()

	log.Info("order confirmed",
		"items", len(res.Order.Items),
		"delivery_time", res.Order.DeliveryTime,
	)

	if listener != nil {
		listener(*res.Order)
	}

	return SubmitResult{
		UserMessage: userMsg,
		Reply:       msg,
		Outcome:     res.Outcome,
		Order:       res.Order,
	}, nil
}

// NewOrder clears the log and the confirmed order, drops the current model
// session and activates a fresh one. It is refused while a reply is
// pending.
func (c *Controller) NewOrder(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case domain.StateAwaitingReply, domain.StateInitializing:
		c.mu.Unlock()
		return domain.ErrBusy
	}
	c.state = domain.StateUninitialized
	c.handle = nil
	c.messages = nil
	c.order = nil
	c.mu.Unlock()

	observability.LoggerFromContext(ctx).Info("starting new order")
	return c.Activate(ctx)
}

// appendLocked adds a message to the log. The caller holds c.mu.
func (c *Controller) appendLocked(origin domain.Origin, text string) domain.ChatMessage {
	id := domain.MessageID(c.newID())
	for c.hasIDLocked(id) {
		id = domain.MessageID(c.newID())
	}
	msg := domain.ChatMessage{
		ID:        id,
		Text:      text,
		Origin:    origin,
		CreatedAt: c.now(),
	}
	c.messages = append(c.messages, msg)
	return msg
}

func (c *Controller) hasIDLocked(id domain.MessageID) bool {
	for _, m := range c.messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

func isConnectionErr(err error) bool {
	return errors.Is(err, domain.ErrConnection)
}
