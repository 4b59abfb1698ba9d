package domain

import "context"

// SessionHandle is the opaque token a ModelClient hands out when a chat
// session is created. It is threaded back into every Send call.
type SessionHandle interface{}

// SessionConfig carries everything a ModelClient needs to open a session.
type SessionConfig struct {
	SystemInstruction string
	// Seed is replayed as prior history before the first user turn.
	Seed        []SeedTurn
	Welcome     string
	Temperature float32
}

// SeedTurn is one entry of the initial history.
type SeedTurn struct {
	Origin Origin
	Text   string
}

// ModelClient defines how the application talks to a hosted chat model.
type ModelClient interface {
	// CreateSession opens a chat session and returns its handle plus the
	// welcome text to show the user. Failures wrap ErrConnection.
	CreateSession(ctx context.Context, cfg SessionConfig) (SessionHandle, string, error)
	// Send forwards one user turn and returns the raw reply text. Failures
	// wrap ErrTransport.
	Send(ctx context.Context, handle SessionHandle, text string) (string, error)
}
