package domain

import "time"

type SessionID string
type MessageID string

// Origin tells who produced a chat message.
type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// SessionState is the lifecycle position of a single conversation.
type SessionState string

const (
	StateUninitialized SessionState = "uninitialized"
	StateInitializing  SessionState = "initializing"
	StateReady         SessionState = "ready"
	StateAwaitingReply SessionState = "awaiting_reply"
	StateConfirmed     SessionState = "confirmed"
	StateFailed        SessionState = "failed"
)

// AcceptsInput reports whether a user submission may start in this state.
func (s SessionState) AcceptsInput() bool {
	return s == StateReady
}

type Timestamp = time.Time
