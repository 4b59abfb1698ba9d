package domain

// ChatMessage is one bubble in the conversation log. Values are never
// mutated after they are appended.
type ChatMessage struct {
	ID        MessageID
	Text      string
	Origin    Origin
	CreatedAt Timestamp
}
