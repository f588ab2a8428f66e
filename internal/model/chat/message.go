package chat

import "time"

// Message senders. The concierge appends messages from exactly these two.
const (
	SenderUser  = "user"
	SenderAgent = "agent"
)

// Message is one entry in the conversation transcript. History is
// append-only: messages are never mutated or reordered after creation.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
