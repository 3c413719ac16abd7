// Package types defines the wire types exchanged with the unofficial
// conversational web API. The shapes here are dictated by the remote
// service, not designed by this client; fields the client never reads
// are omitted rather than speculatively mirrored.
package types

// Role constants for conversation messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultModel is the model identifier sent on every conversation request.
const DefaultModel = "text-davinci-002-render"

// MessageContent holds an ordered sequence of text parts.
// Only the first part is consumed by this client.
type MessageContent struct {
	ContentType string   `json:"content_type"` // always "text" for outgoing messages
	Parts       []string `json:"parts"`
}

// Message represents a single message in the conversation tree.
type Message struct {
	ID      string         `json:"id"`
	Role    string         `json:"role"` // "user" or "assistant"
	Content MessageContent `json:"content"`
}

// ConversationRequest is the body of a streamed conversation exchange.
// ConversationID is included only when a conversation already exists;
// the remote service assigns one on the first turn.
type ConversationRequest struct {
	Action          string    `json:"action"` // always "next"
	Messages        []Message `json:"messages"`
	Model           string    `json:"model"`
	ConversationID  string    `json:"conversation_id,omitempty"`
	ParentMessageID string    `json:"parent_message_id"`
}

// ConversationResponseEvent is a single parsed event from the conversation
// stream. Events carry cumulative message state: each event's text replaces
// the previous partial text rather than appending to it.
type ConversationResponseEvent struct {
	Message        *Message `json:"message,omitempty"`
	ConversationID string   `json:"conversation_id,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// FirstTextPart returns the first text part of the event's message content,
// or "" if the event carries no message or no parts.
func (e *ConversationResponseEvent) FirstTextPart() string {
	if e == nil || e.Message == nil || len(e.Message.Content.Parts) == 0 {
		return ""
	}
	return e.Message.Content.Parts[0]
}

// SessionResult is the body of the auth-session exchange.
// Error carries a remote error code such as "RefreshAccessTokenError".
type SessionResult struct {
	AccessToken string       `json:"accessToken"`
	Error       string       `json:"error,omitempty"`
	Expires     string       `json:"expires,omitempty"`
	User        *SessionUser `json:"user,omitempty"`
}

// SessionUser identifies the account behind a session credential.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}
