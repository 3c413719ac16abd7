package client

import (
	"context"
	"sync"

	"github.com/AltairaLabs/chatgpt/types"
)

// ConversationState carries the two identifiers that thread successive
// turns into one conversation. The zero value starts a new conversation.
type ConversationState struct {
	ConversationID  string
	ParentMessageID string
}

// SendMessageWithState sends one turn against the given conversation state
// and returns the advanced state alongside the resolved text. The input
// state is never mutated; on failure it is returned unchanged so the
// caller can retry or abandon the turn. ConversationID is captured from
// the response only when the state had none (stable once set); the
// response message's id always becomes the next parent.
func (c *Client) SendMessageWithState(ctx context.Context, state ConversationState, message string, opts SendOptions) (ConversationState, string, error) {
	opts.ConversationID = state.ConversationID
	if state.ParentMessageID != "" {
		opts.ParentMessageID = state.ParentMessageID
	}

	next := state
	userOnEvent := opts.OnEvent
	opts.OnEvent = func(event *types.ConversationResponseEvent) {
		if next.ConversationID == "" && event.ConversationID != "" {
			next.ConversationID = event.ConversationID
		}
		if event.Message != nil && event.Message.ID != "" {
			next.ParentMessageID = event.Message.ID
		}
		if userOnEvent != nil {
			userOnEvent(event)
		}
	}

	text, err := c.SendMessage(ctx, message, opts)
	if err != nil {
		return state, "", err
	}

	return next, text, nil
}

// Conversation is a stateful convenience wrapper that threads the
// conversation and parent-message identifiers across turns so callers
// don't have to. A mutex serializes sends: overlapping calls on one
// instance queue up rather than racing on the shared identifiers.
type Conversation struct {
	client *Client

	mu    sync.Mutex
	state ConversationState
}

// ConversationOptions seeds a Conversation with existing identifiers.
type ConversationOptions struct {
	ConversationID  string
	ParentMessageID string
}

// GetConversation returns a Conversation bound to this client, optionally
// resuming from previously captured identifiers.
func (c *Client) GetConversation(opts ConversationOptions) *Conversation {
	return &Conversation{
		client: c,
		state: ConversationState{
			ConversationID:  opts.ConversationID,
			ParentMessageID: opts.ParentMessageID,
		},
	}
}

// SendMessage sends a turn in this conversation and advances the stored
// identifiers from the response.
func (cv *Conversation) SendMessage(ctx context.Context, message string, opts SendOptions) (string, error) {
	cv.mu.Lock()
	defer cv.mu.Unlock()

	next, text, err := cv.client.SendMessageWithState(ctx, cv.state, message, opts)
	if err != nil {
		return "", err
	}

	cv.state = next
	return text, nil
}

// State returns a snapshot of the conversation's current identifiers.
func (cv *Conversation) State() ConversationState {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.state
}
