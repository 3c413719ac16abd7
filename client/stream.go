package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AltairaLabs/chatgpt/errors"
	"github.com/AltairaLabs/chatgpt/logger"
	"github.com/AltairaLabs/chatgpt/markdown"
	"github.com/AltairaLabs/chatgpt/metrics"
	"github.com/AltairaLabs/chatgpt/types"
)

// doneSentinel is the stream-complete marker sent as a raw SSE payload.
const doneSentinel = "[DONE]"

// SendOptions configures a single conversational turn.
type SendOptions struct {
	// ConversationID threads the message into an existing conversation.
	// Empty on the first turn; the remote service assigns one.
	ConversationID string

	// ParentMessageID identifies the message this turn replies to.
	// A fresh identifier is generated when empty.
	ParentMessageID string

	// MessageID identifies the outgoing message. Generated when empty.
	MessageID string

	// OnProgress is invoked with the latest cumulative rendered text each
	// time an event carrying non-empty text arrives.
	OnProgress func(text string)

	// OnEvent is invoked for every parsed conversation event, regardless
	// of content.
	OnEvent func(event *types.ConversationResponseEvent)
}

// StreamChunk is one element of the conversation event sequence produced
// by SendMessageStream. Exactly one terminal chunk is emitted: either
// Done is true or Error is set, and the channel closes after it.
type StreamChunk struct {
	// Event is the parsed conversation event, nil on terminal chunks.
	Event *types.ConversationResponseEvent

	// Content is the latest cumulative rendered text.
	Content string

	// Done is true when the stream-complete sentinel arrived.
	Done bool

	// Error is set when the stream failed: a malformed payload, an
	// event-level error code, a transport error, or an end of stream
	// without the sentinel.
	Error error
}

// SendMessageStream sends one conversational turn and returns the stream
// of parsed events as a finite channel, terminated by a Done or Error
// chunk. The access-token refresh completes before the stream opens; a
// refresh failure is returned directly and no channel is created.
// Consumers that stop reading must cancel ctx: cancellation releases the
// producer goroutine and closes the response body even when no further
// chunk is received.
func (c *Client) SendMessageStream(ctx context.Context, message string, opts SendOptions) (<-chan StreamChunk, error) {
	accessToken, err := c.RefreshAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.wait(ctx); err != nil {
		return nil, errors.New("client", "SendMessage", err)
	}

	messageID := opts.MessageID
	if messageID == "" {
		messageID = uuid.New().String()
	}
	parentMessageID := opts.ParentMessageID
	if parentMessageID == "" {
		parentMessageID = uuid.New().String()
	}

	convReq := types.ConversationRequest{
		Action: "next",
		Messages: []types.Message{{
			ID:   messageID,
			Role: types.RoleUser,
			Content: types.MessageContent{
				ContentType: "text",
				Parts:       []string{message},
			},
		}},
		Model:           types.DefaultModel,
		ConversationID:  opts.ConversationID,
		ParentMessageID: parentMessageID,
	}

	reqBody, err := json.Marshal(convReq)
	if err != nil {
		return nil, errors.New("client", "SendMessage", fmt.Errorf("failed to marshal request: %w", err))
	}

	url := c.backendBaseURL + "/conversation"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.New("client", "SendMessage", err)
	}

	httpReq.Header.Set(contentTypeHeader, applicationJSON)
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	httpReq.Header.Set(userAgentHeader, c.userAgent)

	logger.APIRequest(http.MethodPost, url, map[string]string{
		contentTypeHeader: applicationJSON,
		"Authorization":   "Bearer ***",
		userAgentHeader:   c.userAgent,
	}, convReq)

	//nolint:bodyclose // body is closed in the streamResponse goroutine
	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return nil, errors.New("client", "SendMessage", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		logger.APIResponse(resp.StatusCode, string(body), nil)
		return nil, errors.New("client", "SendMessage",
			fmt.Errorf("conversation request to %s failed: %s", url, string(body))).
			WithStatusCode(resp.StatusCode)
	}

	outChan := make(chan StreamChunk)

	go c.streamResponse(ctx, resp.Body, outChan)

	return outChan, nil
}

// streamResponse reads SSE events from the conversation stream and sends
// parsed chunks until the sentinel, an error, or context cancellation.
func (c *Client) streamResponse(ctx context.Context, body io.ReadCloser, outChan chan<- StreamChunk) {
	defer close(outChan)
	defer body.Close()

	// emit delivers a chunk unless the context ends first, so a consumer
	// that cancels and walks away cannot strand this goroutine on the
	// unbuffered send.
	emit := func(chunk StreamChunk) bool {
		select {
		case outChan <- chunk:
			return true
		case <-ctx.Done():
			return false
		}
	}

	scanner := newSSEScanner(body)
	lastText := ""

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			emit(StreamChunk{Content: lastText, Error: errors.New("client", "SendMessage", ctx.Err())})
			return
		default:
		}

		data := scanner.Data()

		if data == doneSentinel {
			emit(StreamChunk{Content: lastText, Done: true})
			return
		}

		var event types.ConversationResponseEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			// A malformed payload is terminal for the whole call.
			emit(StreamChunk{Content: lastText, Error: errors.New("client", "SendMessage",
				fmt.Errorf("failed to parse conversation event: %w", err))})
			return
		}
		metrics.RecordStreamEvent()

		// The remote can report a failure mid-stream as an event-level
		// error code; no resolved response follows it.
		if event.Error != "" {
			emit(StreamChunk{Content: lastText, Error: errors.New("client", "SendMessage",
				fmt.Errorf("conversation stream reported error %q", event.Error))})
			return
		}

		if text := event.FirstTextPart(); text != "" {
			lastText = c.render(text)
		}

		if !emit(StreamChunk{Event: &event, Content: lastText}) {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		emit(StreamChunk{Content: lastText, Error: errors.New("client", "SendMessage", err)})
		return
	}

	// The remote closed the stream without the completion sentinel.
	emit(StreamChunk{Content: lastText, Error: errors.New("client", "SendMessage", ErrStreamEnded)})
}

// SendMessage sends one conversational turn and resolves its final text.
// It folds over the event stream: the progress callback fires for every
// event carrying non-empty text, the raw-event callback for every parsed
// event. The call resolves exactly once, via the completion sentinel, and
// rejects exactly once on token-refresh failure, malformed payload,
// transport error, or a stream that ends without the sentinel.
func (c *Client) SendMessage(ctx context.Context, message string, opts SendOptions) (string, error) {
	start := time.Now()

	ch, err := c.SendMessageStream(ctx, message, opts)
	if err != nil {
		metrics.RecordSend("error", time.Since(start).Seconds())
		return "", err
	}

	for chunk := range ch {
		if chunk.Error != nil {
			metrics.RecordSend("error", time.Since(start).Seconds())
			return "", chunk.Error
		}
		if chunk.Done {
			metrics.RecordSend("success", time.Since(start).Seconds())
			return chunk.Content, nil
		}
		if chunk.Event != nil {
			if opts.OnEvent != nil {
				opts.OnEvent(chunk.Event)
			}
			if opts.OnProgress != nil && chunk.Event.FirstTextPart() != "" {
				opts.OnProgress(chunk.Content)
			}
		}
	}

	// streamResponse always emits a terminal chunk; this is unreachable
	// unless the channel producer changes.
	metrics.RecordSend("error", time.Since(start).Seconds())
	return "", errors.New("client", "SendMessage", ErrStreamEnded)
}

// render converts markup to plain text unless markdown preservation was
// requested at construction.
func (c *Client) render(text string) string {
	if c.markdown {
		return text
	}
	return markdown.ToText(text)
}
