package errors_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	pkgerrors "github.com/AltairaLabs/chatgpt/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := pkgerrors.New("client", "RefreshAccessToken", cause)

	assert.Equal(t, "client", err.Component)
	assert.Equal(t, "RefreshAccessToken", err.Operation)
	assert.Equal(t, 0, err.StatusCode)
	assert.Nil(t, err.Details)
	assert.Equal(t, cause, err.Cause)
}

func TestNew_NilCause(t *testing.T) {
	err := pkgerrors.New("config", "Load", nil)

	assert.Equal(t, "config", err.Component)
	assert.Equal(t, "Load", err.Operation)
	assert.Nil(t, err.Cause)
}

func TestError_BasicMessage(t *testing.T) {
	cause := fmt.Errorf("file not found")
	err := pkgerrors.New("config", "Load", cause)

	assert.Equal(t, "[config] Load: file not found", err.Error())
}

func TestError_NoCause(t *testing.T) {
	err := pkgerrors.New("client", "SendMessage", nil)

	assert.Equal(t, "[client] SendMessage", err.Error())
}

func TestError_WithStatusCode(t *testing.T) {
	cause := fmt.Errorf("unauthorized")
	err := pkgerrors.New("client", "RefreshAccessToken", cause).WithStatusCode(401)

	assert.Equal(t, "[client] RefreshAccessToken (status 401): unauthorized", err.Error())
}

func TestError_WithStatusCodeNoCause(t *testing.T) {
	err := pkgerrors.New("client", "EnsureAuth", nil).WithStatusCode(403)

	assert.Equal(t, "[client] EnsureAuth (status 403)", err.Error())
}

func TestWithStatusCode(t *testing.T) {
	err := pkgerrors.New("client", "SendMessage", fmt.Errorf("timeout"))
	result := err.WithStatusCode(504)

	// Builder returns same pointer for chaining.
	assert.Same(t, err, result)
	assert.Equal(t, 504, err.StatusCode)
}

func TestWithDetails(t *testing.T) {
	details := map[string]any{
		"conversation_id": "abc-123",
		"model":           "text-davinci-002-render",
	}
	err := pkgerrors.New("client", "SendMessage", fmt.Errorf("failed"))
	result := err.WithDetails(details)

	assert.Same(t, err, result)
	assert.Equal(t, details, err.Details)
}

func TestChainedBuilders(t *testing.T) {
	err := pkgerrors.New("client", "SendMessage", fmt.Errorf("bad request")).
		WithStatusCode(400).
		WithDetails(map[string]any{"input": "too long"})

	assert.Equal(t, 400, err.StatusCode)
	assert.Equal(t, map[string]any{"input": "too long"}, err.Details)
	assert.Equal(t, "[client] SendMessage (status 400): bad request", err.Error())
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := pkgerrors.New("client", "SendMessage", cause)

	assert.Equal(t, cause, err.Unwrap())
}

func TestErrorsIs(t *testing.T) {
	sentinel := fmt.Errorf("sentinel error")
	wrapped := fmt.Errorf("mid-layer: %w", sentinel)
	err := pkgerrors.New("client", "SendMessage", wrapped)

	assert.True(t, errors.Is(err, sentinel))
	assert.True(t, errors.Is(err, wrapped))
}

func TestErrorsAs(t *testing.T) {
	cause := fmt.Errorf("something failed")
	err := pkgerrors.New("tokencache", "Set", cause)

	// Wrap in another error layer to test errors.As unwrapping.
	outer := fmt.Errorf("outer: %w", err)

	var ctxErr *pkgerrors.ContextualError
	require.True(t, errors.As(outer, &ctxErr))
	assert.Equal(t, "tokencache", ctxErr.Component)
	assert.Equal(t, "Set", ctxErr.Operation)
}

func TestNestedContextualErrors(t *testing.T) {
	inner := pkgerrors.New("client", "RefreshAccessToken", io.ErrUnexpectedEOF).WithStatusCode(500)
	outer := pkgerrors.New("client", "SendMessage", inner).WithStatusCode(502)

	assert.Equal(t, "[client] SendMessage (status 502): [client] RefreshAccessToken (status 500): unexpected EOF", outer.Error())

	// Unwrap chain works.
	assert.True(t, errors.Is(outer, io.ErrUnexpectedEOF))
}

func TestDetailsDoNotAffectErrorString(t *testing.T) {
	err := pkgerrors.New("client", "SendMessage", nil).
		WithDetails(map[string]any{"key": "value"})

	// Details are metadata only; they should not appear in the error string.
	assert.Equal(t, "[client] SendMessage", err.Error())
}
