package chat

import (
	"context"
	"errors"
	"fmt"
)

const (
	Fallback = "I hear you. That sounds heavy. Take a deep breath."

	Greeting = "Hey, I'm Safeplace. Vent, share, or just talk. I'm here to listen."
)

var (
	ErrTransport  = errors.New("chat: transport failure")
	ErrEmptyReply = errors.New("chat: empty reply")
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Replier produces a reply for one user message.
type Replier interface {
	Reply(ctx context.Context, message string) (string, error)
}

type ReplierFunc func(ctx context.Context, message string) (string, error)

func (f ReplierFunc) Reply(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

// TransportError reports a failed round trip. Status is zero when no HTTP
// response was received.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("chat: upstream status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("chat: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }
