package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sandeepkv93/pomo/internal/model"
	"github.com/sandeepkv93/pomo/internal/storage"
)

const (
	TranscriptKey = "chat-transcript"
	DraftKey      = "chat-draft"
	CollapsedKey  = "chat-collapsed"
)

// Conversation is the chat pane's persisted state.
type Conversation struct {
	store     storage.Store
	messages  []Message
	draft     string
	collapsed bool
}

func greeting() Message {
	return Message{Role: RoleBot, Text: Greeting}
}

func NewConversation(ctx context.Context, store storage.Store) *Conversation {
	c := &Conversation{
		store:     store,
		messages:  []Message{greeting()},
		collapsed: true,
	}
	var saved []Message
	if storage.GetJSON(ctx, store, TranscriptKey, &saved) {
		saved = slices.DeleteFunc(saved, func(m Message) bool {
			return (m.Role != RoleUser && m.Role != RoleBot) || strings.TrimSpace(m.Text) == ""
		})
		if len(saved) > 0 {
			c.messages = saved
		}
	}
	c.draft = storage.GetString(ctx, store, DraftKey, "")
	if b, err := strconv.ParseBool(storage.GetString(ctx, store, CollapsedKey, "true")); err == nil {
		c.collapsed = b
	}
	return c
}

func (c *Conversation) Messages() []Message { return slices.Clone(c.messages) }
func (c *Conversation) Draft() string       { return c.draft }
func (c *Conversation) Collapsed() bool     { return c.collapsed }

func (c *Conversation) Last() Message {
	return c.messages[len(c.messages)-1]
}

func (c *Conversation) Mood() Mood {
	return MoodOf(c.Last().Text)
}

func (c *Conversation) SetDraft(ctx context.Context, draft string) error {
	c.draft = draft
	return c.save(ctx, DraftKey, draft)
}

func (c *Conversation) SetCollapsed(ctx context.Context, collapsed bool) error {
	c.collapsed = collapsed
	return c.save(ctx, CollapsedKey, strconv.FormatBool(collapsed))
}

// Send records a user message and clears the draft. Blank text is rejected.
func (c *Conversation) Send(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, fmt.Errorf("%w: message is empty", model.ErrValidation)
	}
	msg := Message{Role: RoleUser, Text: text}
	c.messages = append(c.messages, msg)
	c.draft = ""
	return msg, errors.Join(c.saveTranscript(ctx), c.save(ctx, DraftKey, ""))
}

func (c *Conversation) Receive(ctx context.Context, text string) error {
	c.messages = append(c.messages, Message{Role: RoleBot, Text: text})
	return c.saveTranscript(ctx)
}

// Clear restarts the conversation from the greeting and forgets the saved
// transcript and draft.
func (c *Conversation) Clear(ctx context.Context) error {
	c.messages = []Message{greeting()}
	c.draft = ""
	if c.store == nil {
		return nil
	}
	return errors.Join(c.store.Remove(ctx, TranscriptKey), c.store.Remove(ctx, DraftKey))
}

func (c *Conversation) saveTranscript(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return storage.SetJSON(ctx, c.store, TranscriptKey, c.messages)
}

func (c *Conversation) save(ctx context.Context, key, value string) error {
	if c.store == nil {
		return nil
	}
	return c.store.Set(ctx, key, value)
}
