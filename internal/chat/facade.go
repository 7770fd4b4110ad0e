package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/sandeepkv93/pomo/internal/jsonlog"
)

// Facade hides every chat failure behind Fallback.
type Facade struct {
	replier Replier
	log     *jsonlog.Logger
}

func NewFacade(replier Replier, logger *jsonlog.Logger) *Facade {
	return &Facade{replier: replier, log: logger}
}

func (f *Facade) RequestReply(ctx context.Context, message string) string {
	if f == nil || f.replier == nil {
		return Fallback
	}
	reply, err := f.replier.Reply(ctx, message)
	if err != nil {
		fields := map[string]any{"err": err}
		var te *TransportError
		if errors.As(err, &te) && te.Status != 0 {
			fields["status"] = te.Status
		}
		f.log.Warn("chat_reply_failed", fields)
		return Fallback
	}
	if reply = strings.TrimSpace(reply); reply == "" {
		f.log.Warn("chat_reply_empty", nil)
		return Fallback
	}
	return reply
}
