package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/pomo/internal/chat"
)

const (
	ReplyFallback   = "Sorry, I couldn't get a response right now."
	ConnectFallback = "Failed to connect to Gemini."

	maxBodyBytes = 64 << 10
)

// handleSafeplace always answers 200 {"text": ...}; failures become one of
// the fallback texts.
func (s *Server) handleSafeplace(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req chat.ProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Warn("safeplace_bad_request", map[string]any{"rid": RequestIDFromContext(c), "err": err})
		c.JSON(http.StatusOK, chat.ProxyResponse{Text: ConnectFallback})
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" || s.replier == nil {
		c.JSON(http.StatusOK, chat.ProxyResponse{Text: ReplyFallback})
		return
	}

	reply, err := s.replier.Reply(c.Request.Context(), message)
	switch {
	case err == nil && strings.TrimSpace(reply) != "":
		c.JSON(http.StatusOK, chat.ProxyResponse{Text: reply})
	case err == nil, errors.Is(err, chat.ErrEmptyReply):
		c.JSON(http.StatusOK, chat.ProxyResponse{Text: ReplyFallback})
	default:
		s.log.Error("safeplace_upstream_failed", map[string]any{"rid": RequestIDFromContext(c), "err": err})
		c.JSON(http.StatusOK, chat.ProxyResponse{Text: ConnectFallback})
	}
}
