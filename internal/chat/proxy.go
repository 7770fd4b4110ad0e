package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const listenerContext = "You are Safeplace, a gentle listener. Respond with empathy, warmth, and care. Keep responses under 3 sentences."

type ProxyRequest struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

type ProxyResponse struct {
	Text string `json:"text"`
}

// ProxyClient talks to the pomo chat proxy started by `pomo serve`.
type ProxyClient struct {
	url    string
	client *http.Client
}

func NewProxyClient(url string, timeout time.Duration) *ProxyClient {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ProxyClient{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: timeout},
	}
}

func (c *ProxyClient) Reply(ctx context.Context, message string) (string, error) {
	if c.url == "" {
		return "", &TransportError{Err: errors.New("proxy url not configured")}
	}
	body, err := json.Marshal(ProxyRequest{Message: message, Context: listenerContext})
	if err != nil {
		return "", fmt.Errorf("chat: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chat: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	var decoded ProxyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReplyBytes)).Decode(&decoded); err != nil {
		return "", &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	text := strings.TrimSpace(decoded.Text)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
