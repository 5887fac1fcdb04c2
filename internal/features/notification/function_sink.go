package notification

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// FunctionSink posts events to the server-side notification function
type FunctionSink struct {
	URL        string
	Secret     string // Signs the body with HMAC-SHA256 when set
	HttpClient *http.Client
}

func NewFunctionSink(url, secret string, timeout time.Duration) *FunctionSink {
	return &FunctionSink{
		URL:    url,
		Secret: secret,
		HttpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *FunctionSink) Name() string {
	return "function"
}

func (s *FunctionSink) Send(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Go-Approvals-Notifier")
	req.Header.Set("X-Approval-Event", string(event.Type))
	req.Header.Set("X-Approval-Delivery", uuid.NewString())

	if s.Secret != "" {
		mac := hmac.New(sha256.New, []byte(s.Secret))
		mac.Write(body)
		req.Header.Set("X-Approval-Signature", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notification function returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
