package service

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

	"github.com/cenkalti/backoff"
	"github.com/ticsite/internal/content"
	"go.uber.org/zap"
)

// ErrTranslatorDisabled 表示未配置机器翻译接口。
var ErrTranslatorDisabled = errors.New("machine translation is not configured")

// Translator converts text between languages.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// LibreTranslator talks to a LibreTranslate compatible /translate endpoint.
type LibreTranslator struct {
	baseURL string
	apiKey  string
	http    httpDoer
	retry   retryPolicy
	logger  *zap.Logger
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// NewLibreTranslator creates a client for baseURL. An empty baseURL yields a
// translator that always returns ErrTranslatorDisabled.
func NewLibreTranslator(baseURL, apiKey string, logger *zap.Logger) *LibreTranslator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibreTranslator{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{Timeout: 20 * time.Second},
		retry:   defaultRetryPolicy,
		logger:  logger,
	}
}

// SetHTTPClient overrides the transport, mostly for tests.
func (t *LibreTranslator) SetHTTPClient(client httpDoer) {
	if client == nil {
		t.http = &http.Client{Timeout: 20 * time.Second}
		return
	}
	t.http = client
}

// Enabled reports whether an endpoint is configured.
func (t *LibreTranslator) Enabled() bool {
	return t != nil && t.baseURL != ""
}

// Translate implements Translator. Markdown link and image targets are swapped
// for tokens so the remote service cannot rewrite them; a reply that loses a
// token is returned as an error.
func (t *LibreTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if !t.Enabled() {
		return "", ErrTranslatorDisabled
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	protected := content.ProtectLinks(text)
	payload, err := json.Marshal(libreRequest{
		Q:      protected.Text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", err
	}

	var translated string
	err = t.retry.run(ctx, t.logger, "translator", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/translate", bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := t.http.Do(req)
		if err != nil {
			return fmt.Errorf("request translator: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return fmt.Errorf("read translator response: %w", err)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return statusError("translator", resp, strings.TrimSpace(string(body)))
		}

		var decoded libreResponse
		if err := json.Unmarshal(body, &decoded); err != nil {
			return backoff.Permanent(fmt.Errorf("decode translator response: %w", err))
		}
		if decoded.Error != "" {
			return backoff.Permanent(fmt.Errorf("translator error: %s", decoded.Error))
		}
		translated = decoded.TranslatedText
		return nil
	})
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(translated) == "" {
		return "", fmt.Errorf("translator returned empty text")
	}
	return protected.Restore(translated)
}
