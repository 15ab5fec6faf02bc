package discord

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	sonic "github.com/bytedance/sonic"
	backoff "github.com/cenkalti/backoff/v4"
	crerr "github.com/cockroachdb/errors"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

// Discord rejects message content above this length.
const maxMessageLength = 2000

var errWebhookTransient = crerr.New("discord transient failure")

type WebhookConfig struct {
	HTTPClient      *http.Client
	URL             string
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
}

// Webhook posts messages to a Discord channel webhook with a bounded
// exponential retry policy.
type Webhook struct {
	client          *http.Client
	url             string
	maxRetries      uint64
	initialInterval time.Duration
	logger          *logging.Logger
}

func NewWebhook(cfg WebhookConfig, logger *logging.Logger) *Webhook {
	if logger == nil {
		logger = logging.Default()
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if client.Timeout <= 0 {
		client.Timeout = 10 * time.Second
	}

	initialInterval := cfg.InitialInterval
	if initialInterval <= 0 {
		initialInterval = 500 * time.Millisecond
	}

	return &Webhook{
		client:          client,
		url:             strings.TrimSpace(cfg.URL),
		maxRetries:      cfg.MaxRetries,
		initialInterval: initialInterval,
		logger:          logger,
	}
}

func (w *Webhook) Send(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return crerr.New("message is required")
	}
	if w.url == "" {
		return crerr.New("webhook url is not configured")
	}
	message = truncateMessage(message, maxMessageLength)

	body, err := sonic.Marshal(map[string]string{"content": message})
	if err != nil {
		return crerr.Wrap(err, "marshal webhook payload")
	}

	w.logger.DebugContext(ctx, "discord webhook request", "preview", w.buildRequestPreview(body))

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(backoff.WithInitialInterval(w.initialInterval)),
			w.maxRetries,
		),
		ctx,
	)
	if err := backoff.Retry(func() error { return w.post(ctx, body) }, policy); err != nil {
		return fmt.Errorf("deliver webhook message: %w", err)
	}
	return nil
}

func (w *Webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(crerr.Wrap(err, "create webhook request"))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send request: %v", errWebhookTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: webhook status=%d", errWebhookTransient, resp.StatusCode)
	default:
		return backoff.Permanent(fmt.Errorf("webhook status=%d", resp.StatusCode))
	}
}

// buildRequestPreview renders a redacted curl-style preview for debug logs.
// The webhook path carries a secret token and never appears in output.
func (w *Webhook) buildRequestPreview(body []byte) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X POST ")
	_, _ = buf.WriteString(redactWebhookURL(w.url))
	_, _ = buf.WriteString(" -H 'Content-Type: application/json' -d '")
	preview := string(body)
	if len(preview) > 512 {
		preview = preview[:512] + "..."
	}
	_, _ = buf.WriteString(preview)
	_ = buf.WriteByte('\'')
	return buf.String()
}

// truncateMessage enforces Discord's character limit, which counts runes,
// and never cuts inside a multi-byte rune.
func truncateMessage(message string, limit int) string {
	if utf8.RuneCountInString(message) <= limit {
		return message
	}
	runes := []rune(message)
	return string(runes[:limit-3]) + "..."
}

func redactWebhookURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "REDACTED"
	}
	return parsed.Scheme + "://" + parsed.Host + "/api/webhooks/REDACTED"
}
