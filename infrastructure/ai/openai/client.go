// Package openai adapts the OpenAI API to the text and image generator ports.
package openai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dreamspeak/application/ports"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Defaults for the adapters
const (
	DefaultTextModel  = "gpt-4o"
	DefaultImageModel = "dall-e-3"
	DefaultTimeout    = 60 * time.Second
)

// Config configures the OpenAI client
type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient builds an OpenAI client. Retries are disabled: a failed call is
// reported to the caller as is.
func NewClient(cfg Config) (openaigo.Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return openaigo.Client{}, fmt.Errorf("openai config incomplete: api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL+"/"))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return openaigo.NewClient(opts...), nil
}

// upstreamError reduces an API error to the provider's own message so it can be
// shown to clients. Refusals on content grounds wrap ports.ErrContentPolicy.
func upstreamError(err error, contentPolicyOn400 bool) error {
	var apiErr *openaigo.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	msg := strings.TrimSpace(apiErr.Message)
	if msg == "" {
		msg = fmt.Sprintf("%d %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode))
	}

	if contentPolicyOn400 && apiErr.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("%w: %s", ports.ErrContentPolicy, msg)
	}
	return errors.New(msg)
}
