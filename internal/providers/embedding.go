package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/wisefig/ledgerlens/internal/common"
	"github.com/wisefig/ledgerlens/internal/service"
)

const defaultEmbeddingEndpoint = "https://api.openai.com/v1/embeddings"

// EmbeddingConfig configures the embedding client.
type EmbeddingConfig struct {
	// APIKey authenticates against the embedding endpoint. Required.
	APIKey string
	// Endpoint overrides the API URL, useful for proxies and local models.
	Endpoint string
	// Model is the embedding model name.
	Model string
	// Timeout bounds a single request.
	Timeout time.Duration
}

// EmbeddingClient fetches text embeddings over HTTP. It implements
// service.Embedder; any transport or server failure maps to
// common.ErrProviderUnavailable so callers can fail soft uniformly.
type EmbeddingClient struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
	model      string
	logger     *slog.Logger
}

// NewEmbeddingClient creates an embedding client.
func NewEmbeddingClient(cfg EmbeddingConfig, logger *slog.Logger) (*EmbeddingClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: embedding API key is required", common.ErrMissingConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEmbeddingEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = "text-embedding-3-small"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &EmbeddingClient{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		model:    model,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed fetches the vector for one text span, retrying transient
// failures. Rate limits and 5xx responses retry; auth and other client
// errors do not.
func (c *EmbeddingClient) Embed(ctx context.Context, text string) ([]float64, error) {
	var embedding []float64

	err := common.WithRetry(ctx, func() error {
		vec, err := c.embedOnce(ctx, text)
		if err != nil {
			return err
		}
		embedding = vec
		return nil
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 500 * time.Millisecond})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrProviderUnavailable, err)
	}
	return embedding, nil
}

func (c *EmbeddingClient) embedOnce(ctx context.Context, text string) ([]float64, error) {
	jsonBody, err := json.Marshal(embeddingRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, common.NewRetryableError(fmt.Errorf("failed to marshal request: %w", err), false)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(string(jsonBody)))
	if err != nil {
		return nil, common.NewRetryableError(fmt.Errorf("failed to create request: %w", err), false)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.NewRetryableError(fmt.Errorf("request failed: %w", err), true)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewRetryableError(fmt.Errorf("failed to read response: %w", err), true)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, common.NewRetryableError(
			fmt.Errorf("embedding API error (status %d): %s", resp.StatusCode, truncate(string(body), 200)),
			retryable)
	}

	var response embeddingResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, common.NewRetryableError(fmt.Errorf("failed to parse response: %w", err), false)
	}
	if len(response.Data) == 0 || len(response.Data[0].Embedding) == 0 {
		return nil, common.NewRetryableError(fmt.Errorf("no embedding returned"), false)
	}

	return response.Data[0].Embedding, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
