package embedding

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Gobusters/ectologger"
	"resty.dev/v3"

	"github.com/quizkit/sage/pkg/tracing"
)

// ClientConfig holds configuration for the embedding HTTP client
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client calls an OpenAI-compatible embeddings endpoint. It is a long-lived
// handle constructed once at startup and shared across requests; the server
// behind it owns model loading, pooling and normalization.
type Client struct {
	httpClient *resty.Client
	model      string
	logger     ectologger.Logger
}

// NewClient creates a new embedding client
func NewClient(cfg ClientConfig, logger ectologger.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		httpClient: client,
		model:      cfg.Model,
		logger:     logger,
	}
}

// Close closes the underlying HTTP client
func (c *Client) Close() error {
	return c.httpClient.Close()
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []embeddingData `json:"data"`
}

type embeddingData struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// EmbedBatch embeds the given texts in a single call, returning vectors in
// input order. The response is validated: one vector per input, all of the
// same non-zero length, all components finite.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	ctx, span := tracing.StartSpan(ctx, "embedding.Client.EmbedBatch")
	defer span.End()

	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(embeddingsRequest{Model: c.model, Input: texts}).
		SetResult(&embeddingsResponse{}).
		Post("/embeddings")
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("embeddings response error %d: %s", response.StatusCode(), response.String())
	}

	body, ok := response.Result().(*embeddingsResponse)
	if !ok || body == nil || len(body.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), resultCount(response.Result()))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range body.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	dim := 0
	for i, vec := range vectors {
		if len(vec) == 0 {
			return nil, fmt.Errorf("empty embedding for input %d", i)
		}
		if dim == 0 {
			dim = len(vec)
		} else if len(vec) != dim {
			return nil, fmt.Errorf("embedding length mismatch: %d vs %d", len(vec), dim)
		}
		for _, v := range vec {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("non-numeric value in embedding for input %d", i)
			}
		}
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"batch_size": len(texts),
		"dimensions": dim,
	}).Debug("Embedded batch")

	return vectors, nil
}

// Ping checks that the embedding server is reachable and the model is
// loaded by embedding a single short input.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.EmbedBatch(ctx, []string{"ping"})
	return err
}

func resultCount(result any) int {
	if body, ok := result.(*embeddingsResponse); ok && body != nil {
		return len(body.Data)
	}
	return 0
}
