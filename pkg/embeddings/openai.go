package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v2"
	openaiOption "github.com/openai/openai-go/v2/option"
)

// OpenAIEmbedder computes embeddings through the OpenAI embeddings endpoint
type OpenAIEmbedder struct {
	client openai.Client
	model  string
}

// OpenAIOption customizes the embedder
type OpenAIOption func(*openAIOptions)

type openAIOptions struct {
	baseURL string
	timeout time.Duration
}

// WithBaseURL points the client at an OpenAI-compatible endpoint
func WithBaseURL(baseURL string) OpenAIOption {
	return func(o *openAIOptions) { o.baseURL = baseURL }
}

// WithTimeout bounds each embeddings request
func WithTimeout(timeout time.Duration) OpenAIOption {
	return func(o *openAIOptions) { o.timeout = timeout }
}

// NewOpenAIEmbedder creates an embedder for the given model
func NewOpenAIEmbedder(apiKey, model string, opts ...OpenAIOption) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}

	var cfg openAIOptions
	for _, opt := range opts {
		opt(&cfg)
	}

	reqOpts := []openaiOption.RequestOption{
		openaiOption.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, openaiOption.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, openaiOption.WithHTTPClient(&http.Client{Timeout: cfg.timeout}))
	}

	return &OpenAIEmbedder{
		client: openai.NewClient(reqOpts...),
		model:  model,
	}, nil
}

// Embed implements Embedder
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embeddings response contained no data")
	}

	raw := resp.Data[0].Embedding
	vector := make([]float32, len(raw))
	for i, v := range raw {
		vector[i] = float32(v)
	}
	return vector, nil
}

// Model implements Embedder
func (e *OpenAIEmbedder) Model() string {
	return e.model
}
