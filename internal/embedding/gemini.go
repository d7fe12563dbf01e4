package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is the embedding model used when none is configured
const DefaultGeminiModel = "text-embedding-004"

const geminiTimeout = 15 * time.Second

var _ FallibleEmbedder = (*GeminiEmbedder)(nil)

// GeminiEmbedder calls the Gemini embedding API. Vectors are truncated or
// zero-padded to the configured dimension and L2-normalized; API failures
// are logged and yield the zero vector.
type GeminiEmbedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
	dim    int
	logger *zap.Logger
}

// NewGeminiEmbedder creates a Gemini-backed embedder
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, dim int, logger *zap.Logger) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if dim <= 0 {
		dim = DefaultDimension
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEmbedder{
		client: client,
		model:  client.EmbeddingModel(model),
		dim:    dim,
		logger: logger,
	}, nil
}

// Dimension returns the vector size
func (g *GeminiEmbedder) Dimension() int {
	return g.dim
}

// Embed requests an embedding for skill; a failed request yields the zero vector
func (g *GeminiEmbedder) Embed(skill string) []float64 {
	v, err := g.TryEmbed(skill)
	if err != nil {
		return make([]float64, g.dim)
	}
	return v
}

// TryEmbed requests an embedding for skill and reports a failed request
func (g *GeminiEmbedder) TryEmbed(skill string) ([]float64, error) {
	if skill == "" {
		return make([]float64, g.dim), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), geminiTimeout)
	defer cancel()

	res, err := g.model.EmbedContent(ctx, genai.Text(skill))
	if err != nil {
		g.logger.Warn("embedding request failed", zap.String("skill", skill), zap.Error(err))
		return nil, fmt.Errorf("failed to embed %q: %w", skill, err)
	}
	if res == nil || res.Embedding == nil {
		return make([]float64, g.dim), nil
	}
	return shapeVector(res.Embedding.Values, g.dim), nil
}

// Close releases the underlying client
func (g *GeminiEmbedder) Close() error {
	return g.client.Close()
}

func shapeVector(values []float32, dim int) []float64 {
	v := make([]float64, dim)
	for i := 0; i < dim && i < len(values); i++ {
		v[i] = float64(values[i])
	}
	return Normalize(v)
}
