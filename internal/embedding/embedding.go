// Package embedding wraps the Gemini embedding API behind a small provider
// interface so the pipeline and analytics never touch the SDK directly.
package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Provider turns text into fixed-length vectors. Vectors from different
// models are not comparable, so the same provider must be used for
// ingestion and for search queries.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Gemini is the Provider backed by the Gemini embedding models.
// Authentication comes from the environment (GOOGLE_API_KEY or application
// default credentials), same as the rest of the GenAI SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a provider for the given embedding model.
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGemini: create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Embed returns the vector for a single text.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in one API call, preserving order.
func (g *Gemini) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("EmbedBatch: embed content: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("EmbedBatch: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float64, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("EmbedBatch: empty embedding at index %d", i)
		}
		vector := make([]float64, len(emb.Values))
		for j, v := range emb.Values {
			vector[j] = float64(v)
		}
		vectors[i] = vector
	}
	return vectors, nil
}
