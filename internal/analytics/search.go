package analytics

import (
	"context"
	"fmt"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

// QueryEmbedder turns free text into a fixed-length vector. The vector is
// opaque here, it only has to come from the same model that embedded the
// stored transactions.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// SimilaritySearcher returns the stored transactions closest to a query
// vector, best match first. Implemented by the storage layer.
type SimilaritySearcher interface {
	SearchByEmbedding(ctx context.Context, vector []float64, limit int) ([]*domain.Transaction, error)
}

// SearchMatch pairs a transaction with its rank in the result set.
type SearchMatch struct {
	Rank        int
	Transaction *domain.Transaction
}

const defaultSearchLimit = 10

// SemanticSearch embeds the query and asks storage for the nearest stored
// transactions. A limit of zero or less uses the default. An empty result
// set returns ErrNoData.
func SemanticSearch(ctx context.Context, embedder QueryEmbedder, searcher SimilaritySearcher, query string, limit int) ([]SearchMatch, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	vector, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("SemanticSearch: embed query: %w", err)
	}

	txs, err := searcher.SearchByEmbedding(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("SemanticSearch: %w", err)
	}
	if len(txs) == 0 {
		return nil, domain.ErrNoData
	}

	matches := make([]SearchMatch, len(txs))
	for i, tx := range txs {
		matches[i] = SearchMatch{Rank: i + 1, Transaction: tx}
	}
	return matches, nil
}
