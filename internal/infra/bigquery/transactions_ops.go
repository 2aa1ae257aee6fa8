package bigquery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

// TransactionFilter narrows QueryTransactions. Zero values match everything.
type TransactionFilter struct {
	From     time.Time
	To       time.Time
	Category string // case-insensitive substring
	Source   domain.Source
	Limit    int
}

// InsertTransactions stores a batch, skipping rows whose deterministic ID is
// already present. It returns the number of rows actually inserted, so
// re-ingesting an already stored file reports zero.
func (c *Client) InsertTransactions(ctx context.Context, rows []*TransactionRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.TransactionID
	}
	existing, err := c.existingTransactionIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("InsertTransactions: %w", err)
	}

	var fresh []*TransactionRow
	for _, r := range rows {
		if !existing[r.TransactionID] {
			fresh = append(fresh, r)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := c.table(transactionsTable).Inserter().Put(ctx, fresh); err != nil {
		return 0, fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}
	return len(fresh), nil
}

func (c *Client) existingTransactionIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	q := c.bq.Query(fmt.Sprintf(`
		SELECT transaction_id
		FROM %s
		WHERE transaction_id IN UNNEST(@ids)
	`, c.qualified(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "ids", Value: ids},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("existing ids query: %w", err)
	}

	existing := make(map[string]bool)
	for {
		var row struct {
			TransactionID string `bigquery:"transaction_id"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("existing ids iter: %w", err)
		}
		existing[row.TransactionID] = true
	}
	return existing, nil
}

// QueryTransactions returns stored rows matching the filter, ordered by
// transaction date then insertion time.
func (c *Client) QueryTransactions(ctx context.Context, filter TransactionFilter) ([]*TransactionRow, error) {
	var (
		conds  []string
		params []bigquery.QueryParameter
	)
	if !filter.From.IsZero() {
		conds = append(conds, "transaction_date >= @from_date")
		params = append(params, bigquery.QueryParameter{Name: "from_date", Value: filter.From.Format(dateFormat)})
	}
	if !filter.To.IsZero() {
		conds = append(conds, "transaction_date <= @to_date")
		params = append(params, bigquery.QueryParameter{Name: "to_date", Value: filter.To.Format(dateFormat)})
	}
	if filter.Category != "" {
		conds = append(conds, "LOWER(category) LIKE @category")
		params = append(params, bigquery.QueryParameter{Name: "category", Value: "%" + strings.ToLower(filter.Category) + "%"})
	}
	if filter.Source != "" {
		conds = append(conds, "source = @source")
		params = append(params, bigquery.QueryParameter{Name: "source", Value: string(filter.Source)})
	}

	query := fmt.Sprintf("SELECT * FROM %s", c.qualified(transactionsTable))
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY transaction_date, created_ts"
	if filter.Limit > 0 {
		query += " LIMIT @limit"
		params = append(params, bigquery.QueryParameter{Name: "limit", Value: int64(filter.Limit)})
	}

	q := c.bq.Query(query)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryTransactions: query read: %w", err)
	}

	var rows []*TransactionRow
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryTransactions: iter next: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}

// QueryDomainTransactions is QueryTransactions converted to the canonical
// shape, which is what the analytics engine consumes.
func (c *Client) QueryDomainTransactions(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error) {
	rows, err := c.QueryTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	txs := make([]*domain.Transaction, len(rows))
	for i, r := range rows {
		txs[i] = r.ToTransaction()
	}
	return txs, nil
}

// SearchByEmbedding returns the transactions nearest to the query vector by
// cosine distance, best match first. Rows stored without an embedding are
// never returned.
func (c *Client) SearchByEmbedding(ctx context.Context, vector []float64, limit int) ([]*domain.Transaction, error) {
	q := c.bq.Query(fmt.Sprintf(`
		SELECT * EXCEPT (distance)
		FROM (
			SELECT t.*, ML.DISTANCE(t.embedding, @query_vector, 'COSINE') AS distance
			FROM %s t
			WHERE ARRAY_LENGTH(t.embedding) > 0
		)
		ORDER BY distance
		LIMIT @limit
	`, c.qualified(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "query_vector", Value: vector},
		{Name: "limit", Value: int64(limit)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("SearchByEmbedding: query read: %w", err)
	}

	var txs []*domain.Transaction
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("SearchByEmbedding: iter next: %w", err)
		}
		txs = append(txs, r.ToTransaction())
	}
	return txs, nil
}
