package analytics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

func TestGenerateReport(t *testing.T) {
	txs := sampleTransactions()

	report, err := GenerateReport(txs, july(1, 31), false)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	if len(report.Income) != 1 || report.Income[0].Currency != "MXN" || report.Income[0].Total != 5000.00 {
		t.Errorf("Income = %+v, want one MXN entry of 5000", report.Income)
	}

	// Net per currency: income minus expense, transfers excluded.
	if got := report.Net["MXN"]; math.Abs(got-4510.00) > 1e-9 {
		t.Errorf("MXN net = %v, want 4510", got)
	}
	if got := report.Net["USD"]; got != -25.00 {
		t.Errorf("USD net = %v, want -25", got)
	}

	if report.ExpenseByCategory[0].Category != "Food" || report.ExpenseByCategory[0].Total != 230.00 {
		t.Errorf("top expense group = %+v, want Food 230", report.ExpenseByCategory[0])
	}
	if report.BySource != nil {
		t.Error("BySource populated without includeSources")
	}
}

func TestGenerateReportBySource(t *testing.T) {
	report, err := GenerateReport(sampleTransactions(), july(1, 31), true)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if len(report.BySource) != 3 {
		t.Fatalf("got %d sources, want 3: %+v", len(report.BySource), report.BySource)
	}

	// Sorted by source identifier, so bbva_debit comes first.
	bbva := report.BySource[0]
	if bbva.Source != domain.SourceBBVADebit {
		t.Fatalf("first source = %s", bbva.Source)
	}
	if len(bbva.Income) != 1 || bbva.Income[0].Total != 5000.00 {
		t.Errorf("bbva income = %+v", bbva.Income)
	}
	if len(bbva.Expense) != 1 || bbva.Expense[0].Total != 260.00 {
		t.Errorf("bbva expense = %+v", bbva.Expense)
	}
}

func TestGenerateReportDateRange(t *testing.T) {
	report, err := GenerateReport(sampleTransactions(), july(1, 2), false)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if len(report.Income) != 0 {
		t.Errorf("Income = %+v, want none in range", report.Income)
	}
	if got := report.Net["MXN"]; got != -230.00 {
		t.Errorf("MXN net = %v, want -230", got)
	}
}

func TestGenerateReportNoData(t *testing.T) {
	_, err := GenerateReport(sampleTransactions(), july(20, 31), false)
	if !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float64, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return m.embedFn(ctx, text)
}

type mockSearcher struct {
	searchFn func(ctx context.Context, vector []float64, limit int) ([]*domain.Transaction, error)
}

func (m *mockSearcher) SearchByEmbedding(ctx context.Context, vector []float64, limit int) ([]*domain.Transaction, error) {
	return m.searchFn(ctx, vector, limit)
}

func TestSemanticSearch(t *testing.T) {
	want := []*domain.Transaction{
		tx(1, "Food", -150.00, domain.TypeExpense, "MXN", domain.SourceNuCredit),
		tx(2, "Food", -80.00, domain.TypeExpense, "MXN", domain.SourceNuCredit),
	}

	embedder := &mockEmbedder{
		embedFn: func(_ context.Context, text string) ([]float64, error) {
			if text != "coffee shops" {
				t.Errorf("embedded text = %q", text)
			}
			return []float64{0.1, 0.2}, nil
		},
	}
	searcher := &mockSearcher{
		searchFn: func(_ context.Context, vector []float64, limit int) ([]*domain.Transaction, error) {
			if len(vector) != 2 {
				t.Errorf("vector = %v", vector)
			}
			if limit != defaultSearchLimit {
				t.Errorf("limit = %d, want default %d", limit, defaultSearchLimit)
			}
			return want, nil
		},
	}

	matches, err := SemanticSearch(context.Background(), embedder, searcher, "coffee shops", 0)
	if err != nil {
		t.Fatalf("SemanticSearch: %v", err)
	}
	if len(matches) != 2 || matches[0].Rank != 1 || matches[1].Rank != 2 {
		t.Errorf("matches = %+v", matches)
	}
}

func TestSemanticSearchErrors(t *testing.T) {
	embedErr := errors.New("quota exceeded")
	embedder := &mockEmbedder{
		embedFn: func(context.Context, string) ([]float64, error) { return nil, embedErr },
	}
	_, err := SemanticSearch(context.Background(), embedder, &mockSearcher{}, "x", 5)
	if !errors.Is(err, embedErr) {
		t.Fatalf("err = %v, want wrapped embed error", err)
	}

	embedder.embedFn = func(context.Context, string) ([]float64, error) { return []float64{1}, nil }
	searcher := &mockSearcher{
		searchFn: func(context.Context, []float64, int) ([]*domain.Transaction, error) { return nil, nil },
	}
	_, err = SemanticSearch(context.Background(), embedder, searcher, "x", 5)
	if !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}
