package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dvloznov/financial-analyzer/internal/analytics"
	"github.com/dvloznov/financial-analyzer/internal/config"
	"github.com/dvloznov/financial-analyzer/internal/domain"
	"github.com/dvloznov/financial-analyzer/internal/embedding"
	"github.com/dvloznov/financial-analyzer/internal/gcsuploader"
	infra "github.com/dvloznov/financial-analyzer/internal/infra/bigquery"
	"github.com/dvloznov/financial-analyzer/internal/logger"
)

const dateFormat = "2006-01-02"

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "financial-analyzer",
		Short:         "Query and analyze normalized bank transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file (defaults and env vars apply when omitted)")

	root.AddCommand(
		newSpendingCmd(),
		newCompareCmd(),
		newCategorizeCmd(),
		newReportCmd(),
		newSearchCmd(),
		newUploadCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads config and builds a context carrying the logger. Every
// subcommand goes through here so --config and LOG_LEVEL behave the same.
func setup() (context.Context, context.CancelFunc, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.NewWithLevel(cfg.LogLevel)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	ctx = logger.WithContext(ctx, log)
	return ctx, cancel, cfg, nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	t, err := time.Parse(dateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q, expected YYYY-MM-DD", name, value)
	}
	return t, nil
}

func parseRange(fromFlag, toFlag, from, to string) (analytics.DateRange, error) {
	f, err := parseDateFlag(fromFlag, from)
	if err != nil {
		return analytics.DateRange{}, err
	}
	t, err := parseDateFlag(toFlag, to)
	if err != nil {
		return analytics.DateRange{}, err
	}
	if t.Before(f) {
		return analytics.DateRange{}, fmt.Errorf("--%s must not be before --%s", toFlag, fromFlag)
	}
	return analytics.DateRange{From: f, To: t}, nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func newSpendingCmd() *cobra.Command {
	var from, to, category, source string

	cmd := &cobra.Command{
		Use:   "spending",
		Short: "Aggregate expense totals by category and currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := parseRange("from", "to", from, to)
			if err != nil {
				return err
			}

			var src domain.Source
			if source != "" {
				if src = domain.ParseSource(source); src == domain.SourceUnknown {
					return fmt.Errorf("unknown source %q", source)
				}
			}

			ctx, cancel, cfg, err := setup()
			if err != nil {
				return err
			}
			defer cancel()

			store, err := infra.NewClient(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Dataset)
			if err != nil {
				return err
			}
			defer store.Close()

			txs, err := store.QueryDomainTransactions(ctx, infra.TransactionFilter{From: rng.From, To: rng.To, Source: src})
			if err != nil {
				return err
			}

			analysis, err := analytics.AnalyzeSpending(txs, analytics.SpendingFilter{
				Category: category,
				Range:    rng,
				Source:   src,
			})
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Category", "Currency", "Count", "Total", "Average", "Min", "Max"})
			for _, g := range analysis.Groups {
				table.Append([]string{
					g.Category, g.Currency, fmt.Sprintf("%d", g.Count),
					money(g.Total), money(g.Average), money(g.Min), money(g.Max),
				})
			}
			table.Render()

			fmt.Println()
			for currency, total := range analysis.GrandTotals {
				fmt.Printf("Total %s: %s\n", currency, money(total))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Range start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Range end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "Case-insensitive category substring filter")
	cmd.Flags().StringVar(&source, "source", "", "Statement source filter (e.g. nu_credit)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var fromA, toA, fromB, toB, category string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare expense totals between two date ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			rangeA, err := parseRange("from-a", "to-a", fromA, toA)
			if err != nil {
				return err
			}
			rangeB, err := parseRange("from-b", "to-b", fromB, toB)
			if err != nil {
				return err
			}

			ctx, cancel, cfg, err := setup()
			if err != nil {
				return err
			}
			defer cancel()

			store, err := infra.NewClient(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Dataset)
			if err != nil {
				return err
			}
			defer store.Close()

			// One query spanning both ranges, comparison filters in memory.
			from, to := rangeA.From, rangeA.To
			if rangeB.From.Before(from) {
				from = rangeB.From
			}
			if rangeB.To.After(to) {
				to = rangeB.To
			}
			txs, err := store.QueryDomainTransactions(ctx, infra.TransactionFilter{From: from, To: to})
			if err != nil {
				return err
			}

			comparison, err := analytics.ComparePeriods(txs, rangeA, rangeB, category)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Currency", "Period A", "Period B", "Change", "Change %"})
			for _, c := range comparison.Currencies {
				table.Append([]string{
					c.Currency,
					money(c.A.Total), money(c.B.Total),
					money(c.ChangeAmount), fmt.Sprintf("%.1f%%", c.ChangePercent),
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&fromA, "from-a", "", "First range start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toA, "to-a", "", "First range end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&fromB, "from-b", "", "Second range start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toB, "to-b", "", "Second range end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "Case-insensitive category substring filter")
	cmd.MarkFlagRequired("from-a")
	cmd.MarkFlagRequired("to-a")
	cmd.MarkFlagRequired("from-b")
	cmd.MarkFlagRequired("to-b")
	return cmd
}

func newCategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <description>",
		Short: "Suggest a category for a transaction description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Advisory only, works without project credentials.
			rules := analytics.DefaultRules()
			if cfg, err := config.Load(configPath); err == nil {
				rules = cfg.Rules
			}

			categorizer := analytics.NewCategorizer(rules)
			description := strings.Join(args, " ")
			category, keyword := categorizer.Categorize(description)

			if keyword == "" {
				fmt.Printf("%s (no keyword matched)\n", category)
				return nil
			}
			fmt.Printf("%s (matched %q)\n", category, keyword)
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	var from, to string
	var bySource bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate an income/expense report for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := parseRange("from", "to", from, to)
			if err != nil {
				return err
			}

			ctx, cancel, cfg, err := setup()
			if err != nil {
				return err
			}
			defer cancel()

			store, err := infra.NewClient(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Dataset)
			if err != nil {
				return err
			}
			defer store.Close()

			txs, err := store.QueryDomainTransactions(ctx, infra.TransactionFilter{From: rng.From, To: rng.To})
			if err != nil {
				return err
			}

			report, err := analytics.GenerateReport(txs, rng, bySource)
			if err != nil {
				return err
			}

			fmt.Printf("Report %s\n\n", rng)

			fmt.Println("Income:")
			for _, inc := range report.Income {
				fmt.Printf("  %s %s (%d transactions)\n", money(inc.Total), inc.Currency, inc.Count)
			}

			fmt.Println("\nExpenses by category:")
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Category", "Currency", "Count", "Total"})
			for _, g := range report.ExpenseByCategory {
				table.Append([]string{g.Category, g.Currency, fmt.Sprintf("%d", g.Count), money(g.Total)})
			}
			table.Render()

			fmt.Println("\nNet:")
			for currency, net := range report.Net {
				fmt.Printf("  %s %s\n", money(net), currency)
			}

			for _, src := range report.BySource {
				fmt.Printf("\nSource %s:\n", src.Source)
				for _, inc := range src.Income {
					fmt.Printf("  income  %s %s (%d)\n", money(inc.Total), inc.Currency, inc.Count)
				}
				for _, exp := range src.Expense {
					fmt.Printf("  expense %s %s (%d)\n", money(exp.Total), exp.Currency, exp.Count)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Range start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Range end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&bySource, "by-source", false, "Break totals down per statement source")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search over transaction descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, cfg, err := setup()
			if err != nil {
				return err
			}
			defer cancel()

			if cfg.Embedding.Disabled {
				return fmt.Errorf("semantic search requires embeddings, but embedding is disabled in config")
			}

			store, err := infra.NewClient(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Dataset)
			if err != nil {
				return err
			}
			defer store.Close()

			embedder, err := embedding.NewGemini(ctx, cfg.Embedding.Model)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			matches, err := analytics.SemanticSearch(ctx, embedder, store, query, limit)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "Date", "Description", "Amount", "Currency", "Category"})
			for _, m := range matches {
				tx := m.Transaction
				table.Append([]string{
					fmt.Sprintf("%d", m.Rank),
					tx.Date.Format(dateFormat),
					tx.Description,
					money(tx.Amount),
					tx.Currency,
					tx.Category,
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of matches")
	return cmd
}

func newUploadCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a statement file to the configured GCS bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, cfg, err := setup()
			if err != nil {
				return err
			}
			defer cancel()

			if cfg.GCS.Bucket == "" {
				return fmt.Errorf("no GCS bucket configured, set gcs.bucket or GCS_BUCKET")
			}

			uri, err := gcsuploader.UploadStatement(ctx, cfg.GCS.Bucket, cfg.GCS.Prefix, filePath)
			if err != nil {
				return err
			}

			fmt.Printf("Uploaded %s to %s\n", filePath, uri)
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Path to the local statement file")
	cmd.MarkFlagRequired("file")
	return cmd
}
