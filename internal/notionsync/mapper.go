package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	infra "github.com/dvloznov/financial-analyzer/internal/infra/bigquery"
)

// TransactionToNotionProperties converts a stored transaction to Notion
// properties. The Transaction ID property carries the deterministic ID the
// sync keys on, the rest mirrors the canonical shape.
func TransactionToNotionProperties(tx *infra.TransactionRow) notionapi.Properties {
	props := notionapi.Properties{
		"Transaction ID": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.TransactionID,
					},
				},
			},
		},
		"Description": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.Description,
					},
				},
			},
		},
		"Date": notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: func() *notionapi.Date {
					d := notionapi.Date(time.Date(
						tx.TransactionDate.Year,
						tx.TransactionDate.Month,
						tx.TransactionDate.Day,
						0, 0, 0, 0, time.UTC,
					))
					return &d
				}(),
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: func() float64 {
				if tx.Amount != nil {
					f, _ := tx.Amount.Float64()
					return f
				}
				return 0
			}(),
		},
		"Currency": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.Currency,
			},
		},
		"Type": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.TxType,
			},
		},
		"Source": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.Source,
			},
		},
	}

	// Category
	if tx.Category.Valid && tx.Category.StringVal != "" {
		props["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.Category.StringVal,
			},
		}
	}

	// Source File
	if tx.SourceFile != "" {
		props["Source File"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.SourceFile,
					},
				},
			},
		}
	}

	// Imported At
	props["Imported At"] = notionapi.DateProperty{
		Date: &notionapi.DateObject{
			Start: (*notionapi.Date)(&tx.CreatedTS),
		},
	}

	return props
}

// extractTransactionID extracts the transaction ID from a Notion page's
// properties. Returns empty string if not found.
func extractTransactionID(page notionapi.Page) string {
	if prop, ok := page.Properties["Transaction ID"]; ok {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if len(title.Title) > 0 {
				return title.Title[0].PlainText
			}
		}
	}
	return ""
}
