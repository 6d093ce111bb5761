package render

import (
	"fmt"
	"io"

	"cryptowatch/internal/domain/entity"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// EmptyWalletMessage is printed instead of a table when nothing is tracked.
const EmptyWalletMessage = "Your wallet is empty. Add addresses or a balance to start tracking a coin."

const columnGap = 2

var (
	cellStyle    = lipgloss.NewStyle().PaddingRight(columnGap)
	numericStyle = cellStyle.Align(lipgloss.Right)
)

// Table writes the report as an aligned text table followed by the totals line.
// Coins whose address data is missing are listed below the table. No colours or
// borders are emitted, so the output stays readable when piped.
func Table(w io.Writer, report entity.Report) error {
	if report.Empty {
		_, err := fmt.Fprintln(w, EmptyWalletMessage)
		return err
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return cellStyle
			}
			return numericStyle
		}).
		Headers("Coin", "Amount", "USD-value", "BTC-value")
	for _, row := range report.Rows {
		t.Row(row.Symbol, row.Amount.String(), row.ValueUSD.String(), row.ValueBase.String())
	}
	t.Row("Total", "", report.TotalUSD.String(), report.TotalBase.String())

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}

	for _, row := range report.Rows {
		if note := lookupNote(row.Lookup); note != "" {
			if _, err := fmt.Fprintf(w, "  * %s: %s\n", row.Symbol, note); err != nil {
				return err
			}
		}
	}
	return nil
}

func lookupNote(s entity.LookupStatus) string {
	switch s {
	case entity.LookupFailed:
		return "address lookup failed, showing manual balance only"
	case entity.LookupPartial:
		return "some addresses could not be looked up"
	case entity.LookupUnsupported:
		return "address lookup is not supported for this coin"
	default:
		return ""
	}
}
