package sheets

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ongfinanzas/internal/core"
)

// Formatter renders amounts and timestamps for a report locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a formatter for a BCP 47 locale such as "es-GT".
// An unparsable locale falls back to English.
func NewFormatter(locale, currencySymbol string) *Formatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.English
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: strings.TrimSpace(currencySymbol)}
}

// Amount formats m with two decimals, locale grouping and the currency symbol.
func (f *Formatter) Amount(m core.Money) string {
	n := f.printer.Sprintf("%.2f", m.Decimal().InexactFloat64())
	if f.symbol == "" {
		return n
	}
	return fmt.Sprintf("%s %s", f.symbol, n)
}

// Rows renders the snapshot as spreadsheet rows, header included.
func (f *Formatter) Rows(s Snapshot) [][]any {
	out := make([][]any, 0, len(s.Rows)+3)
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	out = append(out, header)

	var totals core.Balance
	for _, r := range s.Rows {
		out = append(out, []any{
			r.ProjectCode,
			r.ProjectName,
			r.RubroCode,
			r.RubroName,
			f.Amount(r.TotalDonations),
			f.Amount(r.TotalPurchaseOrders),
			f.Amount(r.Balance.Balance),
		})
		totals.TotalDonations = totals.TotalDonations.Add(r.TotalDonations)
		totals.TotalPurchaseOrders = totals.TotalPurchaseOrders.Add(r.TotalPurchaseOrders)
	}
	totals = totals.Settle()

	out = append(out,
		[]any{"", "", "", "Total", f.Amount(totals.TotalDonations), f.Amount(totals.TotalPurchaseOrders), f.Amount(totals.Balance)},
		[]any{"Updated", s.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST")},
	)
	return out
}
