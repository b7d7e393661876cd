package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lukman83/offerscrap/internal/models"
	"github.com/lukman83/offerscrap/internal/scrape"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

func writeResult(w io.Writer, res scrape.Result, format string) error {
	if format == formatTable {
		printOffersTable(w, res.Items)
		printFailures(w, res.Failures)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// printOffersTable prints offers as a table, one row per offer.
func printOffersTable(w io.Writer, offers []models.Offer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Store", "Name", "Price", "Ord. price", "Off", "Max", "Promo"})
	for i, o := range offers {
		t.AppendRow(table.Row{
			i + 1,
			o.Store,
			truncate(deref(o.Name), 36),
			formatUnitPrice(o.UnitPrice, o.Unit),
			formatKr(o.OrdPrice),
			formatPercent(o.PercentOff),
			formatInt(o.MaxQty),
			truncate(deref(o.PriceText), 24),
		})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d offers", len(offers))})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func printFailures(w io.Writer, failures []scrape.Failure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, f := range failures {
		fmt.Fprintf(w, " ! %s %s: %s\n", f.Store, f.URL, f.Error)
	}
}

// formatKr formats an amount the Swedish way, "41,90 kr".
func formatKr(v *float64) string {
	if v == nil {
		return "-"
	}
	return strings.Replace(strconv.FormatFloat(*v, 'f', 2, 64), ".", ",", 1) + " kr"
}

func formatUnitPrice(v *float64, unit *string) string {
	if v == nil {
		return "-"
	}
	s := formatKr(v)
	if unit != nil && *unit != "" {
		s += "/" + *unit
	}
	return s
}

func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 0, 64) + "%"
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
