package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/navdash"
	"github.com/etnz/navdash/viewer"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// Labels of the portfolio viewer.
const (
	LoadingLabel = "Loading..."
	BackLabel    = "← Back to Portfolio List"
)

// ViewerMarkdown renders the portfolio viewer in its current mode. Amounts are formatted
// in currency, USD if empty.
func ViewerMarkdown(v viewer.View, currency string) string {
	switch v.Mode {
	case viewer.LoadingMode:
		return LoadingLabel + "\n"
	case viewer.DetailMode:
		return DetailMarkdown(v.Detail, currency)
	default:
		return ListMarkdown(v.Portfolios, currency)
	}
}

// ListMarkdown renders one card per portfolio, numbered from 1 in list order.
func ListMarkdown(portfolios []navdash.Portfolio, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("My Portfolio")
	blank(doc)
	doc.PlainText("[Add Portfolio]")

	for i, p := range portfolios {
		blank(doc)
		doc.H3(fmt.Sprintf("%d. %s", i+1, p.MutualFund.Name))
		blank(doc)
		doc.BulletList(
			"Mutual Fund Name: "+p.MutualFund.Name,
			"Investment Value: "+navdash.FormatCurrency(p.Value, currency),
			"Purchase Date: "+p.Date.String(),
		)
		blank(doc)
		doc.PlainText("[View Details] [Edit]")
	}
	return doc.String()
}

// DetailMarkdown renders the NAV history of a portfolio.
func DetailMarkdown(d *navdash.PortfolioDetail, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.PlainText(BackLabel)
	blank(doc)
	if d == nil {
		doc.PlainText("No detail loaded.")
		return doc.String()
	}

	doc.H2(d.ProductName)
	blank(doc)
	doc.BulletList(
		"Investment Value: "+navdash.FormatCurrency(d.Portfolio.Value, currency),
		"Date: "+d.Portfolio.Date.String(),
	)
	blank(doc)

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "NAV Value", "Daily Increase", "Daily Increase %", "Daily Profit", "Accumulated Profit", "Total Balance"},
		Rows:   [][]string{},
	}
	for _, r := range d.NavSeries {
		table.Rows = append(table.Rows, []string{
			r.Date.String(),
			navdash.FormatNAV(r.Value),
			raw(r.DailyChange),
			raw(r.DailyChangePercent) + "%",
			raw(r.DailyProfit),
			raw(r.AccumulatedProfit),
			raw(r.TotalBalance),
		})
	}
	doc.Table(table)
	return doc.String()
}

// raw prints a value as received from the service.
func raw(v decimal.Decimal) string { return v.String() }
