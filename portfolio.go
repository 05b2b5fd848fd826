package navdash

import (
	"github.com/etnz/navdash/date"
	"github.com/shopspring/decimal"
)

// User is the authenticated user greeted by the dashboard. It is supplied by the caller
// and never persisted.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt date.Date `json:"created_at"`
}

// Credentials are the values typed in the login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MutualFund is the product a portfolio is invested in.
type MutualFund struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Portfolio is a single investment position in a mutual fund.
type Portfolio struct {
	ID         int64           `json:"id"`
	MutualFund MutualFund      `json:"mutual_fund"`
	Value      decimal.Decimal `json:"value"`
	Date       date.Date       `json:"date"` // acquisition date
}

// NavRecord is the valuation of a portfolio on one day.
type NavRecord struct {
	Date               date.Date       `json:"date"`
	Value              decimal.Decimal `json:"value"` // NAV per unit
	DailyChange        decimal.Decimal `json:"kenaikan_hari_ini"`
	DailyChangePercent decimal.Decimal `json:"persen_kenaikan_hari_ini"`
	DailyProfit        decimal.Decimal `json:"keuntungan_hari_ini"`
	AccumulatedProfit  decimal.Decimal `json:"akumulasi_keuntungan"`
	TotalBalance       decimal.Decimal `json:"total_balance"`
}

// PortfolioDetail is the NAV history of one portfolio, as returned by the detail endpoint.
type PortfolioDetail struct {
	NavSeries   []NavRecord `json:"nav_data"`
	Portfolio   Portfolio   `json:"portfolio"`
	ProductName string      `json:"product_name"`
}

// FormatNAV formats a NAV value with four decimals.
func FormatNAV(v decimal.Decimal) string { return v.StringFixed(4) }
