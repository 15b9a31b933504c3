package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNilProduct = errors.New("product is required")
)

// Product represents a catalog item shown in a showcase slot
type Product struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// DisplayPrice renders the product price the way slot panels show it
func (p *Product) DisplayPrice() string {
	return FormatPrice(p.Price)
}

// FormatPrice renders a price with a currency prefix and exactly two decimals
func FormatPrice(price decimal.Decimal) string {
	return "$ " + price.StringFixed(2)
}

// ParsePrice parses a user supplied price
func ParsePrice(input string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(input))
}
