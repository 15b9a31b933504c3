package domain

import (
	"context"
	"errors"
)

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Catalog is the ordered product list in server response order.
// A nil Catalog means the fetch failed.
type Catalog []*Product

// CatalogSource defines the contract for retrieving the product catalog
type CatalogSource interface {
	Fetch(ctx context.Context) (Catalog, error)
}
