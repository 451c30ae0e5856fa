package tools

import (
	"sort"
	"strings"
)

// PriceNotAvailable is returned for destinations outside the catalog.
const PriceNotAvailable = "Price not available"

// DefaultPrices is the return-ticket price list offered by the assistant.
var DefaultPrices = map[string]string{
	"london": "$799",
	"paris":  "$899",
	"tokyo":  "$1400",
	"rome":   "$929",
}

// Catalog maps destination cities to ticket prices. It is read-only after
// construction and safe for concurrent use.
type Catalog struct {
	prices map[string]string
}

// NewCatalog copies prices, normalising keys to lower case.
func NewCatalog(prices map[string]string) *Catalog {
	c := &Catalog{prices: make(map[string]string, len(prices))}
	for city, price := range prices {
		c.prices[normalizeCity(city)] = price
	}
	return c
}

// DefaultCatalog returns a catalog over DefaultPrices.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultPrices)
}

// PriceOf looks the city up case-insensitively. The name is not trimmed.
// Unknown cities yield PriceNotAvailable.
func (c *Catalog) PriceOf(city string) string {
	if price, ok := c.prices[normalizeCity(city)]; ok {
		return price
	}
	return PriceNotAvailable
}

// Cities lists the known destinations in alphabetical order.
func (c *Catalog) Cities() []string {
	cities := make([]string, 0, len(c.prices))
	for city := range c.prices {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

func normalizeCity(city string) string {
	return strings.ToLower(city)
}
