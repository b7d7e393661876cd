package scrape

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/lukman83/offerscrap/internal/models"
)

// Sort keys accepted by SortOffers.
const (
	SortNone    = ""
	SortPrice   = "price"
	SortPercent = "percent"
)

// SortOffers orders offers in place: by ascending unit price, or by
// descending percent off. Offers missing the key keep their relative order
// after the others.
func SortOffers(offers []models.Offer, by string) error {
	switch by {
	case SortNone:
		return nil
	case SortPrice:
		slices.SortStableFunc(offers, func(a, b models.Offer) int {
			return compareMissingLast(a.UnitPrice, b.UnitPrice, false)
		})
	case SortPercent:
		slices.SortStableFunc(offers, func(a, b models.Offer) int {
			return compareMissingLast(a.PercentOff, b.PercentOff, true)
		})
	default:
		return fmt.Errorf("unknown sort key %q (want %q or %q)", by, SortPrice, SortPercent)
	}
	return nil
}

func compareMissingLast(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case desc:
		return cmp.Compare(*b, *a)
	default:
		return cmp.Compare(*a, *b)
	}
}
