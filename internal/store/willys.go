package store

import (
	"time"

	"github.com/lukman83/offerscrap/internal/models"
)

const (
	WillysDomain = "willys.se"

	// DefaultWillysLocation is the store picked when none is configured.
	DefaultWillysLocation = "Willys Växjö I11"
)

// WillysSelectors reads Willys product tiles. Promo fine print has no
// stable class, so the whole tile text is used.
var WillysSelectors = SelectorSet{
	Card:        `[data-testid="product"]`,
	Name:        Lookup{{Selector: `[itemprop="name"]`}},
	Description: Lookup{{Selector: `[itemprop="brand"]`}},
	Image: Lookup{
		{Selector: `img[itemprop="image"]`, Attr: "src"},
		{Selector: "img", Attr: "src"},
	},
	Link: Lookup{
		{Selector: `a[href*="/erbjudanden/"]`, Attr: "href"},
		{Selector: `a[href*="/produkt/"]`, Attr: "href"},
		{Selector: "a[href]", Attr: "href"},
	},
	PriceText:       Lookup{{Selector: `[data-testid^="product-price-"]`}},
	StructuredPrice: Lookup{{Selector: `[itemprop="offers"] [itemprop="price"]`, Attr: "content"}},
	Promo:           Lookup{{Self: true}},
}

// WillysStoreSelection picks location in the Willys store picker.
func WillysStoreSelection(location string) StoreSelection {
	if location == "" {
		location = DefaultWillysLocation
	}
	return StoreSelection{
		Store:         models.StoreWillys,
		ConsentButton: "#onetrust-accept-btn-handler",
		ConsentText:   "Acceptera",
		ConsentPause:  300 * time.Millisecond,
		OpenText:      "Välj butik",
		SearchInput:   `input[aria-label="Sök efter din butik"]`,
		ResultItem:    `[data-testid="pickup-location-list-item"]`,
		Location:      location,
		WaitTimeout:   10 * time.Second,
		AfterSelect:   1200 * time.Millisecond,
	}
}

// NewWillys returns the Willys adapter. Offers depend on the selected
// store, so the first scrape in a session runs the store picker.
func NewWillys(location string, opts Options) *Adapter {
	return NewAdapter(models.StoreWillys, WillysDomain, WillysSelectors, WillysStoreSelection(location), opts)
}
