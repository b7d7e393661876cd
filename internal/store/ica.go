package store

import "github.com/lukman83/offerscrap/internal/models"

const ICADomain = "ica.se"

// ICASelectors reads ICA offer cards. The price splash carries a screen
// reader rendering of the whole price; the split prefix/value pair is the
// fallback.
//
// ICA exposes no data-testid anchors on offer cards, so apart from the
// itemprop price these class selectors are best-effort and break when ICA
// renames its BEM classes.
var ICASelectors = SelectorSet{
	Card:        "article.offer-card",
	Name:        Lookup{{Selector: "p.offer-card__title"}, {Selector: "h2"}, {Selector: "h3"}},
	Description: Lookup{{Selector: "p.offer-card__text"}},
	Image: Lookup{
		{Selector: "img.offer-card__image-inner", Attr: "src"},
		{Selector: "img.offer-card__image-inner", Attr: "data-src"},
		{Selector: "img", Attr: "src"},
	},
	Link:            Lookup{{Selector: "a[href]", Attr: "href"}},
	PriceText:       Lookup{{Selector: ".price-splash .sr-only"}},
	PricePrefix:     Lookup{{Selector: ".price-splash__text__prefix"}},
	PriceValue:      Lookup{{Selector: ".price-splash__text__firstValue"}},
	StructuredPrice: Lookup{{Selector: `[itemprop="price"]`, Attr: "content"}},
	Promo:           Lookup{{Selector: ".offer-card__details"}, {Selector: ".offer-card__disclaimer"}},
}

// NewICA returns the ICA adapter. ICA offer pages need no session setup.
func NewICA(opts Options) *Adapter {
	return NewAdapter(models.StoreICA, ICADomain, ICASelectors, nil, opts)
}
