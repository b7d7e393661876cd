package store

import (
	"net/url"
	"strings"

	"github.com/lukman83/offerscrap/internal/models"
	"github.com/lukman83/offerscrap/internal/pricing"
)

// Normalize converts one raw card into an offer. It is pure: the same card
// and origin always produce the same offer.
func Normalize(store models.StoreID, c RawCard, origin *url.URL) models.Offer {
	priceText := visiblePrice(c)

	o := models.Offer{
		Store:       store,
		Name:        models.StringPtr(c.Name),
		Description: models.StringPtr(c.Description),
		ImageURL:    models.StringPtr(c.Image),
		ProductURL:  resolveLink(origin, c.Link),
		PriceText:   models.StringPtr(priceText),
	}

	// visible text first, structured data only when the text yields nothing
	p, ok := pricing.ParseUnitPrice(priceText)
	if !ok {
		if v, sok := pricing.ParseNumber(c.StructuredPrice); sok {
			p, ok = pricing.Price{Value: pricing.Round2(v), Unit: pricing.UnitEach}, true
		}
	}
	if ok {
		o.UnitPrice = &p.Value
		o.Unit = &p.Unit
	}

	fine := strings.TrimSpace(c.Description + " " + c.Promo)
	if v, ok := pricing.ExtractOrdPrice(fine); ok {
		o.OrdPrice = &v
	}
	if v, ok := pricing.ParseSaveAmount(fine); ok {
		o.SaveAmount = &v
	}
	if n, ok := pricing.ParseMaxQty(fine); ok {
		o.MaxQty = &n
	}
	o.PercentOff = pricing.CalcPercentOff(o.OrdPrice, o.UnitPrice)

	return o
}

// NormalizeAll normalizes cards in order and drops those that carry nothing
// identifiable.
func NormalizeAll(store models.StoreID, cards []RawCard, origin *url.URL) []models.Offer {
	offers := make([]models.Offer, 0, len(cards))
	for _, c := range cards {
		o := Normalize(store, c, origin)
		if o.IsEmpty() {
			continue
		}
		offers = append(offers, o)
	}
	return offers
}

func visiblePrice(c RawCard) string {
	if c.PriceText != "" {
		return c.PriceText
	}
	if c.PriceValue == "" {
		return ""
	}
	if c.PricePrefix == "" {
		return c.PriceValue
	}
	// the split splash draws the currency as a graphic, so "5 för" + "145"
	// is a multi-buy total in kronor
	if strings.HasSuffix(strings.ToLower(c.PricePrefix), "för") && isAmount(c.PriceValue) {
		return c.PricePrefix + " " + c.PriceValue + " kr"
	}
	return c.PricePrefix + " " + c.PriceValue
}

func isAmount(s string) bool {
	return s != "" && strings.Trim(s, "0123456789:.,") == ""
}

// pageOrigin returns scheme://host/ of a page URL.
func pageOrigin(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, nil
}

func resolveLink(origin *url.URL, href string) *string {
	if href == "" {
		return nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	if !ref.IsAbs() {
		if origin == nil || origin.Host == "" {
			return nil
		}
		ref = origin.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return nil
	}
	s := ref.String()
	return &s
}
