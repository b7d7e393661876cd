package store

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Field locates one value inside an offer card.
type Field struct {
	// Selector is a CSS selector evaluated relative to the card.
	Selector string
	// Attr names the attribute to read; empty reads the element's text.
	Attr string
	// Self reads from the card element itself instead of a descendant.
	Self bool
}

// Lookup is an ordered list of fields; the first non-empty value wins.
type Lookup []Field

// SelectorSet describes where a store keeps each card field. It is plain
// configuration: one Extract routine serves every store.
type SelectorSet struct {
	Card string

	Name        Lookup
	Description Lookup
	Image       Lookup
	Link        Lookup

	// PriceText is the visible price area. PricePrefix and PriceValue are a
	// split rendering of the same price used when PriceText is empty.
	PriceText   Lookup
	PricePrefix Lookup
	PriceValue  Lookup

	// StructuredPrice is a machine-readable price, e.g. itemprop="price" content.
	StructuredPrice Lookup

	// Promo is extra promotional fine print (ordinary price, limits, savings).
	Promo Lookup
}

// RawCard holds the strings read from one card. Nothing is parsed yet and
// an empty string means the lookup found nothing.
type RawCard struct {
	Name            string
	Description     string
	Image           string
	Link            string
	PriceText       string
	PricePrefix     string
	PriceValue      string
	StructuredPrice string
	Promo           string
}

// Extract returns one RawCard per element matching set.Card, in document order.
func Extract(src string, set SelectorSet) ([]RawCard, error) {
	if set.Card == "" {
		return nil, fmt.Errorf("selector set has no card selector")
	}
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	cards := doc.Find(set.Card)
	out := make([]RawCard, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		out = append(out, RawCard{
			Name:            set.Name.read(card),
			Description:     set.Description.read(card),
			Image:           set.Image.read(card),
			Link:            set.Link.read(card),
			PriceText:       set.PriceText.read(card),
			PricePrefix:     set.PricePrefix.read(card),
			PriceValue:      set.PriceValue.read(card),
			StructuredPrice: set.StructuredPrice.read(card),
			Promo:           set.Promo.read(card),
		})
	})
	return out, nil
}

func (l Lookup) read(card *goquery.Selection) string {
	for _, f := range l {
		if v := f.read(card); v != "" {
			return v
		}
	}
	return ""
}

func (f Field) read(card *goquery.Selection) string {
	sel := card
	if !f.Self {
		if f.Selector == "" {
			return ""
		}
		sel = card.Find(f.Selector).First()
	}
	if sel.Length() == 0 {
		return ""
	}
	if f.Attr != "" {
		v, _ := sel.Attr(f.Attr)
		return strings.TrimSpace(v)
	}
	return cleanText(sel.Text())
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
