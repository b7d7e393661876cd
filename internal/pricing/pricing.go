// Package pricing turns the price text found on Swedish grocery offer cards
// into numbers. Every function here is pure.
package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// UnitEach is the unit used for prices quoted per item.
const UnitEach = "st"

var (
	// "5 för 145 kr", "2 för 35:-", "2 för 49,90". The total needs a currency
	// marker or decimals, so the "3 för 2" deal is not read as a price.
	reMultiBuy = regexp.MustCompile(`(?i)(\d+)\s*för\s*(\d+(?:[:.,]\d{1,2})?)\s*(kr\b|:-)?`)

	// "69:90/kg", "69,90 kr /kg", "12.50/l"
	rePerUnit = regexp.MustCompile(`(?i)(\d[\d:.,]*)\s*(?:kr)?\s*/\s*(\p{L}+)`)

	// "41:90 kr", "25:-", "1 299 kr"
	reSingle = regexp.MustCompile(`(?i)(\d{1,3}(?: \d{3})+(?:[:.,]\d+)?|\d[\d:.,]*?)\s*(?:kr\b|:-)`)

	// "33:90" with nothing else around it
	reBare = regexp.MustCompile(`^(\d+(?:[:.,]\d+)?)(?::-)?$`)

	// "Ord.pris 41:90 kr", "Ord pris: 41,90"
	reOrdPrice = regexp.MustCompile(`(?i)ord\.?\s*pris\s*:?\s*(\d[\d:.,]*)`)

	// "Spara 10 kr", "Spara 8:90"
	reSaveAmount = regexp.MustCompile(`(?i)spara\s*:?\s*(\d[\d:.,]*)`)

	// "Max 3 köp", "Max 2 st/hushåll"
	reMaxQty = regexp.MustCompile(`(?i)max\s*(\d+)\s*(?:köp|kop|st\b)`)
)

// Price is a current price and the unit it is quoted in.
type Price struct {
	Value float64
	Unit  string
}

type strategy func(text string) (Price, bool)

// strategies are tried in order; the first match wins.
var strategies = []strategy{
	parseMultiBuy,
	parsePerUnit,
	parseSingle,
	parseBare,
}

// ParseUnitPrice normalizes a visible price string. It reports false when the
// text matches none of the known formats.
func ParseUnitPrice(text string) (Price, bool) {
	t := normalizeSpaces(text)
	if t == "" {
		return Price{}, false
	}
	for _, s := range strategies {
		if p, ok := s(t); ok {
			return p, true
		}
	}
	return Price{}, false
}

func parseMultiBuy(t string) (Price, bool) {
	m := reMultiBuy.FindStringSubmatch(t)
	if m == nil {
		return Price{}, false
	}
	if m[3] == "" && !strings.ContainsAny(m[2], ":.,") {
		return Price{}, false
	}
	qty, err := strconv.Atoi(m[1])
	if err != nil || qty <= 0 {
		return Price{}, false
	}
	total, ok := ParseNumber(m[2])
	if !ok {
		return Price{}, false
	}
	return Price{Value: Round2(total / float64(qty)), Unit: UnitEach}, true
}

func parsePerUnit(t string) (Price, bool) {
	m := rePerUnit.FindStringSubmatch(t)
	if m == nil {
		return Price{}, false
	}
	v, ok := ParseNumber(m[1])
	if !ok {
		return Price{}, false
	}
	return Price{Value: Round2(v), Unit: strings.ToLower(m[2])}, true
}

func parseSingle(t string) (Price, bool) {
	m := reSingle.FindStringSubmatch(t)
	if m == nil {
		return Price{}, false
	}
	v, ok := ParseNumber(m[1])
	if !ok {
		return Price{}, false
	}
	return Price{Value: Round2(v), Unit: UnitEach}, true
}

func parseBare(t string) (Price, bool) {
	m := reBare.FindStringSubmatch(t)
	if m == nil {
		return Price{}, false
	}
	v, ok := ParseNumber(m[1])
	if !ok {
		return Price{}, false
	}
	return Price{Value: Round2(v), Unit: UnitEach}, true
}

// ExtractOrdPrice finds the ordinary (pre-discount) price in promotional text.
func ExtractOrdPrice(text string) (float64, bool) {
	return phraseAmount(reOrdPrice, text)
}

// ParseSaveAmount finds the "Spara <amount>" savings figure.
func ParseSaveAmount(text string) (float64, bool) {
	return phraseAmount(reSaveAmount, text)
}

// ParseMaxQty finds a purchase limit such as "Max 3 köp".
func ParseMaxQty(text string) (int, bool) {
	m := reMaxQty.FindStringSubmatch(normalizeSpaces(text))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func phraseAmount(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(normalizeSpaces(text))
	if m == nil {
		return 0, false
	}
	v, ok := ParseNumber(m[1])
	if !ok {
		return 0, false
	}
	return Round2(v), true
}

// CalcPercentOff derives the discount from an ordinary and a current price.
// It returns nil unless both are present, finite and ord is positive.
func CalcPercentOff(ord, unit *float64) *float64 {
	if ord == nil || unit == nil {
		return nil
	}
	if !finite(*ord) || !finite(*unit) || *ord <= 0 {
		return nil
	}
	pct := Round2((*ord - *unit) / *ord * 100)
	if !finite(pct) {
		return nil
	}
	return &pct
}

// ParseNumber parses a Swedish-formatted amount. Whitespace is removed and a
// comma or colon is accepted as the decimal separator ("69:90", "69,90").
func ParseNumber(s string) (float64, bool) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimRight(s, ".,:")
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer(",", ".", ":", ".").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
