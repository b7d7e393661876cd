package models

// StoreID identifies the retailer an offer was scraped from.
type StoreID string

const (
	StoreICA     StoreID = "ICA"
	StoreWillys  StoreID = "WILLYS"
	StoreUnknown StoreID = "UNKNOWN"
)

// Offer is the normalized record every store adapter produces.
// Absent values are nil and serialize as null so every record has the same shape.
type Offer struct {
	Store       StoreID  `json:"store"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	ProductURL  *string  `json:"productUrl"`
	PriceText   *string  `json:"priceText"`
	UnitPrice   *float64 `json:"unitPrice"`
	Unit        *string  `json:"unit"`
	OrdPrice    *float64 `json:"ordPrice"`
	PercentOff  *float64 `json:"percentOff"`
	SaveAmount  *float64 `json:"saveAmount"`
	MaxQty      *int     `json:"maxQty"`
}

// IsEmpty reports whether the offer carries none of the fields a reader
// could identify it by.
func (o Offer) IsEmpty() bool {
	return o.Name == nil && o.Description == nil && o.PriceText == nil && o.ImageURL == nil
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
