package store

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lukman83/offerscrap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

func mustOrigin(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := pageOrigin(raw)
	require.NoError(t, err)
	return u
}

func deref[T any](t *testing.T, p *T) T {
	t.Helper()
	require.NotNil(t, p)
	return *p
}

func TestExtract_ICA(t *testing.T) {
	t.Parallel()

	cards, err := Extract(readFixture(t, "ica_offers.html"), ICASelectors)
	require.NoError(t, err)
	require.Len(t, cards, 4)

	want := RawCard{
		Name:            "Bryggkaffe",
		Description:     "Gevalia. 425-450 g. Max 2 köp/hushåll. Ord.pris 59:95 kr.",
		Image:           "https://assets.icanet.se/kaffe.jpg",
		Link:            "/erbjudanden/kaffe-123/",
		PriceText:       "5 för 145 kr",
		PricePrefix:     "5 för",
		PriceValue:      "145",
		StructuredPrice: "",
		Promo:           "",
	}
	if diff := cmp.Diff(want, cards[0]); diff != "" {
		t.Errorf("first card mismatch (-want +got):\n%s", diff)
	}

	// whitespace collapsed, data-src fallback, empty sr-only
	assert.Equal(t, "Kycklingfilé", cards[1].Name)
	assert.Equal(t, "https://assets.icanet.se/kyckling.jpg", cards[1].Image)
	assert.Empty(t, cards[1].PriceText)
	assert.Equal(t, "69:90/kg", cards[1].PriceValue)

	assert.Equal(t, RawCard{}, cards[2])
}

func TestExtract_NoCards(t *testing.T) {
	t.Parallel()

	cards, err := Extract("<html><body><p>Inga erbjudanden</p></body></html>", ICASelectors)
	require.NoError(t, err)
	assert.Empty(t, cards)

	_, err = Extract("<html></html>", SelectorSet{})
	assert.Error(t, err)
}

func TestNormalizeAll_ICA(t *testing.T) {
	t.Parallel()

	cards, err := Extract(readFixture(t, "ica_offers.html"), ICASelectors)
	require.NoError(t, err)

	offers := NormalizeAll(models.StoreICA, cards, mustOrigin(t, "https://www.ica.se/erbjudanden/ica-kvantum-1003/"))
	require.Len(t, offers, 3, "empty card is dropped")

	kaffe := offers[0]
	assert.Equal(t, models.StoreICA, kaffe.Store)
	assert.Equal(t, "https://www.ica.se/erbjudanden/kaffe-123/", deref(t, kaffe.ProductURL))
	assert.Equal(t, "5 för 145 kr", deref(t, kaffe.PriceText))
	assert.InDelta(t, 29.0, deref(t, kaffe.UnitPrice), 1e-9)
	assert.Equal(t, "st", deref(t, kaffe.Unit))
	assert.InDelta(t, 59.95, deref(t, kaffe.OrdPrice), 1e-9)
	assert.InDelta(t, 51.63, deref(t, kaffe.PercentOff), 1e-9)
	assert.Equal(t, 2, deref(t, kaffe.MaxQty))
	assert.Nil(t, kaffe.SaveAmount)

	kyckling := offers[1]
	assert.Equal(t, "69:90/kg", deref(t, kyckling.PriceText))
	assert.InDelta(t, 69.9, deref(t, kyckling.UnitPrice), 1e-9)
	assert.Equal(t, "kg", deref(t, kyckling.Unit))
	assert.Nil(t, kyckling.OrdPrice)
	assert.Nil(t, kyckling.PercentOff)

	ost := offers[2]
	assert.Equal(t, "Nu 89:-", deref(t, ost.PriceText))
	assert.InDelta(t, 89.0, deref(t, ost.UnitPrice), 1e-9)
	assert.InDelta(t, 20.0, deref(t, ost.SaveAmount), 1e-9)
	assert.Nil(t, ost.ProductURL)
	assert.Nil(t, ost.ImageURL)
}

func TestNormalizeAll_Willys(t *testing.T) {
	t.Parallel()

	cards, err := Extract(readFixture(t, "willys_offers.html"), WillysSelectors)
	require.NoError(t, err)
	offers := NormalizeAll(models.StoreWillys, cards, mustOrigin(t, "https://www.willys.se/erbjudanden/butik"))
	require.Len(t, offers, 3)

	mjolk := offers[0]
	assert.Equal(t, "Mellanmjölk 1,5%", deref(t, mjolk.Name))
	assert.Equal(t, "Garant", deref(t, mjolk.Description))
	assert.Equal(t, "https://www.willys.se/erbjudanden/mellanmjolk-101", deref(t, mjolk.ProductURL))
	assert.InDelta(t, 12.5, deref(t, mjolk.UnitPrice), 1e-9)
	assert.InDelta(t, 16.9, deref(t, mjolk.OrdPrice), 1e-9)
	assert.InDelta(t, 26.04, deref(t, mjolk.PercentOff), 1e-9)
	assert.Equal(t, 4, deref(t, mjolk.MaxQty))

	// visible text unparseable, structured price used
	banan := offers[1]
	assert.Equal(t, "Klipp", deref(t, banan.PriceText))
	assert.InDelta(t, 24.9, deref(t, banan.UnitPrice), 1e-9)
	assert.Equal(t, "st", deref(t, banan.Unit))
	assert.Equal(t, "https://www.willys.se/produkt/bananer-202", deref(t, banan.ProductURL))

	pasta := offers[2]
	assert.InDelta(t, 33.9, deref(t, pasta.UnitPrice), 1e-9)
	assert.InDelta(t, 41.9, deref(t, pasta.OrdPrice), 1e-9)
	assert.InDelta(t, 19.09, deref(t, pasta.PercentOff), 1e-9)
}

func TestNormalize_SplitMultiBuySplash(t *testing.T) {
	t.Parallel()

	origin := mustOrigin(t, "https://www.ica.se/x")
	o := Normalize(models.StoreICA, RawCard{Name: "Kaffe", PricePrefix: "5 för", PriceValue: "145"}, origin)
	assert.Equal(t, "5 för 145 kr", deref(t, o.PriceText))
	assert.InDelta(t, 29.0, deref(t, o.UnitPrice), 1e-9)
	assert.Equal(t, "st", deref(t, o.Unit))
}

func TestNormalize_TakeThreePayTwoUsesStructuredPrice(t *testing.T) {
	t.Parallel()

	origin := mustOrigin(t, "https://www.willys.se/x")
	o := Normalize(models.StoreWillys, RawCard{Name: "Chips", PriceText: "3 för 2", StructuredPrice: "24.90"}, origin)
	assert.Equal(t, "3 för 2", deref(t, o.PriceText))
	assert.InDelta(t, 24.9, deref(t, o.UnitPrice), 1e-9)

	o = Normalize(models.StoreWillys, RawCard{Name: "Chips", PriceText: "3 för 2"}, origin)
	assert.Nil(t, o.UnitPrice)
	assert.Nil(t, o.Unit)
}

func TestNormalize_Deterministic(t *testing.T) {
	t.Parallel()

	c := RawCard{Name: "Kaffe", PriceText: "5 för 145 kr", Description: "Ord.pris 59:95 kr", Link: "/a"}
	origin := mustOrigin(t, "https://www.ica.se/x")
	first := Normalize(models.StoreICA, c, origin)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, Normalize(models.StoreICA, c, origin)); diff != "" {
			t.Fatalf("normalize not deterministic:\n%s", diff)
		}
	}
}

func TestResolveLink(t *testing.T) {
	t.Parallel()

	origin := mustOrigin(t, "https://www.willys.se/erbjudanden/butik?x=1")
	tests := []struct {
		href string
		want *string
	}{
		{"", nil},
		{"/produkt/a", models.StringPtr("https://www.willys.se/produkt/a")},
		{"produkt/a", models.StringPtr("https://www.willys.se/produkt/a")},
		{"https://other.example/p", models.StringPtr("https://other.example/p")},
		{"javascript:void(0)", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveLink(origin, tt.href), tt.href)
	}
	assert.Nil(t, resolveLink(nil, "/relative"))
}
