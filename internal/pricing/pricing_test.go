package pricing

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestParseUnitPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		want     Price
		wantFind bool
	}{
		{name: "multi-buy", text: "5 för 145 kr", want: Price{29, "st"}, wantFind: true},
		{name: "multi-buy without kr", text: "2 för 35:-", want: Price{17.5, "st"}, wantFind: true},
		{name: "multi-buy rounds", text: "3 för 100 kr", want: Price{33.33, "st"}, wantFind: true},
		{name: "multi-buy extra spaces", text: "  3   FÖR  50 kr ", want: Price{16.67, "st"}, wantFind: true},
		{name: "per unit colon", text: "69:90/kg", want: Price{69.9, "kg"}, wantFind: true},
		{name: "per unit comma", text: "69,90/kg", want: Price{69.9, "kg"}, wantFind: true},
		{name: "per unit dot", text: "12.50/l", want: Price{12.5, "l"}, wantFind: true},
		{name: "per unit with kr", text: "29,90 kr /st", want: Price{29.9, "st"}, wantFind: true},
		{name: "per unit upper-case unit", text: "99:00/KG", want: Price{99, "kg"}, wantFind: true},
		{name: "single kr", text: "41:90 kr", want: Price{41.9, "st"}, wantFind: true},
		{name: "single with prefix", text: "Pris 33,90 kr", want: Price{33.9, "st"}, wantFind: true},
		{name: "single colon dash", text: "25:-", want: Price{25, "st"}, wantFind: true},
		{name: "bare value", text: "33:90", want: Price{33.9, "st"}, wantFind: true},
		{name: "bare integer", text: "20", want: Price{20, "st"}, wantFind: true},
		{name: "empty", text: "", wantFind: false},
		{name: "whitespace only", text: "   ", wantFind: false},
		{name: "no price", text: "Gäller med Klubb ICA", wantFind: false},
		{name: "zero quantity multi-buy falls through", text: "0 för 10", wantFind: false},
		{name: "take three pay for two is no price", text: "3 för 2", wantFind: false},
		{name: "take three pay for two with note", text: "Köp 3 för 2 Gäller billigaste", wantFind: false},
		{name: "multi-buy decimal total", text: "2 för 49,90", want: Price{24.95, "st"}, wantFind: true},
		{name: "single thousands space", text: "1 299 kr", want: Price{1299, "st"}, wantFind: true},
		{name: "single thousands colon dash", text: "Nu 2 495:-", want: Price{2495, "st"}, wantFind: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseUnitPrice(tt.text)
			assert.Equal(t, tt.wantFind, ok)
			if tt.wantFind {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseUnitPrice_SeparatorIndependent(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"1:50", "12:05", "69:90", "149:00"} {
		colon, ok1 := ParseUnitPrice(v + "/kg")
		comma, ok2 := ParseUnitPrice(strings.ReplaceAll(v, ":", ",") + "/kg")
		dot, ok3 := ParseUnitPrice(strings.ReplaceAll(v, ":", ".") + "/kg")
		require.True(t, ok1 && ok2 && ok3, v)
		assert.Equal(t, colon, comma, v)
		assert.Equal(t, colon, dot, v)
	}
}

func TestParseUnitPrice_MultiBuyProperty(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 6; n++ {
		for _, total := range []float64{10, 25, 99, 145, 200} {
			text := strconv.Itoa(n) + " för " + strconv.Itoa(int(total)) + " kr"
			got, ok := ParseUnitPrice(text)
			require.True(t, ok, text)
			assert.Equal(t, Round2(total/float64(n)), got.Value, text)
			assert.Equal(t, UnitEach, got.Unit, text)
		}
	}
}

func TestExtractOrdPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"Ord.pris 41:90 kr", 41.9, true},
		{"Ord pris 41,90 kr", 41.9, true},
		{"Max 3 köp. Ord.pris 59:00 kr. Jmf-pris 120:00/kg", 59, true},
		{"ord.pris: 12.50", 12.5, true},
		{"Klubbpris", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractOrdPrice(tt.text)
		assert.Equal(t, tt.wantOK, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestParseSaveAmount(t *testing.T) {
	t.Parallel()

	got, ok := ParseSaveAmount("Spara 10 kr")
	assert.True(t, ok)
	assert.Equal(t, 10.0, got)

	got, ok = ParseSaveAmount("Köp 2 spara 8:90")
	assert.True(t, ok)
	assert.Equal(t, 8.9, got)

	_, ok = ParseSaveAmount("Ord.pris 41:90 kr")
	assert.False(t, ok)
}

func TestParseMaxQty(t *testing.T) {
	t.Parallel()

	n, ok := ParseMaxQty("Max 3 köp")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = ParseMaxQty("Ord.pris 20:00 kr. Max 2 st/hushåll")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = ParseMaxQty("Ord.pris 41:90 kr")
	assert.False(t, ok)
}

func TestCalcPercentOff(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CalcPercentOff(nil, f(10)))
	assert.Nil(t, CalcPercentOff(f(10), nil))
	assert.Nil(t, CalcPercentOff(f(0), f(10)))
	assert.Nil(t, CalcPercentOff(f(-5), f(10)))
	assert.Nil(t, CalcPercentOff(f(math.NaN()), f(10)))
	assert.Nil(t, CalcPercentOff(f(10), f(math.Inf(1))))

	got := CalcPercentOff(f(41.90), f(33.90))
	require.NotNil(t, got)
	assert.Equal(t, 19.09, *got)

	got = CalcPercentOff(f(50), f(25))
	require.NotNil(t, got)
	assert.Equal(t, 50.0, *got)
}

func TestCalcPercentOff_MonotoneInOrdPrice(t *testing.T) {
	t.Parallel()

	unit := 20.0
	prev := math.Inf(-1)
	for ord := 1.0; ord <= 200; ord += 0.5 {
		got := CalcPercentOff(f(ord), f(unit))
		require.NotNil(t, got)
		assert.GreaterOrEqual(t, *got, prev, "ord=%v", ord)
		prev = *got
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"69:90", 69.9, true},
		{"69,90", 69.9, true},
		{"69.90", 69.9, true},
		{" 1 234,50 ", 1234.5, true},
		{"35:", 35, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1,2,3", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
