package feed

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"orderbook-aggregator/internal/bookmodel"
)

func buildSnapMsg(asks, bids [][2]string) string {
	build := func(levels [][2]string) string {
		var b strings.Builder
		b.WriteByte('[')
		for i, lvl := range levels {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(`["` + lvl[0] + `","` + lvl[1] + `"]`)
		}
		b.WriteByte(']')
		return b.String()
	}

	return `{"data":{"timestamp":"1","microtimestamp":"1","bids":` + build(bids) +
		`,"asks":` + build(asks) + `}}`
}

func TestParseOrderBookTopN(t *testing.T) {
	t.Parallel()

	var asks, bids [10][2]string
	for i := 0; i < 10; i++ {
		asks[i] = [2]string{"10." + string(rune('0'+i)), "1.0"}
		bids[i] = [2]string{"9." + string(rune('0'+i)), "2.0"}
	}
	msg := buildSnapMsg(asks[:], bids[:])

	book, err := parseOrderBookTopN(bookmodel.BinanceSpot, msg)
	if err != nil {
		t.Fatalf("parseOrderBookTopN: %v", err)
	}

	if !book.Asks[0].Price.Equal(decimal.RequireFromString("10.0")) {
		t.Errorf("Asks[0].Price = %s, want 10.0", book.Asks[0].Price)
	}
	if !book.Bids[0].Price.Equal(decimal.RequireFromString("9.0")) {
		t.Errorf("Bids[0].Price = %s, want 9.0", book.Bids[0].Price)
	}
	for _, a := range book.Asks {
		if a.Feed != bookmodel.BinanceSpot {
			t.Errorf("Asks feed tag = %v, want BinanceSpot", a.Feed)
		}
	}
}

func TestParseOrderBookTopNTooFewEntries(t *testing.T) {
	t.Parallel()

	msg := buildSnapMsg([][2]string{{"10.0", "1.0"}}, [][2]string{{"9.0", "1.0"}})
	if _, err := parseOrderBookTopN(bookmodel.BinanceSpot, msg); err == nil {
		t.Error("expected an error for fewer than TopN entries")
	}
}
