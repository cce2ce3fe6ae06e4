package bookmodel

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFeedString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		feed Feed
		want string
	}{
		{BinanceSpot, "binance"},
		{BitstampSpot, "bitstamp"},
	}

	for _, c := range cases {
		if got := c.feed.String(); got != c.want {
			t.Errorf("Feed(%d).String() = %q, want %q", c.feed, got, c.want)
		}
	}
}

func TestFeedEndpoint(t *testing.T) {
	t.Parallel()

	got := BinanceSpot.Endpoint()
	want := Info{Host: "stream.binance.com", Port: 9443, Path: "/stream"}
	if got != want {
		t.Errorf("BinanceSpot.Endpoint() = %+v, want %+v", got, want)
	}

	got = BitstampSpot.Endpoint()
	want = Info{Host: "ws.bitstamp.net", Port: 443, Path: ""}
	if got != want {
		t.Errorf("BitstampSpot.Endpoint() = %+v, want %+v", got, want)
	}
}

func TestOrderBookTopNSetUnreachable(t *testing.T) {
	t.Parallel()

	var book OrderBookTopN
	book.Asks[0] = Order{Feed: BinanceSpot, Price: decimal.NewFromInt(100), Amount: decimal.NewFromInt(1)}
	book.SetUnreachable(BinanceSpot)

	for i, ask := range book.Asks {
		if !ask.Price.Equal(PriceInf) {
			t.Fatalf("Asks[%d].Price = %s, want %s", i, ask.Price, PriceInf)
		}
	}
	for i, bid := range book.Bids {
		if !bid.Price.Equal(PriceInf.Neg()) {
			t.Fatalf("Bids[%d].Price = %s, want %s", i, bid.Price, PriceInf.Neg())
		}
	}
}
