// Package bookmodel defines the shared vocabulary for the order-book
// aggregation pipeline: the closed set of upstream feeds, a single decimal
// order, and the fixed-width top-N view each feed contributes.
package bookmodel

import "github.com/shopspring/decimal"

// TopN is how many price levels per side each feed contributes to the
// merged view, and how many the merged view publishes.
const TopN = 10

// PriceInf is a price unreachable by any real instrument. A feed's book is
// seeded with +PriceInf asks / -PriceInf bids on startup and whenever the
// feed is unhealthy, which puts it last in the merge sort and excludes it
// from the published top-N without special-casing "no data yet" anywhere
// downstream.
var PriceInf = decimal.New(100_000_000, 0)

// Feed identifies one upstream exchange feed. It is a closed set: adding a
// feed means adding one entry to feedTable and one case to each
// feed-specific switch in package feed, never a new interface implementation.
type Feed int

const (
	BinanceSpot Feed = iota
	BitstampSpot

	feedCount
)

// Info describes how to reach one feed's WebSocket endpoint.
type Info struct {
	Host string
	Port int
	Path string
}

var feedTable = [feedCount]struct {
	info        Info
	displayName string
}{
	BinanceSpot:  {Info{Host: "stream.binance.com", Port: 9443, Path: "/stream"}, "binance"},
	BitstampSpot: {Info{Host: "ws.bitstamp.net", Port: 443, Path: ""}, "bitstamp"},
}

// FeedCount is the number of feeds this aggregator fans in.
const FeedCount = int(feedCount)

// Endpoint returns the WebSocket dial parameters for this feed.
func (f Feed) Endpoint() Info { return feedTable[f].info }

// String is the exchange name published on every Level this feed contributes.
func (f Feed) String() string { return feedTable[f].displayName }

// Order is a single priced, sized entry in a feed's order book.
type Order struct {
	Feed   Feed
	Price  decimal.Decimal
	Amount decimal.Decimal
}

// OrderBookTopN is the fixed-width top-N slice of a single feed's book:
// asks ascending by price, bids descending by price, exactly as received
// from the exchange.
type OrderBookTopN struct {
	Asks [TopN]Order
	Bids [TopN]Order
}

// SetUnreachable marks this book as unhealthy by pushing every ask to
// +PriceInf and every bid to -PriceInf, so a merge sort always ranks this
// feed's levels last on both sides.
func (b *OrderBookTopN) SetUnreachable(feed Feed) {
	for i := range b.Asks {
		b.Asks[i] = Order{Feed: feed, Price: PriceInf, Amount: decimal.Zero}
	}
	for i := range b.Bids {
		b.Bids[i] = Order{Feed: feed, Price: PriceInf.Neg(), Amount: decimal.Zero}
	}
}

// FeedOrderBook pairs a feed with its current top-N book. It is the element
// type of the ingest queue between listeners and the aggregator.
type FeedOrderBook struct {
	Feed Feed
	Book OrderBookTopN
}
