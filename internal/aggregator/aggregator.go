// Package aggregator merges each feed's top-N book into a single top-N
// Summary and publishes it to the broadcast hub. It is the sole consumer
// of the ingest queue and the sole producer on the broadcast channel.
package aggregator

import (
	"context"
	"log/slog"
	"runtime"
	"sort"

	"orderbook-aggregator/internal/bookmodel"
	"orderbook-aggregator/internal/broadcast"
	"orderbook-aggregator/internal/pb"
)

// Aggregator owns one slot per feed and recomputes the merged top-N
// whenever new data has arrived since the last publish.
type Aggregator struct {
	queue <-chan bookmodel.FeedOrderBook
	hub   *broadcast.Hub
	logger *slog.Logger
}

// New creates an Aggregator reading from queue and publishing to hub.
func New(queue <-chan bookmodel.FeedOrderBook, hub *broadcast.Hub, logger *slog.Logger) *Aggregator {
	return &Aggregator{queue: queue, hub: hub, logger: logger.With("component", "aggregator")}
}

// Run pins the calling goroutine to its OS thread and runs the merge loop
// until ctx is cancelled. The pin keeps this CPU-bound coalescing work off
// whatever thread is servicing blocking syscalls for listeners and gRPC
// sessions elsewhere in the process.
//
// Intended to be launched as `go aggregator.Run(ctx)` — LockOSThread only
// affects the calling goroutine, so it must run on its own goroutine, never
// shared with other work.
func (a *Aggregator) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	books := initializedBooks()
	dirty := false

	a.logger.Info("aggregator started")

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("aggregator stopping", "reason", ctx.Err())
			return
		case fob := <-a.queue:
			books[fob.Feed] = fob.Book
			dirty = true
		default:
			if dirty {
				a.publish(books)
				dirty = false
				continue
			}
			select {
			case <-ctx.Done():
				a.logger.Info("aggregator stopping", "reason", ctx.Err())
				return
			case fob := <-a.queue:
				books[fob.Feed] = fob.Book
				dirty = true
			}
		}
	}
}

// initializedBooks seeds every feed's slot at the unhealthy sentinel, so
// the pre-warmed aggregator has a well-defined (if empty) state instead of
// zero-valued prices that would otherwise sort to the front.
func initializedBooks() [bookmodel.FeedCount]bookmodel.OrderBookTopN {
	var books [bookmodel.FeedCount]bookmodel.OrderBookTopN
	for f := range books {
		books[f].SetUnreachable(bookmodel.Feed(f))
	}
	return books
}

// publish concatenates each feed's top-N asks/bids, stable-sorts them
// (ascending for asks, descending for bids — ties keep feed-enum order
// from the concatenation), and takes the first N of each as the merged
// view.
func (a *Aggregator) publish(books [bookmodel.FeedCount]bookmodel.OrderBookTopN) {
	asks := make([]bookmodel.Order, 0, bookmodel.FeedCount*bookmodel.TopN)
	bids := make([]bookmodel.Order, 0, bookmodel.FeedCount*bookmodel.TopN)

	for _, book := range books {
		asks = append(asks, book.Asks[:]...)
		bids = append(bids, book.Bids[:]...)
	}

	sort.SliceStable(asks, func(i, j int) bool { return asks[i].Price.LessThan(asks[j].Price) })
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Price.GreaterThan(bids[j].Price) })

	askLevels := make([]*pb.Level, bookmodel.TopN)
	bidLevels := make([]*pb.Level, bookmodel.TopN)
	for i := 0; i < bookmodel.TopN; i++ {
		askLevels[i] = toLevel(asks[i])
		bidLevels[i] = toLevel(bids[i])
	}

	spread, _ := asks[0].Price.Sub(bids[0].Price).Float64()

	a.logger.Debug("publishing merged summary", "spread", spread, "top_ask", askLevels[0].Exchange, "top_bid", bidLevels[0].Exchange)

	a.hub.Publish(&pb.Summary{
		Spread: spread,
		Asks:   askLevels,
		Bids:   bidLevels,
	})
}

func toLevel(o bookmodel.Order) *pb.Level {
	price, _ := o.Price.Float64()
	amount, _ := o.Amount.Float64()
	return &pb.Level{
		Exchange: o.Feed.String(),
		Price:    price,
		Amount:   amount,
	}
}
