// Package feed implements the per-exchange subscribe handshake and the
// change-forwarder listener: the task that turns a raw WebSocket text
// stream into FeedOrderBook values on the ingest queue.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderbook-aggregator/internal/bookmodel"
	"orderbook-aggregator/internal/wsclient"
)

// initBaselineMsg is the synthetic "previous message" the change filter
// starts from after every (re)subscribe. It is shorter than every feed's
// payload offset, so its payload suffix is empty and the first frame that
// carries an order book is always reported as changed and published.
const initBaselineMsg = `{"data":{"timestamp":"0","microtimestamp":"0","bids":[`

// payloadOffset is the byte position at which the order-book payload
// begins in a feed's snap message, past the variable preamble
// (timestamps, instrument metadata). Change detection compares only the
// bytes from this offset onward.
var payloadOffset = [bookmodel.FeedCount]int{
	bookmodel.BinanceSpot:  76,
	bookmodel.BitstampSpot: 78,
}

// Listener reads snap frames for one feed, filters out unchanged frames,
// and forwards parsed books onto the ingest queue. It owns feed-local
// reconnect recovery; an unrecoverable failure exits the listener and
// leaves the aggregator holding this feed's slot at the unhealthy sentinel
// forever.
type Listener struct {
	feed           bookmodel.Feed
	instrumentName string
	client         *wsclient.Client
	queue          chan<- bookmodel.FeedOrderBook
	logger         *slog.Logger
}

// NewListener dials the feed's endpoint and performs the initial subscribe
// handshake. A failure here is fatal — the caller should not retry with a
// fresh Listener, since the spec treats a bad subscribe ack as fatal to the
// feed for the process lifetime.
func NewListener(ctx context.Context, f bookmodel.Feed, instrumentName string, queue chan<- bookmodel.FeedOrderBook, logger *slog.Logger) (*Listener, error) {
	client, err := wsclient.Dial(ctx, f.Endpoint())
	if err != nil {
		return nil, err
	}

	l := &Listener{
		feed:           f,
		instrumentName: instrumentName,
		client:         client,
		queue:          queue,
		logger:         logger.With("component", "listener", "feed", f.String()),
	}

	if err := l.subscribe(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Listener) subscribe() error {
	if err := l.client.Send(subscribePayload(l.feed, l.instrumentName)); err != nil {
		return err
	}
	ack, err := l.client.ReadMessage()
	if err != nil {
		return err
	}
	if err := validateAck(l.feed, ack); err != nil {
		return err
	}
	l.logger.Info("subscribed", "instrument", l.instrumentName)
	return nil
}

// hasChanged reports whether newMsg differs from oldMsg in the order-book
// payload, ignoring the variable preamble. This is a plain byte-suffix
// comparison: no JSON parse, no decimal parse, no field-by-field diff.
func (l *Listener) hasChanged(oldMsg, newMsg string) bool {
	offset := payloadOffset[l.feed]
	return oldMsg[min(offset, len(oldMsg)):] != newMsg[min(offset, len(newMsg)):]
}

// publishUnhealthy pushes an all-sentinel book for this feed onto the
// ingest queue, deterministically excluding it from the next merged
// Summary until it recovers.
func (l *Listener) publishUnhealthy(ctx context.Context) {
	var book bookmodel.OrderBookTopN
	book.SetUnreachable(l.feed)
	l.send(ctx, bookmodel.FeedOrderBook{Feed: l.feed, Book: book})
}

func (l *Listener) send(ctx context.Context, fob bookmodel.FeedOrderBook) {
	select {
	case l.queue <- fob:
	case <-ctx.Done():
	}
}

// Run is the listener's main loop. It blocks until ctx is cancelled or an
// unrecoverable error occurs, in which case it returns a wrapped
// ErrListener.
func (l *Listener) Run(ctx context.Context) error {
	oldMsg := initBaselineMsg

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msg, err := l.client.ReadMessage()
		if err != nil {
			l.logger.Error("read failed", "error", err)
			l.publishUnhealthy(ctx)

			switch {
			case errors.Is(err, wsclient.ErrEndpointClosed):
				l.logger.Info("endpoint closed connection, reconnecting")
				if err := l.client.Reconnect(ctx); err != nil {
					return fmt.Errorf("%w: reconnect: %w", ErrListener, err)
				}
				if err := l.subscribe(); err != nil {
					return fmt.Errorf("%w: re-subscribe: %w", ErrListener, err)
				}
				oldMsg = initBaselineMsg

			case errors.Is(err, wsclient.ErrParsing):
				l.logger.Warn("dropping unparseable frame", "error", err)

			default: // wsclient.ErrTransport and anything else
				if err := l.client.Reconnect(ctx); err != nil {
					return fmt.Errorf("%w: reconnect: %w", ErrListener, err)
				}
				if err := l.subscribe(); err != nil {
					return fmt.Errorf("%w: re-subscribe: %w", ErrListener, err)
				}
				oldMsg = initBaselineMsg
			}
			continue
		}

		if !l.hasChanged(oldMsg, msg) {
			continue
		}

		book, err := parseOrderBookTopN(l.feed, msg)
		if err != nil {
			l.logger.Warn("dropping unparseable frame", "error", err)
			l.publishUnhealthy(ctx)
			continue
		}

		l.send(ctx, bookmodel.FeedOrderBook{Feed: l.feed, Book: book})
		oldMsg = msg
	}
}
