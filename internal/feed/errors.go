package feed

import "errors"

// ErrSubscribe means the subscribe ack was missing or had the wrong shape.
// Fatal to the listener that hit it.
var ErrSubscribe = errors.New("feed: subscribe ack rejected")

// ErrParsing means a changed frame could not be decoded into an
// OrderBookTopN. The message is dropped; the listener keeps running.
var ErrParsing = errors.New("feed: could not parse orderbook frame")

// ErrListener means the listener hit an unrecoverable failure (reconnect
// itself failed, or the re-subscribe after it failed) and is exiting for
// good. The aggregator's slot for this feed stays at the unhealthy sentinel.
// A failure of the initial dial or subscribe in NewListener is returned
// as is, not wrapped in ErrListener.
var ErrListener = errors.New("feed: listener exited")
