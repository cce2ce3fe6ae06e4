package feed

import (
	"encoding/json"
	"fmt"

	"orderbook-aggregator/internal/bookmodel"
)

type binanceSubscribeRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int      `json:"id"`
}

type bitstampSubscribeRequest struct {
	Event string `json:"event"`
	Data  struct {
		Channel string `json:"channel"`
	} `json:"data"`
}

// subscribePayload builds the exchange-specific subscribe request for the
// given feed and instrument.
func subscribePayload(f bookmodel.Feed, instrument string) any {
	switch f {
	case bookmodel.BinanceSpot:
		return binanceSubscribeRequest{
			Method: "SUBSCRIBE",
			Params: []string{instrument + "@depth20@100ms"},
			ID:     1,
		}
	case bookmodel.BitstampSpot:
		req := bitstampSubscribeRequest{Event: "bts:subscribe"}
		req.Data.Channel = "order_book_" + instrument
		return req
	default:
		panic(fmt.Sprintf("feed: no subscribe payload for feed %d", f))
	}
}

// validateAck checks the first message received after sending a subscribe
// request. It returns ErrSubscribe wrapped with the offending payload if
// the exchange didn't confirm the subscription.
func validateAck(f bookmodel.Feed, raw string) error {
	switch f {
	case bookmodel.BinanceSpot:
		if raw != `{"result":null,"id":1}` {
			return fmt.Errorf("%w: unexpected ack %q", ErrSubscribe, raw)
		}
		return nil
	case bookmodel.BitstampSpot:
		var ack struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal([]byte(raw), &ack); err != nil {
			return fmt.Errorf("%w: ack not JSON %q: %w", ErrSubscribe, raw, err)
		}
		if ack.Event != "bts:subscription_succeeded" {
			return fmt.Errorf("%w: unexpected ack %q", ErrSubscribe, raw)
		}
		return nil
	default:
		panic(fmt.Sprintf("feed: no ack validator for feed %d", f))
	}
}
