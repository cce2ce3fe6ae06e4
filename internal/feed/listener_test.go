package feed

import (
	"testing"

	"orderbook-aggregator/internal/bookmodel"
)

func TestListenerHasChanged(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		feed bookmodel.Feed
	}{
		{"binance", bookmodel.BinanceSpot},
		{"bitstamp", bookmodel.BitstampSpot},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			l := &Listener{feed: c.feed}

			if l.hasChanged(initBaselineMsg, initBaselineMsg) {
				t.Error("identical messages should not be reported as changed")
			}

			newMsg := initBaselineMsg + `["10.00","1.0"],["9.99","2.0"]],"asks":[["10.01","1.0"],["10.02","2.0"]]}}`
			if !l.hasChanged(initBaselineMsg, newMsg) {
				t.Error("differing suffixes should be reported as changed")
			}
		})
	}
}

func TestValidateAck(t *testing.T) {
	t.Parallel()

	if err := validateAck(bookmodel.BinanceSpot, `{"result":null,"id":1}`); err != nil {
		t.Errorf("valid binance ack rejected: %v", err)
	}
	if err := validateAck(bookmodel.BinanceSpot, `{"error":"bad"}`); err == nil {
		t.Error("invalid binance ack accepted")
	}

	if err := validateAck(bookmodel.BitstampSpot, `{"event":"bts:subscription_succeeded"}`); err != nil {
		t.Errorf("valid bitstamp ack rejected: %v", err)
	}
	if err := validateAck(bookmodel.BitstampSpot, `{"event":"bts:error"}`); err == nil {
		t.Error("invalid bitstamp ack accepted")
	}
	if err := validateAck(bookmodel.BitstampSpot, `not json`); err == nil {
		t.Error("non-JSON bitstamp ack accepted")
	}
}

func TestSubscribePayload(t *testing.T) {
	t.Parallel()

	req := subscribePayload(bookmodel.BinanceSpot, "btcusdt").(binanceSubscribeRequest)
	if len(req.Params) != 1 || req.Params[0] != "btcusdt@depth20@100ms" {
		t.Errorf("unexpected binance params: %+v", req.Params)
	}
	if req.ID != 1 || req.Method != "SUBSCRIBE" {
		t.Errorf("unexpected binance request: %+v", req)
	}

	bReq := subscribePayload(bookmodel.BitstampSpot, "btcusdt").(bitstampSubscribeRequest)
	if bReq.Event != "bts:subscribe" || bReq.Data.Channel != "order_book_btcusdt" {
		t.Errorf("unexpected bitstamp request: %+v", bReq)
	}
}
