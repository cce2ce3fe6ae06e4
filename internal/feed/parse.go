package feed

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"orderbook-aggregator/internal/bookmodel"
)

// parseOrderBookTopN extracts the top-N asks/bids from a changed frame.
//
// We assume, as observed from the exchanges we subscribe to, that a snap
// message always carries at least TopN bids and asks, already price
// ordered, at the JSON paths below. A side with fewer than TopN entries is
// reported as ErrParsing; the price ordering is trusted, not checked.
func parseOrderBookTopN(f bookmodel.Feed, msg string) (bookmodel.OrderBookTopN, error) {
	var book bookmodel.OrderBookTopN

	asks, err := parseSide(f, msg, "data.asks")
	if err != nil {
		return book, err
	}
	bids, err := parseSide(f, msg, "data.bids")
	if err != nil {
		return book, err
	}

	book.Asks = asks
	book.Bids = bids
	return book, nil
}

func parseSide(f bookmodel.Feed, msg, path string) ([bookmodel.TopN]bookmodel.Order, error) {
	var orders [bookmodel.TopN]bookmodel.Order

	result := gjson.Get(msg, path)
	if !result.IsArray() {
		return orders, fmt.Errorf("%w: %s is not an array", ErrParsing, path)
	}

	i := 0
	var parseErr error
	result.ForEach(func(_, value gjson.Result) bool {
		if i >= bookmodel.TopN {
			return false
		}
		pair := value.Array()
		if len(pair) != 2 {
			parseErr = fmt.Errorf("%w: %s[%d] is not a [price, amount] pair", ErrParsing, path, i)
			return false
		}

		price, err := decimal.NewFromString(pair[0].String())
		if err != nil {
			parseErr = fmt.Errorf("%w: %s[%d] price: %w", ErrParsing, path, i, err)
			return false
		}
		amount, err := decimal.NewFromString(pair[1].String())
		if err != nil {
			parseErr = fmt.Errorf("%w: %s[%d] amount: %w", ErrParsing, path, i, err)
			return false
		}

		orders[i] = bookmodel.Order{Feed: f, Price: price, Amount: amount}
		i++
		return true
	})
	if parseErr != nil {
		return orders, parseErr
	}
	if i < bookmodel.TopN {
		return orders, fmt.Errorf("%w: %s had only %d entries, want %d", ErrParsing, path, i, bookmodel.TopN)
	}
	return orders, nil
}
