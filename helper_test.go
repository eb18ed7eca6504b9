package opat

import (
	"github.com/opat/opat/date"
	"github.com/shopspring/decimal"
)

// d is a helper for test to create a date from a const.
func d(s string) date.Date { return date.MustParse(s) }

// dec is a helper for test to create a decimal from a const.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// buy is a helper for test to create a Buy trade.
func buy(on, ticker string, quantity, price string) Trade {
	return Trade{Date: d(on), Ticker: ticker, Type: "equity", Price: dec(price), Quantity: dec(quantity), Action: Buy}
}

// sell is a helper for test to create a Sell trade.
func sell(on, ticker string, quantity, price string) Trade {
	return Trade{Date: d(on), Ticker: ticker, Type: "equity", Price: dec(price), Quantity: dec(quantity), Action: Sell}
}

// px is a helper for test to create a close price.
func px(on, ticker, close string) Price {
	return Price{Date: d(on), Ticker: ticker, Close: dec(close)}
}

// valid is a helper for test to create a valid nullable decimal.
func valid(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }
