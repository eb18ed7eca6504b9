package opat

import (
	"fmt"
	"slices"
	"strings"

	"github.com/opat/opat/date"
	"github.com/shopspring/decimal"
)

// Action is the side of a trade as written in the ledger.
type Action string

const (
	Buy  Action = "Buy"
	Sell Action = "Sell"
)

// ParseAction normalizes the case of known actions. Unknown actions are kept
// as is so that the holdings reconstruction can report them.
func ParseAction(s string) Action {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(Buy)):
		return Buy
	case strings.EqualFold(s, string(Sell)):
		return Sell
	}
	return Action(s)
}

// Sign returns +1 for a Buy and -1 for a Sell. ok is false for any other action.
func (a Action) Sign() (sign int64, ok bool) {
	switch a {
	case Buy:
		return 1, true
	case Sell:
		return -1, true
	}
	return 0, false
}

// Trade is one executed transaction.
type Trade struct {
	Date     date.Date
	Ticker   string
	Type     string // contract type, e.g. "equity" or "FX", optional.
	Price    decimal.Decimal
	Quantity decimal.Decimal // always positive, the sign comes from Action.
	Action   Action
}

func (t Trade) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", t.Date, t.Action, t.Quantity, t.Ticker, t.Price)
}

// signed returns the signed quantity of the trade, or an error if the trade
// is not valid.
func (t Trade) signed() (decimal.Decimal, error) {
	sign, ok := t.Action.Sign()
	if !ok {
		return decimal.Zero, &InvalidActionError{Trade: t}
	}
	if !t.Quantity.IsPositive() {
		return decimal.Zero, &InvalidTradeError{Trade: t, Err: ErrInvalidQuantity}
	}
	if sign < 0 {
		return t.Quantity.Neg(), nil
	}
	return t.Quantity, nil
}

// Split is a corporate action multiplying the quantity held of a ticker.
type Split struct {
	Date   date.Date
	Ticker string
	Ratio  decimal.Decimal // 2 for a 2-for-1 split.
}

func (s Split) String() string { return fmt.Sprintf("%s %s split %s", s.Date, s.Ticker, s.Ratio) }

// Price is a daily market record of a ticker.
type Price struct {
	Date     date.Date
	Ticker   string
	Close    decimal.Decimal
	Dividend decimal.Decimal // per share, zero if none.
	Split    decimal.Decimal // inline split ratio, zero or one if none.
}

// Flow is an external cash movement: deposits are positive, withdrawals negative.
type Flow struct {
	Date   date.Date
	Amount decimal.Decimal
}

// SplitsFromPrices extracts the inline split ratios carried by prices.
// Ratios of zero or one are not splits.
func SplitsFromPrices(prices []Price) []Split {
	var splits []Split
	for _, p := range prices {
		if p.Split.IsZero() || p.Split.Equal(one) {
			continue
		}
		splits = append(splits, Split{Date: p.Date, Ticker: p.Ticker, Ratio: p.Split})
	}
	return splits
}

// MergeSplits returns the union of the split tables, sorted by date and
// ticker. On the same (date, ticker) the first table wins.
func MergeSplits(tables ...[]Split) []Split {
	type key struct {
		on     date.Date
		ticker string
	}
	seen := make(map[key]struct{})
	var merged []Split
	for _, table := range tables {
		for _, s := range table {
			k := key{s.Date.RollForward(), s.Ticker}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			merged = append(merged, s)
		}
	}
	slices.SortStableFunc(merged, func(a, b Split) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	return merged
}
