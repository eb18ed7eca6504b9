package opat

import (
	"fmt"

	"github.com/opat/opat/date"
)

// Book encapsulates all the inputs of a portfolio: the ledger of trades, the
// corporate actions, the market prices and the external cash flows.
//
// It serves as a central point of access for the derived tables. The splits
// carried inline by Prices are merged with Splits, the explicit table winning
// on the same (date, ticker).
type Book struct {
	Trades []Trade
	Splits []Split
	Prices []Price
	Flows  []Flow

	Options Options
}

// AllSplits returns the explicit splits merged with the inline ones.
func (b *Book) AllSplits() []Split {
	return MergeSplits(b.Splits, SplitsFromPrices(b.Prices))
}

// Holdings reconstructs the daily holdings.
func (b *Book) Holdings() (*Holdings, error) {
	return BuildHoldings(b.Trades, b.AllSplits(), b.Options)
}

// PnL computes the daily profit and loss. It also returns the holdings it is
// based on.
func (b *Book) PnL() (*PnL, *Holdings, error) {
	h, err := b.Holdings()
	if err != nil {
		return nil, nil, err
	}
	p, err := BuildPnL(h, b.Trades, b.Prices)
	if err != nil {
		return nil, nil, err
	}
	return p, h, nil
}

// NAV computes the daily net asset value. It also returns the holdings it is
// based on.
func (b *Book) NAV() (*NAV, *Holdings, error) {
	h, err := b.Holdings()
	if err != nil {
		return nil, nil, err
	}
	n, err := BuildNAV(h, b.Trades, b.Prices, b.Flows)
	if err != nil {
		return nil, nil, err
	}
	return n, h, nil
}

// Returns computes the daily flow adjusted returns of the portfolio.
func (b *Book) Returns() (*date.History[float64], error) {
	n, _, err := b.NAV()
	if err != nil {
		return nil, fmt.Errorf("could not compute returns: %w", err)
	}
	return n.Returns(), nil
}
