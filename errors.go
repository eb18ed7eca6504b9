package opat

import (
	"errors"
	"fmt"

	"github.com/opat/opat/date"
)

var (
	// ErrInvalidAction is returned for a trade that is neither a Buy nor a Sell.
	ErrInvalidAction = errors.New("invalid trade action")
	// ErrInvalidQuantity is returned for a trade with a zero or negative quantity.
	ErrInvalidQuantity = errors.New("trade quantity must be positive")
	// ErrInvalidSplit is returned for a split with a zero or negative ratio.
	ErrInvalidSplit = errors.New("split ratio must be positive")
	// ErrMissingPrice reports a ticker without any close price on or before a date.
	ErrMissingPrice = errors.New("missing price")
	// ErrAmbiguousSplit reports a split on a ticker that was not held.
	ErrAmbiguousSplit = errors.New("split on a ticker not held")
)

// InvalidActionError is the error for a trade whose action is neither Buy nor Sell.
type InvalidActionError struct {
	Trade Trade
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("trade on %s for %q: %v %q", e.Trade.Date, e.Trade.Ticker, ErrInvalidAction, e.Trade.Action)
}

func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }

// InvalidTradeError wraps any other reason for rejecting a trade.
type InvalidTradeError struct {
	Trade Trade
	Err   error
}

func (e *InvalidTradeError) Error() string {
	return fmt.Sprintf("trade on %s for %q: %v (got %s)", e.Trade.Date, e.Trade.Ticker, e.Err, e.Trade.Quantity)
}

func (e *InvalidTradeError) Unwrap() error { return e.Err }

// InvalidSplitError is the error for a split with a non positive ratio.
type InvalidSplitError struct {
	Split Split
}

func (e *InvalidSplitError) Error() string {
	return fmt.Sprintf("split on %s for %q: %v (got %s)", e.Split.Date, e.Split.Ticker, ErrInvalidSplit, e.Split.Ratio)
}

func (e *InvalidSplitError) Unwrap() error { return ErrInvalidSplit }

// MissingPriceError reports that no close price exists for a ticker on or
// before a date. It is never fatal: the affected cells are marked missing.
type MissingPriceError struct {
	Ticker string
	Date   date.Date
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("%v for %q on %s", ErrMissingPrice, e.Ticker, e.Date)
}

func (e *MissingPriceError) Unwrap() error { return ErrMissingPrice }

// AmbiguousSplitInputError reports a split for a ticker that had no position
// the day before. The split is applied with a ratio of 1.
type AmbiguousSplitInputError struct {
	Split Split
}

func (e *AmbiguousSplitInputError) Error() string {
	return fmt.Sprintf("%v: %q on %s (ratio %s ignored)", ErrAmbiguousSplit, e.Split.Ticker, e.Split.Date, e.Split.Ratio)
}

func (e *AmbiguousSplitInputError) Unwrap() error { return ErrAmbiguousSplit }

// Report collects the non fatal problems found while building a table.
type Report struct {
	// Skipped holds the invalid inputs ignored in lenient mode.
	Skipped []error
	// Ambiguous holds the splits applied as a no-op.
	Ambiguous []*AmbiguousSplitInputError
	// Missing holds one entry per (ticker, date) without a price.
	Missing []*MissingPriceError
}

// Empty reports whether nothing was reported.
func (r *Report) Empty() bool {
	return len(r.Skipped) == 0 && len(r.Ambiguous) == 0 && len(r.Missing) == 0
}

// Err joins every reported problem, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Skipped)+len(r.Ambiguous)+len(r.Missing))
	errs = append(errs, r.Skipped...)
	for _, e := range r.Ambiguous {
		errs = append(errs, e)
	}
	for _, e := range r.Missing {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// missing records a missing price once per (ticker, date).
func (r *Report) missing(seen map[tickerDay]struct{}, ticker string, on date.Date) {
	k := tickerDay{on, ticker}
	if _, ok := seen[k]; ok {
		return
	}
	seen[k] = struct{}{}
	r.Missing = append(r.Missing, &MissingPriceError{Ticker: ticker, Date: on})
}

// tickerDay is the key of most of the tables.
type tickerDay struct {
	on     date.Date
	ticker string
}
