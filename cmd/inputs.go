package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/opat/opat"
	"github.com/opat/opat/date"
	"github.com/opat/opat/market"
	"github.com/sirupsen/logrus"
)

// inputs are the ledger files shared by all the commands that compute tables.
type inputs struct {
	cfg *Config
	log logrus.FieldLogger

	trades    string
	splits    string
	prices    string
	pricesDir string
	pricesURL string
	flows     string
	asof      string
	start     string
	lenient   bool
}

func (in *inputs) setFlags(f *flag.FlagSet) {
	f.StringVar(&in.trades, "trades", "trades.csv", "Path to the trades CSV file (date, ticker, type, price, quantity, action).")
	f.StringVar(&in.splits, "splits", "", "Path to the splits CSV file (date, ticker, split).")
	f.StringVar(&in.prices, "prices", "", "Path to the prices CSV file (date, ticker, close, dividend, split).")
	f.StringVar(&in.pricesDir, "prices-dir", in.cfg.PricesDir, "Folder of <TICKER>.csv or <TICKER>.json price files. Ignored if -prices is set.")
	f.StringVar(&in.pricesURL, "prices-url", in.cfg.PricesURL, "URL of a JSON price API, where {ticker} is replaced by the ticker. Ignored if -prices or -prices-dir is set.")
	f.StringVar(&in.flows, "flows", "", "Path to the external cash flows CSV file (date, amount).")
	f.StringVar(&in.asof, "asof", date.Today().String(), "Last day of the tables.")
	f.StringVar(&in.start, "start", "", "First day of the tables. Defaults to the first trade.")
	f.BoolVar(&in.lenient, "lenient", in.cfg.Lenient, "Skip invalid trades and splits instead of failing.")
}

// options returns the computation options from the flags.
func (in *inputs) options() (opts opat.Options, err error) {
	opts.Lenient = in.lenient
	if opts.AsOf, err = date.Parse(in.asof); err != nil {
		return opts, fmt.Errorf("invalid -asof: %w", err)
	}
	if in.start != "" {
		if opts.Start, err = date.Parse(in.start); err != nil {
			return opts, fmt.Errorf("invalid -start: %w", err)
		}
	}
	return opts, nil
}

// decodeFile decodes the table in name. An empty name is an empty table.
func decodeFile[T any](name string, decode func(io.Reader) ([]T, error)) ([]T, error) {
	if name == "" {
		return nil, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	list, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", name, err)
	}
	return list, nil
}

// source returns the configured price source, or nil.
func (in *inputs) source() (market.Source, error) {
	switch {
	case in.prices != "":
		prices, err := decodeFile(in.prices, opat.DecodePrices)
		if err != nil {
			return nil, err
		}
		return market.Table(prices), nil
	case in.pricesDir != "":
		return &market.Dir{Path: in.pricesDir, JSONPath: in.cfg.JSONPath}, nil
	case in.pricesURL != "":
		return &market.HTTP{
			URL:      in.pricesURL,
			JSONPath: in.cfg.JSONPath,
			Client:   market.NewDailyClient(date.Today(), ""),
		}, nil
	}
	return nil, nil
}

// book loads all the input files. Prices are required if withPrices is set.
func (in *inputs) book(ctx context.Context, withPrices bool) (*opat.Book, error) {
	opts, err := in.options()
	if err != nil {
		return nil, err
	}
	b := &opat.Book{Options: opts}
	if b.Trades, err = decodeFile(in.trades, opat.DecodeTrades); err != nil {
		return nil, err
	}
	if b.Splits, err = decodeFile(in.splits, opat.DecodeSplits); err != nil {
		return nil, err
	}
	if b.Flows, err = decodeFile(in.flows, opat.DecodeFlows); err != nil {
		return nil, err
	}
	in.log.WithFields(logrus.Fields{
		"trades": len(b.Trades),
		"splits": len(b.Splits),
		"flows":  len(b.Flows),
	}).Debug("ledger loaded")

	src, err := in.source()
	if err != nil {
		return nil, err
	}
	if src == nil {
		if withPrices {
			return nil, errors.New("no prices, use -prices, -prices-dir or -prices-url")
		}
		return b, nil
	}

	tickers := make([]string, 0, len(b.Trades))
	for _, t := range b.Trades {
		tickers = append(tickers, t.Ticker)
	}
	slices.Sort(tickers)
	tickers = slices.Compact(tickers)

	// prices before the start are needed to forward fill the first days.
	prices, missing, err := market.Load(ctx, src, tickers, date.Range{To: opts.AsOf})
	if err != nil {
		return nil, err
	}
	for _, ticker := range missing {
		in.log.WithField("ticker", ticker).Warn("no price file")
	}
	b.Prices = prices
	return b, nil
}
