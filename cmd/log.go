package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/opat/opat"
	"github.com/sirupsen/logrus"
)

// NewLogger returns the logger configured by cfg, writing to w.
func NewLogger(cfg Config, w io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	switch cfg.LogFormat {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q, want text or json", cfg.LogFormat)
	}
	return logger, nil
}

// logReport logs every problem of r as a warning.
func logReport(log logrus.FieldLogger, r *opat.Report) {
	for _, err := range r.Skipped {
		log.WithFields(skippedFields(err)).WithError(err).Warn("input skipped")
	}
	for _, e := range r.Ambiguous {
		log.WithFields(logrus.Fields{
			"ticker": e.Split.Ticker,
			"date":   e.Split.Date.String(),
			"ratio":  e.Split.Ratio.String(),
		}).Warn("split ignored, ticker not held")
	}
	for _, e := range r.Missing {
		log.WithFields(logrus.Fields{
			"ticker": e.Ticker,
			"date":   e.Date.String(),
		}).Warn("missing price")
	}
}

func skippedFields(err error) logrus.Fields {
	var (
		action *opat.InvalidActionError
		trade  *opat.InvalidTradeError
		split  *opat.InvalidSplitError
	)
	switch {
	case errors.As(err, &action):
		return logrus.Fields{"ticker": action.Trade.Ticker, "date": action.Trade.Date.String()}
	case errors.As(err, &trade):
		return logrus.Fields{"ticker": trade.Trade.Ticker, "date": trade.Trade.Date.String()}
	case errors.As(err, &split):
		return logrus.Fields{"ticker": split.Split.Ticker, "date": split.Split.Date.String()}
	}
	return logrus.Fields{}
}
