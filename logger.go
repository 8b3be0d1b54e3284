package main

import (
	"io"

	"github.com/9seconds/ipinfo/infolib"
	"github.com/rs/zerolog"
)

type logger struct {
	lookupLog zerolog.Logger
}

func (l *logger) LookupError(query infolib.Query, name string, err error) {
	l.lookupLog.Debug().
		Str("provider", name).
		Stringer("query", query).
		Err(err).
		Msg("Provider has failed")
}

func (l *logger) LookupExhausted(query infolib.Query) {
	l.lookupLog.Warn().
		Stringer("query", query).
		Msg("Cannot get IP info")
}

func newLogger(out io.Writer) infolib.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	return &logger{
		lookupLog: zerolog.New(out).With().Timestamp().Str("event_name", "lookup").Logger(),
	}
}
