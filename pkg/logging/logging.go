// Package logging builds the log15 loggers used across palisade.
package logging

import (
	"io"

	"github.com/inconshreveable/log15"
)

// Discard returns a logger that drops every record. Library components
// use it unless the caller passes a logger of its own.
func Discard() log15.Logger {
	log := log15.New()
	log.SetHandler(log15.DiscardHandler())
	return log
}

// New returns a logger writing terminal-formatted records of at least
// level to w. Unknown level names fall back to info.
func New(w io.Writer, level string, ctx ...interface{}) log15.Logger {
	lvl, err := log15.LvlFromString(level)
	if err != nil {
		lvl = log15.LvlInfo
	}
	log := log15.New(ctx...)
	log.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(w, log15.TerminalFormat())))
	return log
}
