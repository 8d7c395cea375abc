package server

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/colour-science/colour-analysis/observability"
)

// zerologLogger adapts a zerolog logger to the observability interface the
// library packages log against.
type zerologLogger struct {
	log zerolog.Logger
}

// NewLogger returns an observability.Logger writing structured console
// output to w.
func NewLogger(w io.Writer) observability.Logger {
	return &zerologLogger{
		log: zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger(),
	}
}

func apply(ev *zerolog.Event, fields []observability.Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value().(type) {
		case string:
			ev = ev.Str(f.Key(), v)
		case int:
			ev = ev.Int(f.Key(), v)
		case float64:
			ev = ev.Float64(f.Key(), v)
		case error:
			ev = ev.AnErr(f.Key(), v)
		default:
			ev = ev.Interface(f.Key(), v)
		}
	}
	return ev
}

func (l *zerologLogger) Debug(msg string, fields ...observability.Field) {
	apply(l.log.Debug(), fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields ...observability.Field) {
	apply(l.log.Info(), fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields ...observability.Field) {
	apply(l.log.Warn(), fields).Msg(msg)
}

func (l *zerologLogger) Error(msg string, fields ...observability.Field) {
	apply(l.log.Error(), fields).Msg(msg)
}

func (l *zerologLogger) With(fields ...observability.Field) observability.Logger {
	ctx := l.log.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key(), f.Value())
	}
	return &zerologLogger{log: ctx.Logger()}
}
