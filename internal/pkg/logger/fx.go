package logger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx/fxevent"
)

// fxLogger routes fx lifecycle events into zerolog. Successful events are traced,
// failures are logged as errors so a broken dependency graph is visible without --debug.
type fxLogger struct {
	l zerolog.Logger
}

var _ fxevent.Logger = (*fxLogger)(nil)

func Fx() fxevent.Logger {
	return &fxLogger{
		l: log.Logger.
			With().
			Str("evt.name", "fx.init").
			Logger(),
	}
}

func (l *fxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.Provided:
		if e.Err != nil {
			l.l.Error().Err(e.Err).Str("constructor", e.ConstructorName).Msg("fx provide failed")
			return
		}
		l.l.Trace().Str("constructor", e.ConstructorName).Strs("types", e.OutputTypeNames).Msg("fx provided")
	case *fxevent.Supplied:
		if e.Err != nil {
			l.l.Error().Err(e.Err).Str("type", e.TypeName).Msg("fx supply failed")
			return
		}
		l.l.Trace().Str("type", e.TypeName).Msg("fx supplied")
	case *fxevent.Invoked:
		if e.Err != nil {
			l.l.Error().Err(e.Err).Str("function", e.FunctionName).Msg("fx invoke failed")
			return
		}
		l.l.Trace().Str("function", e.FunctionName).Msg("fx invoked")
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.l.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("fx stop hook failed")
			return
		}
		l.l.Trace().Str("callee", e.FunctionName).Dur("runtime", e.Runtime).Msg("fx stop hook executed")
	case *fxevent.Started:
		if e.Err != nil {
			l.l.Error().Err(e.Err).Msg("fx start failed")
			return
		}
		l.l.Trace().Msg("fx started")
	}
}
