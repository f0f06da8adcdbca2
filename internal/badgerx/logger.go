package badgerx

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Logger routes badger warnings and errors into zerolog and drops the rest.
type Logger struct {
	Log zerolog.Logger
}

var _ badger.Logger = (*Logger)(nil)

func (l *Logger) Errorf(s string, i ...any) {
	l.Log.Error().Msgf("Badger: "+s, i...)
}

func (l *Logger) Warningf(s string, i ...any) {
	l.Log.Warn().Msgf("Badger: "+s, i...)
}

func (*Logger) Infof(string, ...any) {}

func (*Logger) Debugf(string, ...any) {}
