package kgox

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Logger routes franz-go client logs into zerolog. Repeated identical errors are logged once.
// It is safe for concurrent use.
type Logger struct {
	zerolog.Logger
	mu      sync.Mutex
	prevErr string
}

var _ kgo.Logger = (*Logger)(nil)

func NewLogger(logger *zerolog.Logger) *Logger {
	return &Logger{Logger: *logger}
}

func (l *Logger) Level() kgo.LogLevel {
	return zeroLvls[l.GetLevel()]
}

func (l *Logger) Log(level kgo.LogLevel, msg string, keyVals ...any) {
	for i := 0; i+1 < len(keyVals); i += 2 {
		if keyVals[i] == "err" && l.repeated(keyVals[i+1]) {
			return
		}
	}
	l.Logger.WithLevel(kgoLvls[level]).Fields(keyVals).Msg("Kafka: " + msg)
}

// repeated reports whether err has the same message as the previous logged error.
func (l *Logger) repeated(err any) bool {
	var msg string
	if e, ok := err.(error); ok {
		msg = e.Error()
	} else {
		msg = fmt.Sprint(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.prevErr == msg {
		return true
	}
	l.prevErr = msg
	return false
}

var kgoLvls = map[kgo.LogLevel]zerolog.Level{
	kgo.LogLevelNone:  zerolog.NoLevel,
	kgo.LogLevelDebug: zerolog.DebugLevel,
	kgo.LogLevelInfo:  zerolog.InfoLevel,
	kgo.LogLevelWarn:  zerolog.WarnLevel,
	kgo.LogLevelError: zerolog.ErrorLevel,
}

var zeroLvls = map[zerolog.Level]kgo.LogLevel{
	zerolog.TraceLevel: kgo.LogLevelDebug,
	zerolog.DebugLevel: kgo.LogLevelDebug,
	zerolog.InfoLevel:  kgo.LogLevelInfo,
	zerolog.WarnLevel:  kgo.LogLevelWarn,
	zerolog.ErrorLevel: kgo.LogLevelError,
	zerolog.FatalLevel: kgo.LogLevelError,
	zerolog.PanicLevel: kgo.LogLevelError,
	zerolog.NoLevel:    kgo.LogLevelNone,
	zerolog.Disabled:   kgo.LogLevelNone,
}
