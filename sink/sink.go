// Package sink provides destinations for encoded JSON documents.
package sink

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/egsam98/encoders/internal/registry"
	"github.com/egsam98/encoders/internal/validate"
)

// Sink receives complete documents. Implementations must not retain doc after Write returns.
type Sink interface {
	Write(ctx context.Context, doc []byte) error
	Close() error
}

// Writer adapts s to io.Writer: every Write call delivers one document.
// Errors from s are returned unchanged.
func Writer(ctx context.Context, s Sink) io.Writer {
	return writer{ctx: ctx, sink: s}
}

type writer struct {
	ctx  context.Context
	sink Sink
}

func (w writer) Write(p []byte) (int, error) {
	if err := w.sink.Write(w.ctx, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

var sinks = registry.New[Sink]("sink")

func init() {
	sinks.Register("stdout", func(context.Context, yaml.Node) (Sink, error) {
		return NewLines(os.Stdout), nil
	}, "")
	register("file", func(_ context.Context, cfg FileConfig) (*Lines, error) { return OpenFile(cfg) })
	register("s3", NewS3)
	register("kafka", NewKafka)
	register("badger", func(_ context.Context, cfg BadgerConfig) (*Badger, error) { return OpenBadger(cfg) })
	register("postgres", NewPostgres)
}

// register binds a sink constructor to its validated config type C.
func register[C any, S Sink](name string, open func(ctx context.Context, cfg C) (S, error)) {
	sinks.Register(name, func(ctx context.Context, value yaml.Node) (Sink, error) {
		var cfg C
		if err := validate.StructFromYAML(&cfg, value, "sink"); err != nil {
			return nil, err
		}
		s, err := open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// NewFromYAML builds a sink from its YAML section. The `type` key selects the implementation:
// stdout (default), file, s3, kafka, badger or postgres.
func NewFromYAML(ctx context.Context, value yaml.Node) (Sink, error) {
	if value.Kind == 0 {
		return NewLines(os.Stdout), nil
	}

	var head struct {
		Type string `yaml:"type"`
	}
	if err := value.Decode(&head); err != nil {
		return nil, errors.Wrap(err, "decode sink type")
	}
	return sinks.Get(ctx, head.Type, value)
}
