package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"golang.org/x/sync/errgroup"

	"github.com/egsam98/encoders"
	"github.com/egsam98/encoders/internal/progress"
	"github.com/egsam98/encoders/jsonenc"
	"github.com/egsam98/encoders/sink"
	"github.com/egsam98/encoders/yamlenc"
)

func main() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if err := run(); err != nil {
		log.Fatal().Stack().Err(err).Msg("Convert YAML documents")
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errors.New("YAML config is required as argument")
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		return errors.Wrap(err, "open config")
	}

	var cfg Config
	if err := cfg.Parse(raw); err != nil {
		return err
	}
	cfg.Inputs = append(cfg.Inputs, os.Args[2:]...)
	if len(cfg.Inputs) == 0 {
		return errors.New(`"inputs" parameter or input files as arguments are required`)
	}

	var w io.Writer = os.Stderr
	if cfg.Log.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339Nano}
	}
	log.Logger = zerolog.New(w).
		Level(cfg.Log.Level).
		With().
		Timestamp().
		Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	enc := jsonenc.NewBuilder().
		Configure(yamlenc.Configurator).
		IgnoreNullValues(cfg.Encoder.IgnoreNullValues).
		MaxDepth(cfg.Encoder.MaxDepth).
		Logger(log.Logger).
		Build()

	out, err := sink.NewFromYAML(ctx, cfg.Sink)
	if err != nil {
		return err
	}

	log.Info().
		Str("name", cfg.Name).
		Str("version", encoders.Version).
		Int("inputs", len(cfg.Inputs)).
		Msg("Start conversion")

	barOut := io.Discard
	if cfg.Progress {
		barOut = os.Stderr
	}
	bar := progress.NewBar(len(cfg.Inputs), "Converting", barOut)
	pool := progress.RunPeriodicPool(log.Logger, 5*time.Second)
	pool.Add(bar)

	var docs atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for _, path := range cfg.Inputs {
		g.Go(func() error {
			n, err := convert(gCtx, enc, out, path)
			docs.Add(int64(n))
			if err != nil {
				return err
			}
			log.Debug().Str("path", path).Int("documents", n).Msg("File converted")
			return bar.Add(1)
		})
	}
	err = g.Wait()
	pool.Stop()
	if closeErr := out.Close(); err == nil {
		err = errors.Wrap(closeErr, "close sink")
	}
	if err != nil {
		return err
	}

	log.Info().Int64("documents", docs.Load()).Msg("Conversion finished")
	return nil
}
