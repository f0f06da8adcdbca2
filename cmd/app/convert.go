package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/egsam98/encoders"
	"github.com/egsam98/encoders/sink"
)

// convert encodes every YAML document of the file at path into one JSON document written to s.
// It returns the number of documents written.
func convert(ctx context.Context, enc encoders.DataEncoder, s sink.Sink, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "open %q", path)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	w := sink.Writer(ctx, s)
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, errors.Wrapf(err, "%s: decode document #%d", path, n)
		}
		if err := enc.EncodeTo(&doc, w); err != nil {
			return n, errors.Wrapf(err, "%s: encode document #%d", path, n)
		}
	}
}
