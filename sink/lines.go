package sink

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
)

type FileConfig struct {
	Path   string `yaml:"path" validate:"required"`
	Append bool   `yaml:"append"`
}

// Lines writes newline-delimited documents to an io.Writer.
type Lines struct {
	mu sync.Mutex
	w  io.Writer
}

func NewLines(w io.Writer) *Lines {
	return &Lines{w: w}
}

func OpenFile(cfg FileConfig) (*Lines, error) {
	flag := os.O_CREATE | os.O_WRONLY
	if cfg.Append {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}
	f, err := os.OpenFile(cfg.Path, flag, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", cfg.Path)
	}
	return &Lines{w: f}, nil
}

func (l *Lines) Write(_ context.Context, doc []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.Write(doc); err != nil {
		return err
	}
	_, err := l.w.Write([]byte{'\n'})
	return err
}

// Close closes the underlying writer unless it is os.Stdout or os.Stderr.
func (l *Lines) Close() error {
	if l.w == os.Stdout || l.w == os.Stderr {
		return nil
	}
	if c, ok := l.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
