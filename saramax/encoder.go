// Package saramax adapts encoders to sarama producer messages.
package saramax

import (
	"bytes"
	"sync"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"

	"github.com/egsam98/encoders"
)

// Encoder is a sarama.Encoder that encodes value with enc on first use.
// Encode and Length share the result of a single encode session.
type Encoder struct {
	enc   encoders.DataEncoder
	value any
	once  sync.Once
	data  []byte
	err   error
}

var _ sarama.Encoder = (*Encoder)(nil)

func NewEncoder(enc encoders.DataEncoder, value any) *Encoder {
	return &Encoder{enc: enc, value: value}
}

func (e *Encoder) Encode() ([]byte, error) {
	e.once.Do(e.encode)
	return e.data, e.err
}

// Length returns 0 if encoding fails. The error surfaces from Encode.
func (e *Encoder) Length() int {
	e.once.Do(e.encode)
	return len(e.data)
}

func (e *Encoder) encode() {
	var buf bytes.Buffer
	if err := e.enc.EncodeTo(e.value, &buf); err != nil {
		e.err = errors.Wrapf(err, "encode %T", e.value)
		return
	}
	e.data = buf.Bytes()
}
