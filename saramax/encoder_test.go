package saramax

import (
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egsam98/encoders"
	"github.com/egsam98/encoders/jsonenc"
)

type event struct {
	ID   int
	Name string
}

func newEncoder() *jsonenc.Encoder {
	return jsonenc.NewBuilder().
		Register(jsonenc.Object(func(e event, ctx *jsonenc.ObjectContext) error {
			ctx.Add("id", e.ID).Add("name", e.Name)
			return ctx.Err()
		})).
		Build()
}

func TestEncoder(t *testing.T) {
	e := NewEncoder(newEncoder(), event{ID: 1, Name: "created"})
	assert.Equal(t, len(`{"id":1,"name":"created"}`), e.Length())

	data, err := e.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"name":"created"}`, string(data))
}

func TestEncoderMissingStrategy(t *testing.T) {
	e := NewEncoder(newEncoder(), struct{}{})
	assert.Zero(t, e.Length())

	_, err := e.Encode()
	assert.True(t, errors.Is(err, encoders.ErrMissingEncoder))
}

func TestEncoderWithProducer(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"id":2,"name":"deleted"}` {
			return errors.Errorf("unexpected value %s", val)
		}
		return nil
	})

	_, _, err := producer.SendMessage(&sarama.ProducerMessage{
		Topic: "events",
		Value: NewEncoder(newEncoder(), event{ID: 2, Name: "deleted"}),
	})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}
