package sink

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/egsam98/encoders/internal/kgox"
)

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" validate:"min=1"`
	Topic   string   `yaml:"topic" validate:"required"`
	// Partitions of the topic created if it does not exist. Zero skips creation.
	Partitions        int32 `yaml:"partitions" validate:"min=0"`
	ReplicationFactor int16 `yaml:"replication_factor" validate:"default=1,min=1"`
}

// Kafka produces every document as a record value to a single topic.
type Kafka struct {
	client *kgo.Client
}

func NewKafka(ctx context.Context, cfg KafkaConfig) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.WithLogger(kgox.NewLogger(&log.Logger)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "init Kafka client")
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "ping Kafka")
	}
	if cfg.Partitions > 0 {
		if err := createTopic(ctx, kadm.NewClient(client), cfg); err != nil {
			client.Close()
			return nil, err
		}
	}
	return &Kafka{client: client}, nil
}

func createTopic(ctx context.Context, admin *kadm.Client, cfg KafkaConfig) error {
	res, err := admin.CreateTopic(ctx, cfg.Partitions, cfg.ReplicationFactor, nil, cfg.Topic)
	if err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
		return errors.Wrapf(err, "create topic %q", cfg.Topic)
	}
	return nil
}

func (k *Kafka) Write(ctx context.Context, doc []byte) error {
	rec := &kgo.Record{Value: bytes.Clone(doc)}
	return errors.Wrap(k.client.ProduceSync(ctx, rec).FirstErr(), "produce")
}

func (k *Kafka) Close() error {
	k.client.Close()
	return nil
}
