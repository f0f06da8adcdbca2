package sink

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

type S3Config struct {
	Endpoint string `yaml:"endpoint" validate:"required"`
	ID       string `yaml:"id" validate:"required"`
	Secret   string `yaml:"secret" validate:"required"`
	SSL      bool   `yaml:"ssl"`
	Bucket   string `yaml:"bucket" validate:"required"`
	Prefix   string `yaml:"prefix" validate:"default=documents"`
}

// S3 uploads every document as a separate object `{prefix}/{run}/{seq}.json`,
// where run is the UTC start time of the sink.
type S3 struct {
	cfg    S3Config
	client *minio.Client
	run    string
	seq    atomic.Uint64
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ID, cfg.Secret, ""),
		Secure: cfg.SSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init S3 client")
	}
	if _, err := client.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, "ping S3")
	}
	return &S3{
		cfg:    cfg,
		client: client,
		run:    time.Now().UTC().Format("20060102T150405"),
	}, nil
}

func (s *S3) Write(ctx context.Context, doc []byte) error {
	key := s.key(s.seq.Add(1))
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(doc), int64(len(doc)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return errors.Wrapf(err, "put S3 object %q", key)
}

func (s *S3) key(seq uint64) string {
	return fmt.Sprintf("%s/%s/%08d.json", s.cfg.Prefix, s.run, seq)
}

func (*S3) Close() error { return nil }
