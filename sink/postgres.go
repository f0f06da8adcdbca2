package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type PostgresConfig struct {
	URL    string `yaml:"url" validate:"required"`
	Table  string `yaml:"table" validate:"required"`
	Column string `yaml:"column" validate:"default=doc"`
}

// Postgres inserts every document as a row into a json/jsonb column.
type Postgres struct {
	pool  *pgxpool.Pool
	query string
}

func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "init Postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping Postgres")
	}
	return &Postgres{pool: pool, query: insertQuery(cfg)}, nil
}

func insertQuery(cfg PostgresConfig) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1)",
		pgx.Identifier(strings.Split(cfg.Table, ".")).Sanitize(),
		pgx.Identifier{cfg.Column}.Sanitize(),
	)
}

func (p *Postgres) Write(ctx context.Context, doc []byte) error {
	_, err := p.pool.Exec(ctx, p.query, string(doc))
	return errors.Wrap(err, "insert document")
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
