package main

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/egsam98/encoders/internal/validate"
)

type Config struct {
	Name string `yaml:"name" validate:"default=encoders"`
	Log  struct {
		Pretty bool          `yaml:"pretty"`
		Level  zerolog.Level `yaml:"level"`
	} `yaml:"log"`
	Inputs      []string `yaml:"inputs"`
	Concurrency int      `yaml:"concurrency" validate:"default=4,min=1"`
	Progress    bool     `yaml:"progress"`
	Encoder     struct {
		IgnoreNullValues bool `yaml:"ignore_null_values"`
		MaxDepth         int  `yaml:"max_depth" validate:"default=1000,min=1"`
	} `yaml:"encoder"`
	// Sink is decoded by sink.NewFromYAML according to its `type` key.
	Sink yaml.Node `yaml:"sink"`
}

func (c *Config) Parse(src []byte) error {
	if err := yaml.Unmarshal(src, c); err != nil {
		return errors.Wrap(err, "decode config")
	}
	return validate.Struct(c)
}
