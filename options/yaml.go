package options

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/robbyt/go-polyeval/platform/language"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML form of a Config.
type fileConfig struct {
	Languages []string `yaml:"languages"`
	Timeout   string   `yaml:"timeout"`
	LogLevel  string   `yaml:"log_level"`
}

// FromYAML decodes a YAML document into options. Recognised keys are languages,
// timeout (a Go duration string) and log_level. Unknown keys are rejected.
//
//	languages: [lua, js]
//	timeout: 2s
//	log_level: debug
func FromYAML(doc []byte) ([]Option, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(doc))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	var opts []Option
	if fc.Languages != nil {
		langs := make([]language.Language, 0, len(fc.Languages))
		var errz []error
		for _, name := range fc.Languages {
			lang, err := language.Parse(name)
			if err != nil {
				errz = append(errz, err)
				continue
			}
			langs = append(langs, lang)
		}
		if len(errz) > 0 {
			return nil, errors.Join(errz...)
		}
		opts = append(opts, WithLanguages(langs...))
	}

	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout: %w", err)
		}
		opts = append(opts, WithTimeout(d))
	}

	if fc.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(fc.LogLevel)); err != nil {
			return nil, fmt.Errorf("invalid log_level: %w", err)
		}
		opts = append(opts, WithLogHandler(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
		))
	}
	return opts, nil
}
