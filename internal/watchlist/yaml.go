package watchlist

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLSource reads trades from a YAML document with a top-level "trades" list.
type YAMLSource struct {
	path string
}

type yamlDocument struct {
	Trades []Trade `yaml:"trades"`
}

func (s *YAMLSource) Path() string { return s.path }

func (s *YAMLSource) Load(ctx context.Context) ([]Trade, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return doc.Trades, nil
}
