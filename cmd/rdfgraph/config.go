package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdf-graph/graph"
	"github.com/geoknoesis/rdf-graph/rdf"
)

// Config is the rdfgraph configuration file.
type Config struct {
	LogLevel          string            `yaml:"log_level"`
	BaseURI           string            `yaml:"base_uri"`
	CompressCacheSize int               `yaml:"compress_cache_size"`
	Namespaces        map[string]string `yaml:"namespaces"`
	Parser            ParserConfig      `yaml:"parser"`
	Writer            WriterConfig      `yaml:"writer"`
}

// ParserConfig bounds the input accepted by the parsers. Zero means the
// parser default.
type ParserConfig struct {
	MaxLineBytes        int   `yaml:"max_line_bytes"`
	MaxTriples          int64 `yaml:"max_triples"`
	KeepBlankNodeLabels bool  `yaml:"keep_blank_node_labels"`
}

// WriterConfig selects the output format and its options.
type WriterConfig struct {
	Format             string `yaml:"format"`
	PrettyPrint        bool   `yaml:"pretty_print"`
	CompressionLevel   string `yaml:"compression_level"`
	HighSpeedPermitted bool   `yaml:"high_speed_permitted"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:          "info",
		CompressCacheSize: graph.DefaultCompressCacheSize,
		Namespaces: map[string]string{
			"rdf":  graph.RDFNamespace,
			"rdfs": graph.RDFSNamespace,
			"xsd":  graph.XSDNamespace,
		},
		Parser: ParserConfig{
			MaxLineBytes:        rdf.DefaultMaxLineBytes,
			KeepBlankNodeLabels: true,
		},
		Writer: WriterConfig{
			Format:             string(rdf.FormatTurtle),
			PrettyPrint:        true,
			CompressionLevel:   "high",
			HighSpeedPermitted: true,
		},
	}
}

// LoadConfig reads a YAML config file. An empty path returns the defaults.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	if _, err := cfg.WriterOptions(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse config: log_level: %w", err)
	}
	return level, nil
}

// OutputFormat returns the configured writer format.
func (c *Config) OutputFormat() (rdf.Format, error) {
	format, ok := rdf.ParseFormat(c.Writer.Format)
	if !ok {
		return "", fmt.Errorf("%w: %q", rdf.ErrUnsupportedFormat, c.Writer.Format)
	}
	return format, nil
}

// ParseOptions converts the parser block and base URI.
func (c *Config) ParseOptions(logger *slog.Logger) []rdf.Option {
	opts := []rdf.Option{
		rdf.OptLogger(logger),
		rdf.OptKeepBlankNodeLabels(c.Parser.KeepBlankNodeLabels),
	}
	if c.BaseURI != "" {
		opts = append(opts, rdf.OptBaseURI(c.BaseURI))
	}
	if c.Parser.MaxLineBytes > 0 {
		opts = append(opts, rdf.OptMaxLineBytes(c.Parser.MaxLineBytes))
	}
	if c.Parser.MaxTriples > 0 {
		opts = append(opts, rdf.OptMaxTriples(c.Parser.MaxTriples))
	}
	return opts
}

// WriterOptions converts the writer block.
func (c *Config) WriterOptions() (rdf.WriterOptions, error) {
	level, err := rdf.ParseCompressionLevel(c.Writer.CompressionLevel)
	if err != nil {
		return rdf.WriterOptions{}, fmt.Errorf("parse config: writer: %w", err)
	}
	return rdf.WriterOptions{
		PrettyPrint:        c.Writer.PrettyPrint,
		CompressionLevel:   level,
		HighSpeedPermitted: c.Writer.HighSpeedPermitted,
	}, nil
}

// NewGraph returns an empty graph with the configured base URI and
// namespaces.
func (c *Config) NewGraph(logger *slog.Logger) (*graph.Graph, error) {
	g := graph.New(
		graph.WithLogger(logger),
		graph.WithCompressCacheSize(c.CompressCacheSize),
	)
	if c.BaseURI != "" {
		if err := g.SetBaseURI(c.BaseURI); err != nil {
			return nil, fmt.Errorf("base_uri: %w", err)
		}
	}
	for prefix, uri := range c.Namespaces {
		g.Namespaces().AddNamespace(prefix, uri)
	}
	return g, nil
}
