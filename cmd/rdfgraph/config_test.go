package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/geoknoesis/rdf-graph/rdf"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rdfgraph.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level, _ := cfg.Level(); level != slog.LevelInfo {
		t.Fatalf("expected info level, got %v", level)
	}
	format, err := cfg.OutputFormat()
	if err != nil || format != rdf.FormatTurtle {
		t.Fatalf("expected turtle output, got %q, %v", format, err)
	}
	opts, _ := cfg.WriterOptions()
	want := rdf.WriterOptions{PrettyPrint: true, CompressionLevel: rdf.CompressionHigh, HighSpeedPermitted: true}
	if opts != want {
		t.Fatalf("writer options = %+v, want %+v", opts, want)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
base_uri: http://example.org/base/
namespaces:
  ex: http://example.org/
parser:
  max_triples: 10
writer:
  format: jsonld
  compression_level: some
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level, _ := cfg.Level(); level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", level)
	}
	if format, _ := cfg.OutputFormat(); format != rdf.FormatJSONLD {
		t.Fatalf("expected jsonld, got %q", format)
	}
	opts, _ := cfg.WriterOptions()
	if opts.CompressionLevel != rdf.CompressionSome || !opts.PrettyPrint {
		t.Fatalf("expected some compression with the default pretty print, got %+v", opts)
	}
	if cfg.Parser.MaxTriples != 10 || cfg.Parser.MaxLineBytes != rdf.DefaultMaxLineBytes {
		t.Fatalf("unexpected parser config: %+v", cfg.Parser)
	}

	g, err := cfg.NewGraph(slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.BaseURI() != "http://example.org/base/" {
		t.Fatalf("unexpected base URI %q", g.BaseURI())
	}
	for _, prefix := range []string{"ex", "rdf", "rdfs", "xsd"} {
		if !g.Namespaces().HasNamespace(prefix) {
			t.Fatalf("expected prefix %s", prefix)
		}
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "writer: [\n"},
		{"bad level", "log_level: loud\n"},
		{"bad compression", "writer:\n  compression_level: max\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}
