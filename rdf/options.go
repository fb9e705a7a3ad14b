package rdf

import "log/slog"

const (
	DefaultMaxLineBytes = 1 << 20
)

// Option configures parsing and loading.
type Option func(*Options)

// Options configures parser behavior and limits.
// Zero values use defaults. Use negative values to disable specific limits.
type Options struct {
	// Security limits for untrusted input
	MaxLineBytes int
	MaxTriples   int64

	// BaseURI resolves relative references in JSON-LD documents.
	BaseURI string

	// KeepBlankNodeLabels makes loaded blank nodes reuse the document's
	// labels when the target graph does not use them yet.
	KeepBlankNodeLabels bool

	Logger *slog.Logger
}

// OptMaxLineBytes sets the maximum N-Triples line length.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxLineBytes = maxBytes
	}
}

// OptMaxTriples sets the maximum number of triples a parse may emit.
func OptMaxTriples(maxTriples int64) Option {
	return func(opts *Options) {
		opts.MaxTriples = maxTriples
	}
}

// OptBaseURI sets the base URI for documents that contain relative references.
func OptBaseURI(base string) Option {
	return func(opts *Options) {
		opts.BaseURI = base
	}
}

// OptKeepBlankNodeLabels controls whether loading keeps document blank node labels.
func OptKeepBlankNodeLabels(keep bool) Option {
	return func(opts *Options) {
		opts.KeepBlankNodeLabels = keep
	}
}

// OptLogger sets the logger for load summaries.
func OptLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func defaultOptions() Options {
	return Options{
		MaxLineBytes:        DefaultMaxLineBytes,
		KeepBlankNodeLabels: true,
	}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxLineBytes == 0 {
		options.MaxLineBytes = DefaultMaxLineBytes
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	return options
}
