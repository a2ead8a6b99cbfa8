package idfkit

import (
	"log/slog"

	"github.com/buildsim/idfkit/blobstore"
	"github.com/buildsim/idfkit/codec"
	"github.com/buildsim/idfkit/resolver"
	"github.com/buildsim/idfkit/snapshot"
)

type options struct {
	codec            codec.Codec
	compression      snapshot.Compression
	resolveThreshold float64
	metricsCollector MetricsCollector
	logger           *Logger
	snapshotStore    blobstore.Store
}

// Option configures Model constructor behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. codec-specific constructor variants).
type Option func(*options)

// WithCodec configures the codec used for snapshot manifests.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the compression applied to snapshot documents.
// Default: gzip.
func WithCompression(c snapshot.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithResolveThreshold configures the minimum similarity score for fuzzy
// field name resolution. Identifiers scoring below the threshold fail with
// a not-found error rather than silently picking a bad match.
//
// Default: resolver.DefaultThreshold (0.8). Range: 0.0-1.0.
func WithResolveThreshold(threshold float64) Option {
	return func(o *options) {
		o.resolveThreshold = threshold
	}
}

// WithSnapshotStore configures the document store that SaveSnapshot and
// LoadSnapshot publish through. Any blobstore.Store works: memory, local
// directory, MinIO, S3.
//
// Example:
//
//	m, _ := idfkit.Open().
//	    SchemaFile("Energy+.idd").
//	    ModelFile("office.idf").
//	    Build(idfkit.WithSnapshotStore(blobstore.NewLocalStore("./snapshots")))
func WithSnapshotStore(s blobstore.Store) Option {
	return func(o *options) {
		o.snapshotStore = s
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &idfkit.BasicMetricsCollector{}
//	m, _ := idfkit.Open().SchemaString(idd).Build(idfkit.WithMetricsCollector(metrics))
//	// ... use m ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := idfkit.NewJSONLogger(slog.LevelInfo)
//	m, _ := idfkit.Open().SchemaString(idd).Build(idfkit.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      snapshot.CompressionGzip,
		resolveThreshold: resolver.DefaultThreshold,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
