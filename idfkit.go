// Package idfkit provides a schema-driven query and edit engine for IDF files.
//
// This file implements the Model facade: instrumented, thread-safe access to
// the record store, selector, and editor.
package idfkit

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/buildsim/idfkit/editor"
	"github.com/buildsim/idfkit/idf"
	"github.com/buildsim/idfkit/match"
	"github.com/buildsim/idfkit/resolver"
	"github.com/buildsim/idfkit/schema"
	"github.com/buildsim/idfkit/selector"
	"github.com/buildsim/idfkit/snapshot"
	"github.com/buildsim/idfkit/store"
)

// Model is a loaded IDF model with its schema, ready for querying and editing.
type Model struct {
	mu       sync.RWMutex
	schema   *schema.Index
	store    *store.Store
	resolver *resolver.Resolver
	selector *selector.Selector
	editor   *editor.Editor
	snap     *snapshot.Snapshotter
	metrics  MetricsCollector
	logger   *Logger
}

// newModel is the internal constructor - external users go through Open().
func newModel(ix *schema.Index, records []*store.Record, optFns ...Option) *Model {
	opts := applyOptions(optFns)

	s := store.FromRecords(ix, records)
	r := resolver.New(func(o *resolver.Options) {
		o.Threshold = opts.resolveThreshold
	})

	m := &Model{
		schema:   ix,
		store:    s,
		resolver: r,
		selector: selector.New(s, r),
		editor:   editor.New(s, r),
		metrics:  opts.metricsCollector,
		logger:   opts.logger,
	}

	if opts.snapshotStore != nil {
		m.snap = snapshot.New(opts.snapshotStore, func(o *snapshot.Options) {
			o.Codec = opts.codec
			o.Compression = opts.compression
		})
	}

	return m
}

// Schema returns the schema index the model was loaded against.
func (m *Model) Schema() *schema.Index { return m.schema }

// Len returns the total number of records in the model.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Len()
}

// Count returns the number of records of the given type.
func (m *Model) Count(typeName string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.CountOfType(typeName)
}

// Describe returns a human-readable summary of a record type's fields,
// defaults, bounds, and choice keys.
func (m *Model) Describe(typeName string) (string, error) {
	text, err := m.schema.Describe(typeName)
	return text, translateError(err)
}

// Query selects records of typeName whose fields satisfy all criteria under
// the given match method. Criteria map field identifiers (fuzzy-resolved) to
// target values. A nil or empty criteria map selects every record of the type.
func (m *Model) Query(ctx context.Context, typeName string, method match.Method, criteria map[string]string) (*selector.Mask, error) {
	start := time.Now()
	m.mu.RLock()
	mask, err := m.selector.Mask(typeName, method, criteria)
	m.mu.RUnlock()

	err = translateError(err)
	matched := 0
	if mask != nil {
		matched = mask.Count()
	}
	m.metrics.RecordQuery(matched, time.Since(start), err)
	m.logger.LogQuery(ctx, typeName, string(method), matched, err)
	return mask, err
}

// AllOfType selects every record of the given type.
func (m *Model) AllOfType(ctx context.Context, typeName string) (*selector.Mask, error) {
	return m.Query(ctx, typeName, match.All, nil)
}

// GetField returns the value of the fuzzy-resolved field for every selected
// record, in store order.
func (m *Model) GetField(ctx context.Context, mask *selector.Mask, identifier string) ([]string, error) {
	start := time.Now()
	m.mu.RLock()
	values, err := m.editor.GetField(mask, identifier)
	m.mu.RUnlock()

	err = translateError(err)
	m.metrics.RecordGetField(time.Since(start), err)
	m.logger.LogGetField(ctx, identifier, len(values), err)
	return values, err
}

// GetFieldAt returns the value at a positional field index for every selected
// record. Unlike GetField it works across mixed record types.
func (m *Model) GetFieldAt(ctx context.Context, mask *selector.Mask, fieldIndex int) ([]string, error) {
	start := time.Now()
	m.mu.RLock()
	values, err := m.editor.GetFieldAt(mask, fieldIndex)
	m.mu.RUnlock()

	err = translateError(err)
	m.metrics.RecordGetField(time.Since(start), err)
	m.logger.LogGetField(ctx, fmt.Sprintf("#%d", fieldIndex), len(values), err)
	return values, err
}

// SetField writes value into the fuzzy-resolved field of every selected record.
func (m *Model) SetField(ctx context.Context, mask *selector.Mask, identifier, value string) error {
	start := time.Now()
	m.mu.Lock()
	err := m.editor.SetField(mask, identifier, value)
	m.mu.Unlock()

	err = translateError(err)
	count := 0
	if err == nil {
		count = mask.Count()
	}
	m.metrics.RecordSetField(count, time.Since(start), err)
	m.logger.LogSetField(ctx, identifier, count, err)
	return err
}

// SetFieldSlice writes values positionally into the selected records. The
// number of values must equal the number of selected records; on mismatch
// nothing is written.
func (m *Model) SetFieldSlice(ctx context.Context, mask *selector.Mask, identifier string, values []string) error {
	start := time.Now()
	m.mu.Lock()
	err := m.editor.SetFieldSlice(mask, identifier, values)
	m.mu.Unlock()

	err = translateError(err)
	count := 0
	if err == nil {
		count = len(values)
	}
	m.metrics.RecordSetField(count, time.Since(start), err)
	m.logger.LogSetField(ctx, identifier, count, err)
	return err
}

// CreateObject appends a new record of typeName. Schema defaults fill fields
// not named in fields; every field is validated against the schema before the
// record is added. Masks taken before the call become stale.
func (m *Model) CreateObject(ctx context.Context, typeName string, fields map[string]string) (*store.Record, error) {
	start := time.Now()
	m.mu.Lock()
	rec, err := m.editor.CreateObject(typeName, fields)
	m.mu.Unlock()

	err = translateError(err)
	m.metrics.RecordCreate(time.Since(start), err)
	m.logger.LogCreate(ctx, typeName, err)
	return rec, err
}

// DeleteObjects removes every selected record, preserving the relative order
// of the rest. Returns the number of records removed. Masks taken before the
// call become stale.
func (m *Model) DeleteObjects(ctx context.Context, mask *selector.Mask) (int, error) {
	start := time.Now()
	m.mu.Lock()
	removed, err := m.editor.DeleteMasked(mask)
	m.mu.Unlock()

	err = translateError(err)
	m.metrics.RecordDelete(len(removed), time.Since(start), err)
	m.logger.LogDelete(ctx, len(removed), err)
	return len(removed), err
}

// WriteIDF serializes the model as annotated IDF text.
func (m *Model) WriteIDF(w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return idf.Write(w, m.store)
}

// IDFString serializes the model as annotated IDF text.
func (m *Model) IDFString() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return idf.WriteString(m.store)
}

// Store exposes the underlying record store for low-level access. Mutating
// it directly bypasses the model's locking and instrumentation.
func (m *Model) Store() *store.Store {
	return m.store
}

// SaveSnapshot publishes the model to the configured snapshot store.
func (m *Model) SaveSnapshot(ctx context.Context, name string) (*snapshot.Manifest, error) {
	start := time.Now()
	if m.snap == nil {
		return nil, ErrNoSnapshotStore
	}

	m.mu.RLock()
	manifest, err := m.snap.Save(ctx, name, m.store)
	m.mu.RUnlock()

	err = translateError(err)
	m.metrics.RecordSnapshot(time.Since(start), err)
	m.logger.LogSnapshot(ctx, name, err)
	return manifest, err
}

// LoadSnapshot fetches a snapshot by name and replaces the model's records
// with it. All existing masks become stale.
func (m *Model) LoadSnapshot(ctx context.Context, name string) error {
	start := time.Now()
	if m.snap == nil {
		return ErrNoSnapshotStore
	}

	m.mu.Lock()
	records, err := m.snap.LoadRecords(ctx, name)
	if err == nil {
		m.store.Reset(records)
	}
	m.mu.Unlock()

	err = translateError(err)
	m.metrics.RecordSnapshot(time.Since(start), err)
	m.logger.LogLoad(ctx, name, len(records), err)
	return err
}

// Snapshots lists the names of snapshots in the configured store.
func (m *Model) Snapshots(ctx context.Context) ([]string, error) {
	if m.snap == nil {
		return nil, ErrNoSnapshotStore
	}
	names, err := m.snap.List(ctx)
	return names, translateError(err)
}
