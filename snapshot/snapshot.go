// Package snapshot publishes compressed model snapshots to object storage.
//
// A snapshot is a pair of documents in a blobstore.Store: the serialized
// model text (optionally compressed) and a small JSON manifest describing
// it. The manifest carries a CRC-32C of the uncompressed text so corrupted
// or truncated downloads fail loudly on load.
package snapshot

import (
	"context"
	"fmt"
	"hash/crc32"
	"strings"
	"time"

	"github.com/buildsim/idfkit/blobstore"
	"github.com/buildsim/idfkit/codec"
	"github.com/buildsim/idfkit/idf"
	"github.com/buildsim/idfkit/schema"
	"github.com/buildsim/idfkit/store"
)

const manifestSuffix = ".manifest.json"

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// Manifest describes one published snapshot.
type Manifest struct {
	Name        string      `json:"name"`
	Document    string      `json:"document"`
	Compression Compression `json:"compression"`
	Codec       string      `json:"codec"`
	Records     int         `json:"records"`
	Size        int         `json:"size"`     // uncompressed document size in bytes
	Checksum    uint32      `json:"checksum"` // CRC-32C of the uncompressed document
	CreatedAt   time.Time   `json:"created_at"`
}

// ErrChecksumMismatch is returned when a fetched document does not match
// its manifest.
type ErrChecksumMismatch struct {
	Name string
	Want uint32
	Got  uint32
}

func (e *ErrChecksumMismatch) Error() string {
	return fmt.Sprintf("snapshot %q checksum mismatch: want %08x, got %08x", e.Name, e.Want, e.Got)
}

// Options configures a Snapshotter.
type Options struct {
	// Codec serializes manifests. Defaults to codec.Default.
	Codec codec.Codec
	// Compression is applied to the document text. Defaults to gzip.
	Compression Compression
}

// Snapshotter saves and loads model snapshots through a blobstore.
type Snapshotter struct {
	docs  blobstore.Store
	codec codec.Codec
	comp  Compression
}

// New creates a Snapshotter over docs.
func New(docs blobstore.Store, optFns ...func(o *Options)) *Snapshotter {
	opts := Options{
		Codec:       codec.Default,
		Compression: CompressionGzip,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Snapshotter{
		docs:  docs,
		codec: opts.Codec,
		comp:  opts.Compression,
	}
}

// Save serializes the model, compresses it, and writes the document plus
// its manifest. The returned manifest is what was published.
func (s *Snapshotter) Save(ctx context.Context, name string, m *store.Store) (*Manifest, error) {
	text, err := idf.WriteString(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize model: %w", err)
	}
	data := []byte(text)

	compressed, err := compress(data, s.comp)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{
		Name:        name,
		Document:    name + ".idf" + s.comp.ext(),
		Compression: s.comp,
		Codec:       s.codec.Name(),
		Records:     m.Len(),
		Size:        len(data),
		Checksum:    crc32.Checksum(data, crc32cTable),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.docs.Put(ctx, manifest.Document, compressed); err != nil {
		return nil, fmt.Errorf("failed to write snapshot document: %w", err)
	}

	encoded, err := s.codec.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := s.docs.Put(ctx, name+manifestSuffix, encoded); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	return manifest, nil
}

// LoadRecords fetches a snapshot by name, verifies it against its manifest,
// and returns the parsed records.
func (s *Snapshotter) LoadRecords(ctx context.Context, name string) ([]*store.Record, error) {
	manifest, err := s.Manifest(ctx, name)
	if err != nil {
		return nil, err
	}

	compressed, err := s.docs.Fetch(ctx, manifest.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot document: %w", err)
	}

	data, err := decompress(compressed, manifest.Compression)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}

	if got := crc32.Checksum(data, crc32cTable); got != manifest.Checksum {
		return nil, &ErrChecksumMismatch{Name: name, Want: manifest.Checksum, Got: got}
	}

	records, err := idf.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return records, nil
}

// Load fetches a snapshot by name and rebuilds the model against ix.
func (s *Snapshotter) Load(ctx context.Context, name string, ix *schema.Index) (*store.Store, error) {
	records, err := s.LoadRecords(ctx, name)
	if err != nil {
		return nil, err
	}
	return store.FromRecords(ix, records), nil
}

// Manifest fetches and decodes the manifest for a snapshot.
func (s *Snapshotter) Manifest(ctx context.Context, name string) (*Manifest, error) {
	encoded, err := s.docs.Fetch(ctx, name+manifestSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w", err)
	}

	var manifest Manifest
	if err := s.codec.Unmarshal(encoded, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &manifest, nil
}

// Delete removes a snapshot's document and manifest.
func (s *Snapshotter) Delete(ctx context.Context, name string) error {
	manifest, err := s.Manifest(ctx, name)
	if err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, manifest.Document); err != nil {
		return err
	}
	return s.docs.Delete(ctx, name+manifestSuffix)
}

// List returns the names of all published snapshots, sorted.
func (s *Snapshotter) List(ctx context.Context) ([]string, error) {
	docs, err := s.docs.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, doc := range docs {
		if strings.HasSuffix(doc, manifestSuffix) {
			names = append(names, strings.TrimSuffix(doc, manifestSuffix))
		}
	}
	return names, nil
}
