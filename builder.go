// Package idfkit provides a schema-driven query and edit engine for IDF files.
//
// This file implements the fluent builder API for opening models.
// The builder is immutable - each method returns a new builder with the
// updated configuration.
package idfkit

import (
	"fmt"
	"io"
	"os"

	"github.com/buildsim/idfkit/idf"
	"github.com/buildsim/idfkit/schema"
	"github.com/buildsim/idfkit/store"
)

// Open creates a new model builder.
//
// A schema source is required; a model source is optional (omitting it opens
// an empty model that CreateObject can populate).
//
// Example:
//
//	m, err := idfkit.Open().
//	    SchemaFile("Energy+.idd").
//	    ModelFile("office.idf").
//	    Build(idfkit.WithResolveThreshold(0.9))
func Open() Builder {
	return Builder{}
}

// Builder is an immutable fluent builder for opening models.
// Each method returns a new builder with the updated configuration.
type Builder struct {
	schemaIndex  *schema.Index
	schemaSource func() (*schema.Index, error)
	modelSource  func() ([]*store.Record, error)
	err          error
}

// Schema uses an already-parsed schema index.
func (b Builder) Schema(ix *schema.Index) Builder {
	b.schemaIndex = ix
	b.schemaSource = nil
	return b
}

// SchemaString parses the schema from IDD text.
func (b Builder) SchemaString(idd string) Builder {
	b.schemaIndex = nil
	b.schemaSource = func() (*schema.Index, error) {
		return schema.ParseString(idd)
	}
	return b
}

// SchemaReader parses the schema from an IDD reader.
func (b Builder) SchemaReader(r io.Reader) Builder {
	b.schemaIndex = nil
	b.schemaSource = func() (*schema.Index, error) {
		return schema.Parse(r)
	}
	return b
}

// SchemaFile parses the schema from an IDD file on disk.
func (b Builder) SchemaFile(path string) Builder {
	b.schemaIndex = nil
	b.schemaSource = func() (*schema.Index, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open schema file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return schema.Parse(f)
	}
	return b
}

// Records opens the model over pre-built records.
func (b Builder) Records(records []*store.Record) Builder {
	b.modelSource = func() ([]*store.Record, error) {
		return records, nil
	}
	return b
}

// ModelString parses the model from IDF text.
func (b Builder) ModelString(src string) Builder {
	b.modelSource = func() ([]*store.Record, error) {
		return idf.ParseString(src)
	}
	return b
}

// ModelReader parses the model from an IDF reader.
func (b Builder) ModelReader(r io.Reader) Builder {
	b.modelSource = func() ([]*store.Record, error) {
		return idf.Parse(r)
	}
	return b
}

// ModelFile parses the model from an IDF file on disk.
func (b Builder) ModelFile(path string) Builder {
	b.modelSource = func() ([]*store.Record, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open model file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return idf.Parse(f)
	}
	return b
}

// Build parses the configured sources and returns the model.
func (b Builder) Build(optFns ...Option) (*Model, error) {
	if b.err != nil {
		return nil, b.err
	}

	ix := b.schemaIndex
	if ix == nil {
		if b.schemaSource == nil {
			return nil, &ErrSchemaRequired{}
		}
		var err error
		ix, err = b.schemaSource()
		if err != nil {
			return nil, fmt.Errorf("failed to parse schema: %w", err)
		}
	}

	var records []*store.Record
	if b.modelSource != nil {
		var err error
		records, err = b.modelSource()
		if err != nil {
			return nil, fmt.Errorf("failed to parse model: %w", err)
		}
	}

	return newModel(ix, records, optFns...), nil
}
