// Package idfkit provides a schema-driven query and edit engine for IDF files.
//
// This file implements a fluent query API over the Model.
package idfkit

import (
	"context"

	"github.com/buildsim/idfkit/match"
	"github.com/buildsim/idfkit/selector"
)

// Find creates a new fluent query builder for the given record type.
//
// Example:
//
//	mask, err := m.Find("Zone").
//	    Where("name", "BASEMENT").
//	    Words().
//	    Mask(ctx)
//
//	// Or read values directly:
//	heights, err := m.Find("Zone").
//	    Where("Name", "B.*").
//	    Regexp().
//	    Values(ctx, "Ceiling Height")
func (m *Model) Find(typeName string) *QueryBuilder {
	return &QueryBuilder{
		m:        m,
		typeName: typeName,
		method:   match.Words, // Default method
	}
}

// QueryBuilder is a fluent builder for constructing record queries.
type QueryBuilder struct {
	m        *Model
	typeName string
	method   match.Method
	criteria map[string]string
}

// Where adds a field criterion. Identifiers are fuzzy-resolved against the
// schema; all criteria must hold for a record to be selected.
func (q *QueryBuilder) Where(identifier, value string) *QueryBuilder {
	if q.criteria == nil {
		q.criteria = make(map[string]string)
	}
	q.criteria[identifier] = value
	return q
}

// Exact selects case-sensitive equality matching (numeric values compare
// numerically).
func (q *QueryBuilder) Exact() *QueryBuilder {
	q.method = match.Exact
	return q
}

// Words selects word-level containment matching (the default).
func (q *QueryBuilder) Words() *QueryBuilder {
	q.method = match.Words
	return q
}

// Substring selects substring matching.
func (q *QueryBuilder) Substring() *QueryBuilder {
	q.method = match.Substring
	return q
}

// Regexp treats criterion values as regular expressions.
func (q *QueryBuilder) Regexp() *QueryBuilder {
	q.method = match.Regexp
	return q
}

// Range treats criterion values as numeric "min..max" intervals.
func (q *QueryBuilder) Range() *QueryBuilder {
	q.method = match.Range
	return q
}

// Method sets the match method by name.
func (q *QueryBuilder) Method(m match.Method) *QueryBuilder {
	q.method = m
	return q
}

// Mask executes the query and returns the selection mask.
func (q *QueryBuilder) Mask(ctx context.Context) (*selector.Mask, error) {
	return q.m.Query(ctx, q.typeName, q.method, q.criteria)
}

// Count executes the query and returns the number of selected records.
func (q *QueryBuilder) Count(ctx context.Context) (int, error) {
	mask, err := q.Mask(ctx)
	if err != nil {
		return 0, err
	}
	return mask.Count(), nil
}

// Values executes the query and returns the given field of every selected
// record.
func (q *QueryBuilder) Values(ctx context.Context, identifier string) ([]string, error) {
	mask, err := q.Mask(ctx)
	if err != nil {
		return nil, err
	}
	return q.m.GetField(ctx, mask, identifier)
}
