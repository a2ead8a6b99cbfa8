// Package idf parses and serializes IDF model text.
//
// The format is record-oriented: each record is a type name followed by a
// comma-separated list of field values, terminated by a semicolon.
// Comments run from '!' to end of line; '!-' and '!=' editor annotations
// are comments like any other and are dropped during parsing.
package idf

import (
	"fmt"
	"io"
	"strings"

	"github.com/buildsim/idfkit/schema"
	"github.com/buildsim/idfkit/store"
)

// Parse reads IDF text into records. Field values are kept as strings,
// numerics included, in declaration order.
func Parse(r io.Reader) ([]*store.Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("idf: read source: %w", err)
	}
	return ParseString(string(raw))
}

// ParseString parses IDF text held in memory.
func ParseString(src string) ([]*store.Record, error) {
	// Strip comments line by line, then treat the rest as a flat stream of
	// ';'-terminated records.
	var b strings.Builder
	for _, line := range strings.Split(src, "\n") {
		if i := strings.IndexByte(line, '!'); i >= 0 {
			line = line[:i]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var records []*store.Record
	for n, chunk := range strings.Split(b.String(), ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		parts := strings.Split(chunk, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[0] == "" {
			return nil, fmt.Errorf("idf: record %d has an empty type name", n+1)
		}
		records = append(records, store.NewRecord(parts[0], parts[1:]...))
	}
	return records, nil
}

// valueColumn is the column field comments are aligned to when writing.
const valueColumn = 45

// Write serializes the store back to IDF text in record order, one field
// per line, annotated with the schema's field names where the type is
// known.
func Write(w io.Writer, s *store.Store) error {
	first := true
	for _, rec := range s.All() {
		if !first {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		first = false
		if err := writeRecord(w, s.Schema(), rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteString serializes the store to a string.
func WriteString(s *store.Store) (string, error) {
	var b strings.Builder
	if err := Write(&b, s); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeRecord(w io.Writer, ix *schema.Index, rec *store.Record) error {
	names := fieldNames(ix, rec)

	values := rec.Values()
	if len(values) == 0 {
		_, err := fmt.Fprintf(w, "%s;\n", rec.Type())
		return err
	}

	if _, err := fmt.Fprintf(w, "%s,\n", rec.Type()); err != nil {
		return err
	}
	for i, v := range values {
		sep := ","
		if i == len(values)-1 {
			sep = ";"
		}
		comment := ""
		if i < len(names) && names[i] != "" {
			comment = " !- " + names[i]
		}
		if _, err := fmt.Fprintf(w, "    %-*s%s\n", valueColumn, v+sep, comment); err != nil {
			return err
		}
	}
	return nil
}

func fieldNames(ix *schema.Index, rec *store.Record) []string {
	if ix == nil {
		return nil
	}
	rt, err := ix.TemplateFor(rec.Type())
	if err != nil {
		// Unknown types serialize without field annotations.
		return nil
	}
	return rt.FieldNames()
}
