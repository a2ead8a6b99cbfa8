// Package resolver maps user-supplied field identifiers to canonical
// schema field indexes.
//
// Schema field names carry inconsistent casing, spaces and punctuation
// across IDD versions, so callers write ergonomic identifiers (typically
// snake_case without special characters) and resolution happens in two
// phases: an exact match on normalized names wins outright, otherwise the
// highest-scoring candidate above a confidence threshold is picked. Ties
// are reported, never guessed.
package resolver

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/buildsim/idfkit/schema"
)

// DefaultThreshold is the minimum normalized-Levenshtein similarity a
// fallback candidate must reach to be accepted.
const DefaultThreshold = 0.8

// ErrFieldNotFound indicates an identifier that matched no field name at or
// above the confidence threshold.
type ErrFieldNotFound struct {
	Identifier string
	Type       string
	BestScore  float64
}

func (e *ErrFieldNotFound) Error() string {
	return fmt.Sprintf("no field of %s matches %q (best score %.2f)", e.Type, e.Identifier, e.BestScore)
}

// ErrAmbiguousField indicates two or more field names tied at the top
// similarity score. Candidates carries the canonical names so the caller
// can disambiguate with a more specific identifier.
type ErrAmbiguousField struct {
	Identifier string
	Type       string
	Candidates []string
}

func (e *ErrAmbiguousField) Error() string {
	return fmt.Sprintf("identifier %q is ambiguous for %s: candidates %v", e.Identifier, e.Type, e.Candidates)
}

// Options configures a Resolver.
type Options struct {
	// Threshold is the minimum similarity score for fuzzy fallback matches.
	Threshold float64
}

// Resolver resolves identifiers against record templates. Stateless and
// deterministic per template; the zero-cost construction makes per-call
// caching a caller concern.
type Resolver struct {
	threshold float64
}

// New creates a Resolver.
func New(optFns ...func(o *Options)) *Resolver {
	opts := Options{Threshold: DefaultThreshold}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resolver{threshold: opts.Threshold}
}

// Normalize lowers the identifier and collapses every run of whitespace,
// underscores and punctuation into a single space, trimming the ends.
// "Design Flow-Rate {m3/s}" and "design_flow_rate m3 s" normalize equal.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if pendingSep && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSep = false
			b.WriteRune(r)
		} else {
			pendingSep = true
		}
	}
	return b.String()
}

// Resolve returns the field index the identifier names within the template.
//
// Exact normalized matches win outright. Otherwise every field name is
// scored with a normalized Levenshtein ratio and the single best candidate
// at or above the threshold is returned; ties fail with ErrAmbiguousField
// and a hopeless identifier fails with ErrFieldNotFound.
func (r *Resolver) Resolve(rt *schema.RecordTemplate, identifier string) (int, error) {
	norm := Normalize(identifier)

	exact := -1
	var exactNames []string
	for i := range rt.Fields {
		if Normalize(rt.Fields[i].Name) == norm {
			if exact < 0 {
				exact = i
			}
			exactNames = append(exactNames, rt.Fields[i].Name)
		}
	}
	if len(exactNames) > 1 {
		return 0, &ErrAmbiguousField{Identifier: identifier, Type: rt.Name, Candidates: exactNames}
	}
	if exact >= 0 {
		return exact, nil
	}

	best := -1
	bestScore := 0.0
	var tied []string
	for i := range rt.Fields {
		score := Similarity(norm, Normalize(rt.Fields[i].Name))
		switch {
		case score > bestScore:
			best = i
			bestScore = score
			tied = tied[:0]
			tied = append(tied, rt.Fields[i].Name)
		case score == bestScore && best >= 0:
			tied = append(tied, rt.Fields[i].Name)
		}
	}

	if best < 0 || bestScore < r.threshold {
		return 0, &ErrFieldNotFound{Identifier: identifier, Type: rt.Name, BestScore: bestScore}
	}
	if len(tied) > 1 {
		return 0, &ErrAmbiguousField{Identifier: identifier, Type: rt.Name, Candidates: tied}
	}
	return best, nil
}

// Similarity is the normalized Levenshtein ratio of two strings:
// 1 - distance/maxLen, in [0, 1].
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(maxLen)
}
