package selector

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/buildsim/idfkit/match"
	"github.com/buildsim/idfkit/resolver"
	"github.com/buildsim/idfkit/store"
)

// Selector builds masks over a record store using the field resolver and
// the pluggable match predicates.
type Selector struct {
	store    *store.Store
	resolver *resolver.Resolver
}

// New creates a Selector over the given store.
func New(s *store.Store, r *resolver.Resolver) *Selector {
	if r == nil {
		r = resolver.New()
	}
	return &Selector{store: s, resolver: r}
}

// Mask selects the records of typeName whose fields satisfy every
// criterion under the given match method (logical AND). No criteria
// selects every record of the type.
//
// Criterion identifiers are resolved once per call against the type's
// template - the template is identical for every record of a type, so
// re-resolving per record would only repeat the same work.
func (sel *Selector) Mask(typeName string, method match.Method, criteria map[string]string) (*Mask, error) {
	rt, err := sel.store.Schema().TemplateFor(typeName)
	if err != nil {
		return nil, err
	}

	pred, err := match.For(method)
	if err != nil {
		return nil, err
	}

	type criterion struct {
		fieldIndex int
		target     string
	}
	resolved := make([]criterion, 0, len(criteria))
	for identifier, target := range criteria {
		fi, err := sel.resolver.Resolve(rt, identifier)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, criterion{fieldIndex: fi, target: target})
	}

	bits := roaring.New()
	for i, r := range sel.store.RecordsOfType(typeName) {
		selected := true
		for _, c := range resolved {
			if !pred(r.Value(c.fieldIndex), c.target) {
				selected = false
				break
			}
		}
		if selected {
			bits.Add(uint32(i))
		}
	}

	return newMask(bits, sel.store.Len(), sel.store.Epoch()), nil
}

// AllOfType selects every record of the type, equivalent to Mask with the
// "all" method and no criteria.
func (sel *Selector) AllOfType(typeName string) (*Mask, error) {
	return sel.Mask(typeName, match.All, nil)
}
