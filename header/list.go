// Package header implements the ordered, case-insensitive header container
// that httpconn treats as an external collaborator.
package header

import (
	"github.com/indigo-web/iter"
	"github.com/indigo-web/utils/strcomp"
)

// Pair is a single (name, value) header entry. Multiple pairs with the same
// (case-insensitively compared) name are permitted and preserved in arrival order.
type Pair struct {
	Name, Value string
}

// List is an ordered sequence of header pairs with case-insensitive name
// lookup.
type List struct {
	pairs      []Pair
	valuesBuff []string
}

// New returns an empty List. n is a hint for the number of pairs to preallocate.
func New(n int) *List {
	return &List{pairs: make([]Pair, 0, n)}
}

// Add appends a new pair, preserving any existing pairs with the same name.
func (l *List) Add(name, value string) *List {
	l.pairs = append(l.pairs, Pair{Name: name, Value: value})
	return l
}

// Get returns the first value stored under name and whether it was found.
func (l *List) Get(name string) (string, bool) {
	for _, p := range l.pairs {
		if strcomp.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}

	return "", false
}

// Value returns the first value under name, or "" if absent.
func (l *List) Value(name string) string {
	v, _ := l.Get(name)
	return v
}

// Has reports whether any pair is stored under name.
func (l *List) Has(name string) bool {
	_, ok := l.Get(name)
	return ok
}

// Values returns every value stored under name, in arrival order.
//
// WARNING: the returned slice is reused on the next call to Values; copy it
// if it must outlive the next call.
func (l *List) Values(name string) []string {
	l.valuesBuff = l.valuesBuff[:0]

	for _, p := range l.pairs {
		if strcomp.EqualFold(p.Name, name) {
			l.valuesBuff = append(l.valuesBuff, p.Value)
		}
	}

	if len(l.valuesBuff) == 0 {
		return nil
	}

	return l.valuesBuff
}

// Len returns the number of stored pairs.
func (l *List) Len() int {
	return len(l.pairs)
}

// Iter returns an iterator over all pairs in arrival order.
func (l *List) Iter() iter.Iterator[Pair] {
	return iter.Slice(l.pairs)
}

// Unwrap exposes the underlying slice. Callers must not retain it across a Clear.
func (l *List) Unwrap() []Pair {
	return l.pairs
}

// Clear removes every pair without releasing the backing array.
func (l *List) Clear() {
	l.pairs = l.pairs[:0]
}
