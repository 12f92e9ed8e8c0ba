package typedcache

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/csf-dev/typedcache/internal/null"
)

// Key is the capability a typed cache key must expose: a deterministic
// string rendering. Values the domain considers equal must render equal
// strings; distinct values should render distinct strings.
type Key interface {
	Render() string
}

// NullPart is the rendering used for nil elements of an Aggregate.
const NullPart = "<null>"

// DefaultSeparator joins Aggregate parts unless overridden.
const DefaultSeparator = "|"

// Aggregate composes a Key from a prefix, a separator and an ordered list
// of parts. A part that implements Key renders through Render; a nil part
// renders as NullPart; anything else uses its default formatting.
//
// Order matters: reordering parts yields a different, unequal key.
type Aggregate struct {
	prefix string
	sep    string
	parts  []any
}

var _ Key = Aggregate{}
var _ fmt.Stringer = Aggregate{}

// NewAggregate builds an Aggregate with the default separator.
func NewAggregate(prefix string, parts ...any) Aggregate {
	return NewAggregateSep(prefix, DefaultSeparator, parts...)
}

// NewAggregateSep builds an Aggregate with an explicit separator. The parts
// slice is copied, so later mutation of the caller's slice does not change
// the key.
func NewAggregateSep(prefix, sep string, parts ...any) Aggregate {
	cp := make([]any, len(parts))
	copy(cp, parts)
	return Aggregate{prefix: prefix, sep: sep, parts: cp}
}

// Render is pure and deterministic: prefix + sep + parts joined by sep.
// With no parts the separator is still present ("prefix|"); callers
// depending on the rendered shape can count on that boundary.
func (a Aggregate) Render() string {
	var b strings.Builder
	b.WriteString(a.prefix)
	b.WriteString(a.sep)
	for i := range a.parts {
		if i > 0 {
			b.WriteString(a.sep)
		}
		b.WriteString(renderPart(a.parts[i]))
	}
	return b.String()
}

// String implements fmt.Stringer so Aggregates nest naturally inside other
// Aggregates and format cleanly in logs.
func (a Aggregate) String() string { return a.Render() }

// Equal reports structural equality: same prefix, same separator and
// pairwise-matching parts in order. Parts match when both are nil or both
// render identically; a trailing nil therefore breaks equality against the
// shorter key.
func (a Aggregate) Equal(b Aggregate) bool {
	if a.prefix != b.prefix || a.sep != b.sep || len(a.parts) != len(b.parts) {
		return false
	}
	for i := range a.parts {
		an, bn := null.IsNil(a.parts[i]), null.IsNil(b.parts[i])
		if an != bn {
			return false
		}
		if !an && renderPart(a.parts[i]) != renderPart(b.parts[i]) {
			return false
		}
	}
	return true
}

const (
	hashMultiplier = 37
	nilPartHash    = 13
)

// Hash folds prefix, separator and every part into an order-sensitive
// multiply-xor accumulator (seed 0). Appending any part, including a
// trailing nil, changes the result.
func (a Aggregate) Hash() uint64 {
	var acc uint64
	acc = acc*hashMultiplier ^ hashString(a.prefix)
	acc = acc*hashMultiplier ^ hashString(a.sep)
	for _, p := range a.parts {
		if null.IsNil(p) {
			acc = acc*hashMultiplier ^ nilPartHash
			continue
		}
		acc = acc*hashMultiplier ^ hashString(renderPart(p))
	}
	return acc
}

func renderPart(p any) string {
	if null.IsNil(p) {
		return NullPart
	}
	if k, ok := p.(Key); ok {
		return k.Render()
	}
	return fmt.Sprint(p)
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
