// Package schema maps logical fields to their wire shape per protocol version.
//
// Every version-dependent field access in tabgate goes through a Table lookup
// instead of branching on the protocol version where the field is used.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zyedidia/generic/multimap"

	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/errs"
)

// FieldID is the stable name of a concept independent of its wire position.
type FieldID string

// WireType is the on-wire encoding of a field.
type WireType int

// Available wire types.
const (
	Byte WireType = iota
	VarInt
	String // length-prefixed string limited by Entry.Max
	Chat   // json chat component
	OptUUID
)

func (t WireType) String() string {
	switch t {
	case Byte:
		return "byte"
	case VarInt:
		return "varint"
	case String:
		return "string"
	case Chat:
		return "chat"
	case OptUUID:
		return "opt_uuid"
	}
	return fmt.Sprintf("WireType(%d)", int(t))
}

// Range is a half-open protocol range [From, To).
// A zero To leaves the range open towards newer versions.
type Range struct {
	From proto.Protocol
	To   proto.Protocol
}

// Since returns the open range starting at v.
func Since(v *proto.Version) Range { return Range{From: v.Protocol} }

// Between returns the range [from, to).
func Between(from, to *proto.Version) Range { return Range{From: from.Protocol, To: to.Protocol} }

// Contains reports whether p is inside the range.
func (r Range) Contains(p proto.Protocol) bool {
	return p >= r.From && (r.To == 0 || p < r.To)
}

// Overlaps reports whether both ranges share at least one protocol.
func (r Range) Overlaps(o Range) bool {
	aEnd, bEnd := r.To, o.To
	return (bEnd == 0 || r.From < bEnd) && (aEnd == 0 || o.From < aEnd)
}

func (r Range) String() string {
	if r.To == 0 {
		return fmt.Sprintf(">=%d", r.From)
	}
	return fmt.Sprintf(">=%d <%d", r.From, r.To)
}

// Entry describes a field's wire shape within a protocol range.
type Entry struct {
	Field FieldID
	Range Range
	Index int      // Position of the field, e.g. the entity metadata index.
	Type  WireType // How the field is encoded.
	Max   int      // Maximum length for String fields, zero if unbounded.
}

// Table is an immutable set of schema entries.
// It is safe for concurrent use.
type Table struct {
	entries  multimap.MultiMap[FieldID, Entry] // ordered by Range.From per field
	fields   []FieldID                         // sorted
	required map[FieldID]bool
}

// New creates a Table from entries.
// Required fields must resolve for every advertised version, see Validate.
// It fails if two entries of the same field have overlapping ranges.
func New(entries []Entry, required ...FieldID) (*Table, error) {
	t := &Table{
		entries:  multimap.NewMapSlice[FieldID, Entry](),
		required: make(map[FieldID]bool, len(required)),
	}
	for _, f := range required {
		t.required[f] = true
	}
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Range.From < sorted[j].Range.From })
	for _, e := range sorted {
		if e.Range.To != 0 && e.Range.To <= e.Range.From {
			return nil, fmt.Errorf("field %s: empty range %s", e.Field, e.Range)
		}
		for _, other := range t.entries.Get(e.Field) {
			if other.Range.Overlaps(e.Range) {
				return nil, fmt.Errorf("field %s: range %s overlaps %s", e.Field, e.Range, other.Range)
			}
		}
		if t.entries.Count(e.Field) == 0 {
			t.fields = append(t.fields, e.Field)
		}
		t.entries.Put(e.Field, e)
	}
	sort.Slice(t.fields, func(i, j int) bool { return t.fields[i] < t.fields[j] })
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(entries []Entry, required ...FieldID) *Table {
	t, err := New(entries, required...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the entry of field that applies to protocol.
// A missing entry means the field is absent in that version.
func (t *Table) Lookup(field FieldID, protocol proto.Protocol) (Entry, bool) {
	for _, e := range t.entries.Get(field) {
		if e.Range.Contains(protocol) {
			return e, true
		}
	}
	return Entry{}, false
}

// Require is like Lookup but returns an error wrapping errs.ErrUnsupportedField
// if the field is absent in protocol.
func (t *Table) Require(field FieldID, protocol proto.Protocol) (Entry, error) {
	e, ok := t.Lookup(field, protocol)
	if !ok {
		return e, fmt.Errorf("%w: %s in protocol %s", errs.ErrUnsupportedField, field, protocol)
	}
	return e, nil
}

// Fields returns all fields of the table in sorted order.
func (t *Table) Fields() []FieldID {
	return append([]FieldID(nil), t.fields...)
}

// Entries returns the entries of field ordered by version.
func (t *Table) Entries(field FieldID) []Entry {
	return append([]Entry(nil), t.entries.Get(field)...)
}

// Required reports whether field must resolve for every advertised version.
func (t *Table) Required(field FieldID) bool { return t.required[field] }

// Validate checks the table covers versions: every required field resolves
// to exactly one entry for each version and optional fields to at most one.
func (t *Table) Validate(versions []*proto.Version) error {
	var problems []string
	check := func(f FieldID) {
		for _, v := range versions {
			var n int
			for _, e := range t.entries.Get(f) {
				if e.Range.Contains(v.Protocol) {
					n++
				}
			}
			switch {
			case n > 1:
				problems = append(problems, fmt.Sprintf("%s resolves %d entries for %s", f, n, v))
			case n == 0 && t.required[f]:
				problems = append(problems, fmt.Sprintf("%s has no entry for %s", f, v))
			}
		}
	}
	for _, f := range t.Fields() {
		check(f)
	}
	for f := range t.required {
		if t.entries.Count(f) == 0 {
			problems = append(problems, fmt.Sprintf("required field %s has no entries", f))
		}
	}
	if len(problems) != 0 {
		sort.Strings(problems)
		return fmt.Errorf("schema coverage: %s", strings.Join(problems, "; "))
	}
	return nil
}
