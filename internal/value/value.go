// Package value implements the tagged Value type shared by the expression
// evaluator, the variable store, and the interpreter's command dispatch.
package value

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	// Unknown is the sentinel for identifiers with no entry in the symbol
	// table. It coerces to boolean false wherever a boolean is required.
	Unknown Kind = iota
	Bool
	Decimal
	String
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Decimal:
		return "decimal"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the four variants the script language knows.
// String only ever appears as an intermediate result inside the evaluator
// (e.g. an unparsed query argument); variables persisted in the store are
// always Bool or Decimal.
type Value struct {
	kind Kind
	b    bool
	d    decimal.Decimal
	s    string
}

// NewBool constructs a boolean Value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewDecimal constructs a Decimal Value.
func NewDecimal(d decimal.Decimal) Value { return Value{kind: Decimal, d: d} }

// NewString constructs an intermediate String Value.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewUnknown returns the Unknown sentinel Value.
func NewUnknown() Value { return Value{kind: Unknown} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the raw boolean payload. Only meaningful when Kind() == Bool.
func (v Value) Bool() bool { return v.b }

// Decimal returns the raw decimal payload. Only meaningful when Kind() == Decimal.
func (v Value) Decimal() decimal.Decimal { return v.d }

// Str returns the raw string payload. Only meaningful when Kind() == String.
func (v Value) Str() string { return v.s }

// AsBool coerces v to a boolean for use in an `if` condition. Unknown always
// coerces to false (spec §3); non-boolean kinds are a caller error and also
// report false, leaving fatality decisions to the caller.
func (v Value) AsBool() bool {
	if v.kind == Bool {
		return v.b
	}
	return false
}

// String renders the canonical textual form of v, used both for `get` output
// and as the evaluator's return representation before the caller reparses it
// as boolean or decimal.
func (v Value) String() string {
	switch v.kind {
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Decimal:
		return v.d.String()
	case String:
		return v.s
	default:
		return "false"
	}
}

// Equal reports whether two values are equal under the script language's
// rules: values of differing kinds are never equal, except that Unknown is
// never equal to anything (including another Unknown), matching its role as
// a "this identifier doesn't exist" sentinel rather than a real value.
func (v Value) Equal(o Value) bool {
	if v.kind == Unknown || o.kind == Unknown {
		return false
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Bool:
		return v.b == o.b
	case Decimal:
		return v.d.Equal(o.d)
	case String:
		return v.s == o.s
	}
	return false
}

// Store is the ordered variable store (spec §3). It preserves insertion
// order so that diagnostics and debug dumps are reproducible, while lookups
// remain O(1).
type Store struct {
	order []string
	vals  map[string]Value
}

// NewStore returns an empty variable store.
func NewStore() *Store {
	return &Store{vals: make(map[string]Value)}
}

// Get returns the value bound to name and whether it is present.
func (s *Store) Get(name string) (Value, bool) {
	v, ok := s.vals[name]
	return v, ok
}

// Set creates or overwrites the binding for name.
func (s *Store) Set(name string, v Value) {
	if _, exists := s.vals[name]; !exists {
		s.order = append(s.order, name)
	}
	s.vals[name] = v
}

// Clear empties the store, used on `load new` and on restart (spec §3).
func (s *Store) Clear() {
	s.order = nil
	s.vals = make(map[string]Value)
}

// Names returns variable names in insertion order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len reports the number of bound variables.
func (s *Store) Len() int { return len(s.vals) }

// MarkVisited writes the synthetic `visited<fork>=true` key (spec §3, §4.4.2).
func (s *Store) MarkVisited(fork string) {
	s.Set(VisitedKey(fork), NewBool(true))
}

// Visited reports whether fork has ever completed or been left via `goto`.
func (s *Store) Visited(fork string) bool {
	v, ok := s.Get(VisitedKey(fork))
	return ok && v.Kind() == Bool && v.b
}

// VisitedKey formats the synthetic visited-variable name for fork.
func VisitedKey(fork string) string {
	return fmt.Sprintf("visited%s", fork)
}
