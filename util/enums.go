package util

import (
	"fmt"
	"math/bits"
	"strings"
)

// Enum is the set of integer types usable as enums here. Values run from 0
// to the number of names minus one.
type Enum interface {
	~int | ~int8 | ~int16 | ~int32 | ~uint | ~uint8 | ~uint16 | ~uint32
}

// EnumRegistry names the values of an enum. Value i is called names[i].
type EnumRegistry[E Enum] struct {
	names  []string
	byName map[string]E
}

// NewEnumRegistry returns a registry where value i is named names[i].
// Names are matched case-insensitively by Parse.
func NewEnumRegistry[E Enum](names ...string) *EnumRegistry[E] {
	r := &EnumRegistry[E]{
		names:  names,
		byName: make(map[string]E, len(names)),
	}
	for i, n := range names {
		r.byName[strings.ToLower(n)] = E(i)
	}
	return r
}

// Valid reports whether e has a name.
func (r *EnumRegistry[E]) Valid(e E) bool {
	return int(e) >= 0 && int(e) < len(r.names)
}

// Name returns the name of e, or a placeholder such as "Enum(7)" when e
// has none.
func (r *EnumRegistry[E]) Name(e E) string {
	if !r.Valid(e) {
		return fmt.Sprintf("Enum(%d)", int(e))
	}
	return r.names[int(e)]
}

// Parse returns the value called name.
func (r *EnumRegistry[E]) Parse(name string) (E, error) {
	e, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownEnumName, name, strings.Join(r.names, ", "))
	}
	return e, nil
}

// Values returns every named value in order.
func (r *EnumRegistry[E]) Values() []E {
	out := make([]E, len(r.names))
	for i := range r.names {
		out[i] = E(i)
	}
	return out
}

func (r *EnumRegistry[E]) Names() []string {
	return append([]string(nil), r.names...)
}

// ParseSet parses a list of names into a set.
func (r *EnumRegistry[E]) ParseSet(names []string) (EnumSet[E], error) {
	var s EnumSet[E]
	for _, n := range names {
		e, err := r.Parse(n)
		if err != nil {
			return 0, err
		}
		s, err = s.Add(e)
		if err != nil {
			return 0, err
		}
	}
	return s, nil
}

// EnumSet is a set of enum values below 64 stored as a bit set. It is a
// value; Add and Remove return the updated set.
type EnumSet[E Enum] uint64

// SetOf returns the set holding values. It panics for values that do not
// fit, which only happens with constant misuse.
func SetOf[E Enum](values ...E) EnumSet[E] {
	var s EnumSet[E]
	for _, v := range values {
		var err error
		if s, err = s.Add(v); err != nil {
			panic(err)
		}
	}
	return s
}

// FromBits returns the set whose bit i is set for every value i.
func FromBits[E Enum](b uint64) EnumSet[E] {
	return EnumSet[E](b)
}

func (s EnumSet[E]) Add(e E) (EnumSet[E], error) {
	if int(e) < 0 || int(e) >= 64 {
		return s, fmt.Errorf("%w: %d", ErrEnumOutOfRange, int(e))
	}
	return s | 1<<uint(e), nil
}

func (s EnumSet[E]) Remove(e E) EnumSet[E] {
	if int(e) < 0 || int(e) >= 64 {
		return s
	}
	return s &^ (1 << uint(e))
}

func (s EnumSet[E]) Has(e E) bool {
	if int(e) < 0 || int(e) >= 64 {
		return false
	}
	return s&(1<<uint(e)) != 0
}

func (s EnumSet[E]) Len() int { return bits.OnesCount64(uint64(s)) }

func (s EnumSet[E]) Bits() uint64 { return uint64(s) }

// Values returns the members in ascending order.
func (s EnumSet[E]) Values() []E {
	out := make([]E, 0, s.Len())
	for b := uint64(s); b != 0; b &= b - 1 {
		out = append(out, E(bits.TrailingZeros64(b)))
	}
	return out
}

// Names returns the names of the members in ascending value order.
func (s EnumSet[E]) Names(r *EnumRegistry[E]) []string {
	values := s.Values()
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = r.Name(v)
	}
	return out
}
