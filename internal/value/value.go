// Package value defines the closed set of values exchanged with solutions
// under test and their structural equality.
package value

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies a value variant.
type Kind int

// Value variants. The zero Kind marks an invalid value.
const (
	KindInvalid Kind = iota
	KindNumber
	KindText
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// ErrInvalid is returned when an invalid (zero) value takes part in a comparison.
var ErrInvalid = errors.New("invalid value")

// MismatchError reports a comparison between values of different kinds.
type MismatchError struct {
	Path  string
	Left  Kind
	Right Kind
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("cannot compare %s with %s at %s", e.Left, e.Right, displayPath(e.Path))
}

// Value is an immutable number, text, bool, list or map.
type Value struct {
	kind  Kind
	num   float64
	text  string
	flag  bool
	items []Value
	keys  map[string]Value
}

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Int returns a numeric value from an int.
func Int(n int) Value { return Number(float64(n)) }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// List returns an ordered list of values.
func List(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, items: cp}
}

// Ints returns a list of numbers.
func Ints(nums ...int) Value {
	items := make([]Value, len(nums))
	for i, n := range nums {
		items[i] = Int(n)
	}
	return Value{kind: KindList, items: items}
}

// Strings returns a list of text values.
func Strings(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = Text(s)
	}
	return Value{kind: KindList, items: items}
}

// Map returns a keyed mapping.
func Map(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMap, keys: cp}
}

// Counts returns a mapping of string keys to integer counts.
func Counts(m map[string]int) Value {
	cp := make(map[string]Value, len(m))
	for k, n := range m {
		cp[k] = Int(n)
	}
	return Value{kind: KindMap, keys: cp}
}

// Kind returns the value variant.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v was built by one of the constructors.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsNumber returns the numeric payload.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsInt returns the numeric payload when it is integral.
func (v Value) AsInt() (int, bool) {
	if v.kind != KindNumber || v.num != float64(int(v.num)) {
		return 0, false
	}
	return int(v.num), true
}

// AsText returns the text payload.
func (v Value) AsText() (string, bool) { return v.text, v.kind == KindText }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBool }

// Items returns a copy of the list items.
func (v Value) Items() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]Value, len(v.items))
	copy(cp, v.items)
	return cp, true
}

// AsInts returns the list items as ints.
func (v Value) AsInts() ([]int, bool) {
	if v.kind != KindList {
		return nil, false
	}
	out := make([]int, len(v.items))
	for i, item := range v.items {
		n, ok := item.AsInt()
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// Len returns the number of list items or map keys.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.keys)
	default:
		return 0
	}
}

// Get returns the value stored under key in a map.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	item, ok := v.keys[key]
	return item, ok
}

// Keys returns the sorted map keys.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.keys))
	for k := range v.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the value as compact JSON-like text.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.kind {
	case KindNumber:
		b.WriteString(strconv.FormatFloat(v.num, 'g', -1, 64))
	case KindText:
		b.WriteString(strconv.Quote(v.text))
	case KindBool:
		b.WriteString(strconv.FormatBool(v.flag))
	case KindList:
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteByte(',')
			}
			item.write(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			v.keys[k].write(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString("<invalid>")
	}
}
