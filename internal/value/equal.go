package value

import (
	"fmt"
	"strconv"
)

// Equal compares a and b structurally. Numbers, text and booleans compare by
// value; lists element-wise with equal length; maps per key with equal key
// sets. Values of different kinds are rejected with a *MismatchError.
func Equal(a, b Value) (bool, error) {
	return equalAt("", a, b)
}

func equalAt(path string, a, b Value) (bool, error) {
	if !a.IsValid() || !b.IsValid() {
		return false, fmt.Errorf("%w at %s", ErrInvalid, displayPath(path))
	}
	if a.kind != b.kind {
		return false, &MismatchError{Path: path, Left: a.kind, Right: b.kind}
	}
	switch a.kind {
	case KindNumber:
		return a.num == b.num, nil
	case KindText:
		return a.text == b.text, nil
	case KindBool:
		return a.flag == b.flag, nil
	case KindList:
		if len(a.items) != len(b.items) {
			return false, nil
		}
		for i := range a.items {
			eq, err := equalAt(path+"["+strconv.Itoa(i)+"]", a.items[i], b.items[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case KindMap:
		if len(a.keys) != len(b.keys) {
			return false, nil
		}
		for _, k := range a.Keys() {
			other, ok := b.keys[k]
			if !ok {
				return false, nil
			}
			eq, err := equalAt(path+"."+k, a.keys[k], other)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}
	return false, nil
}

func displayPath(path string) string {
	if path == "" {
		return "$"
	}
	return "$" + path
}
