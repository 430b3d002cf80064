package value

import (
	"encoding/json"
	"fmt"
)

// FromAny converts a decoded YAML or JSON tree into a Value.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return Text(t), nil
	case int:
		return Int(t), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return Value{kind: KindList, items: items}, nil
	case map[string]any:
		keys := make(map[string]Value, len(t))
		for k, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf(".%s: %w", k, err)
			}
			keys[k] = v
		}
		return Value{kind: KindMap, keys: keys}, nil
	case nil:
		return Value{}, fmt.Errorf("null is not a supported value")
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}
