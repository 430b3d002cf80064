package value

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualNestedLists(t *testing.T) {
	a := List(Int(1), Ints(2, 3))
	same := List(Int(1), Ints(2, 3))
	other := List(Int(1), Ints(2, 4))

	eq, err := Equal(a, same)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = Equal(a, other)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEqualListLength(t *testing.T) {
	eq, err := Equal(Ints(1, 3), Ints())
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEqualMapsIgnoreKeyOrder(t *testing.T) {
	ab := Map(map[string]Value{"a": Int(1), "b": Int(2)})
	ba := Map(map[string]Value{"b": Int(2), "a": Int(1)})
	onlyA := Map(map[string]Value{"a": Int(1)})

	eq, err := Equal(ab, ba)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = Equal(ab, onlyA)
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = Equal(onlyA, Map(map[string]Value{"c": Int(1)}))
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEqualPrimitives(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"numbers", Int(45), Number(45), true},
		{"different numbers", Int(45), Int(-1), false},
		{"text", Text("olleh"), Text("olleh"), true},
		{"different text", Text("a"), Text("b"), false},
		{"bools", Bool(true), Bool(true), true},
		{"different bools", Bool(true), Bool(false), false},
		{"empty maps", Map(nil), Counts(map[string]int{}), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eq, err := Equal(tc.a, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, eq)
		})
	}
}

func TestEqualRejectsMismatchedKinds(t *testing.T) {
	_, err := Equal(Int(1), Text("1"))
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, KindNumber, mismatch.Left)
	assert.Equal(t, KindText, mismatch.Right)

	_, err = Equal(List(Int(1), Text("a")), Ints(1, 2))
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "[1]", mismatch.Path)
	assert.Contains(t, err.Error(), "$[1]")
}

func TestEqualRejectsInvalid(t *testing.T) {
	_, err := Equal(Value{}, Int(1))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFromAny(t *testing.T) {
	v, err := FromAny([]any{[]any{1, 2, 4, 6, 10}, 11})
	require.NoError(t, err)
	items, ok := v.Items()
	require.True(t, ok)
	require.Len(t, items, 2)
	nums, ok := items[0].AsInts()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 4, 6, 10}, nums)

	m, err := FromAny(map[string]any{"h": 1, "e": 1.0, "ok": true, "s": "x"})
	require.NoError(t, err)
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, []string{"e", "h", "ok", "s"}, m.Keys())

	_, err = FromAny(nil)
	assert.Error(t, err)
	_, err = FromAny(struct{}{})
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	v := List(Int(1), Text("a"), Bool(false), Counts(map[string]int{"b": 2, "a": 1}))
	assert.Equal(t, `[1,"a",false,{"a":1,"b":2}]`, v.String())
	assert.Equal(t, "<invalid>", Value{}.String())
}
