package problems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMax(t *testing.T) {
	got, err := FindMax([]int{1, 2, 3, 45, 21, 12, -2})
	require.NoError(t, err)
	assert.Equal(t, 45, got)

	_, err = FindMax(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "rianuz", ReverseString("zunair"))
	assert.Equal(t, "", ReverseString(""))
	assert.Equal(t, "éb", ReverseString("bé"))

	assert.Equal(t, "g", FirstUniqueChar("aabbccddeeffg"))
	assert.Equal(t, "_", FirstUniqueChar("aabbcc"))

	assert.True(t, IsPalindrome("madam"))
	assert.True(t, IsPalindrome(""))
	assert.False(t, IsPalindrome("hello"))
	assert.False(t, IsPalindrome("Madam"))
}

func TestTwoPointers(t *testing.T) {
	assert.Equal(t, []int{5, 4, 3, 2, 1}, ReverseInPlace([]int{1, 2, 3, 4, 5}))
	assert.Equal(t, []int{}, ReverseInPlace([]int{}))

	assert.Equal(t, []int{0, 4}, TwoSumSorted([]int{1, 2, 4, 6, 10}, 11))
	assert.Equal(t, []int{1, 3}, TwoSumSorted([]int{1, 2, 4, 6, 10}, 8))
	assert.Equal(t, []int{}, TwoSumSorted([]int{1, 2, 3}, 7))

	assert.Equal(t, []int{1, 3, 12, 0, 0}, MoveZeroes([]int{0, 1, 0, 3, 12}))
}

func TestCounting(t *testing.T) {
	assert.Equal(t, map[string]int{"h": 1, "e": 1, "l": 2, "o": 1}, CharFrequency("Hello"))
	assert.Empty(t, CharFrequency(""))

	assert.True(t, AreAnagrams("Listen", "Silent"))
	assert.True(t, AreAnagrams("evil", "vile"))
	assert.True(t, AreAnagrams("", ""))
	assert.False(t, AreAnagrams("Test", "Taste"))
	assert.False(t, AreAnagrams("aab", "abb"))

	assert.Equal(t, 3, CountVowels("Zunair"))
	assert.Equal(t, 2, CountVowels("HELLO"))
	assert.Equal(t, 0, CountVowels("bcdfg"))
}
