// Package problems holds the practice solutions and their built-in test suites.
package problems

import (
	"errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmptyInput is returned by solutions that need at least one element.
var ErrEmptyInput = errors.New("empty input")

var lower = cases.Lower(language.Und)

// FindMax returns the largest element of nums.
func FindMax(nums []int) (int, error) {
	if len(nums) == 0 {
		return 0, ErrEmptyInput
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if n > best {
			best = n
		}
	}
	return best, nil
}

// ReverseString reverses s rune by rune.
func ReverseString(s string) string {
	runes := []rune(s)
	for l, r := 0, len(runes)-1; l < r; l, r = l+1, r-1 {
		runes[l], runes[r] = runes[r], runes[l]
	}
	return string(runes)
}

// FirstUniqueChar returns the first character occurring exactly once, or "_".
func FirstUniqueChar(s string) string {
	freq := map[rune]int{}
	for _, r := range s {
		freq[r]++
	}
	for _, r := range s {
		if freq[r] == 1 {
			return string(r)
		}
	}
	return "_"
}

// ReverseInPlace reverses nums with two pointers and returns it.
func ReverseInPlace(nums []int) []int {
	for l, r := 0, len(nums)-1; l < r; l, r = l+1, r-1 {
		nums[l], nums[r] = nums[r], nums[l]
	}
	return nums
}

// IsPalindrome reports whether s reads the same in both directions. It is case sensitive.
func IsPalindrome(s string) bool {
	runes := []rune(s)
	for l, r := 0, len(runes)-1; l < r; l, r = l+1, r-1 {
		if runes[l] != runes[r] {
			return false
		}
	}
	return true
}

// TwoSumSorted returns the indices of the pair in sorted nums adding up to target,
// or an empty slice when there is none.
func TwoSumSorted(nums []int, target int) []int {
	l, r := 0, len(nums)-1
	for l < r {
		switch sum := nums[l] + nums[r]; {
		case sum == target:
			return []int{l, r}
		case sum < target:
			l++
		default:
			r--
		}
	}
	return []int{}
}

// CharFrequency counts the characters of s after lowercasing.
func CharFrequency(s string) map[string]int {
	freq := map[string]int{}
	for _, r := range lower.String(s) {
		freq[string(r)]++
	}
	return freq
}

// AreAnagrams reports whether a and b use the same characters, ignoring case.
func AreAnagrams(a, b string) bool {
	fa, fb := CharFrequency(a), CharFrequency(b)
	if len(fa) != len(fb) {
		return false
	}
	for ch, n := range fa {
		if fb[ch] != n {
			return false
		}
	}
	return true
}

// CountVowels counts a, e, i, o and u in s, ignoring case.
func CountVowels(s string) int {
	count := 0
	for _, r := range lower.String(s) {
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			count++
		}
	}
	return count
}

// MoveZeroes shifts every zero of nums to the end, keeping the order of the rest.
func MoveZeroes(nums []int) []int {
	next := 0
	for i, n := range nums {
		if n != 0 {
			nums[next], nums[i] = nums[i], nums[next]
			next++
		}
	}
	return nums
}
