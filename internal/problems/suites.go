package problems

import (
	"errors"
	"fmt"
	"sort"

	"github.com/verte-zerg/cptrack/internal/runner"
	"github.com/verte-zerg/cptrack/internal/value"
)

// ErrUnknownDay is returned for days without built-in suites.
var ErrUnknownDay = errors.New("unknown day")

// Days lists the days that have built-in suites.
func Days() []int { return []int{1, 2, 3} }

func ints(nums ...int) value.Value { return value.List(value.Ints(nums...)) }

// Day1 returns the array and string basics.
func Day1() []runner.Suite {
	return []runner.Suite{
		{
			ID:       "day1-max-array",
			Day:      1,
			Name:     "Find Maximum in Array",
			Solution: onInts(findMaxSolution),
			Cases: []runner.Case{
				{Input: ints(1, 2, 3, 45, 21, 12, -2), Expected: value.Int(45), Description: "Standard array"},
				{Input: ints(-5, -2, -10, -1), Expected: value.Int(-1), Description: "All negative numbers"},
				{Input: ints(100), Expected: value.Int(100), Description: "Single element"},
				{Input: ints(5, 5, 5, 5), Expected: value.Int(5), Description: "All same elements"},
			},
		},
		{
			ID:   "day1-reverse-string",
			Day:  1,
			Name: "Reverse String",
			Solution: onText(func(s string) value.Value {
				return value.Text(ReverseString(s))
			}),
			Cases: []runner.Case{
				{Input: value.Text("zunair"), Expected: value.Text("rianuz"), Description: "Basic string"},
				{Input: value.Text("hello"), Expected: value.Text("olleh"), Description: "Another string"},
				{Input: value.Text("a"), Expected: value.Text("a"), Description: "Single character"},
				{Input: value.Text(""), Expected: value.Text(""), Description: "Empty string"},
				{Input: value.Text("racecar"), Expected: value.Text("racecar"), Description: "Palindrome"},
			},
		},
		{
			ID:   "day1-first-unique",
			Day:  1,
			Name: "First Unique Character",
			Solution: onText(func(s string) value.Value {
				return value.Text(FirstUniqueChar(s))
			}),
			Cases: []runner.Case{
				{Input: value.Text("aabbccddeeffg"), Expected: value.Text("g"), Description: "Standard case"},
				{Input: value.Text("aabbcc"), Expected: value.Text("_"), Description: "No unique character"},
				{Input: value.Text("abcdef"), Expected: value.Text("a"), Description: "All unique"},
				{Input: value.Text("programming"), Expected: value.Text("p"), Description: "Programming example"},
			},
		},
	}
}

// Day2 returns the two-pointer problems.
func Day2() []runner.Suite {
	return []runner.Suite{
		{
			ID:   "day2-reverse-array",
			Day:  2,
			Name: "Reverse Array In-Place",
			Solution: onInts(func(nums []int) (value.Value, error) {
				return value.Ints(ReverseInPlace(nums)...), nil
			}),
			Cases: []runner.Case{
				{Input: ints(1, 2, 3, 4, 5), Expected: value.Ints(5, 4, 3, 2, 1), Description: "Odd length array"},
				{Input: ints(1, 2, 3, 4), Expected: value.Ints(4, 3, 2, 1), Description: "Even length array"},
				{Input: ints(42), Expected: value.Ints(42), Description: "Single element"},
				{Input: ints(-1, -2, -3), Expected: value.Ints(-3, -2, -1), Description: "Negative numbers"},
			},
		},
		{
			ID:   "day2-palindrome",
			Day:  2,
			Name: "Is Palindrome",
			Solution: onText(func(s string) value.Value {
				return value.Bool(IsPalindrome(s))
			}),
			Cases: []runner.Case{
				{Input: value.Text("madam"), Expected: value.Bool(true), Description: "Classic palindrome"},
				{Input: value.Text("hello"), Expected: value.Bool(false), Description: "Not a palindrome"},
				{Input: value.Text("racecar"), Expected: value.Bool(true), Description: "Another palindrome"},
				{Input: value.Text("a"), Expected: value.Bool(true), Description: "Single character"},
				{Input: value.Text(""), Expected: value.Bool(true), Description: "Empty string"},
			},
		},
		{
			ID:       "day2-two-sum",
			Day:      2,
			Name:     "Two Sum (Sorted Array)",
			Solution: twoSumSolution,
			Cases: []runner.Case{
				{Input: value.List(value.Ints(1, 2, 4, 6, 10), value.Int(8)), Expected: value.Ints(1, 3), Description: "2 + 6 = 8"},
				{Input: value.List(value.Ints(1, 2, 4, 6, 10), value.Int(11)), Expected: value.Ints(0, 4), Description: "1 + 10 = 11"},
				{Input: value.List(value.Ints(1, 3, 5, 7), value.Int(10)), Expected: value.Ints(1, 3), Description: "3 + 7 = 10"},
				{Input: value.List(value.Ints(1, 2, 3), value.Int(7)), Expected: value.Ints(), Description: "No solution"},
			},
		},
		{
			ID:   "day2-move-zeroes",
			Day:  2,
			Name: "Move Zeroes to End",
			Solution: onInts(func(nums []int) (value.Value, error) {
				return value.Ints(MoveZeroes(nums)...), nil
			}),
			Cases: []runner.Case{
				{Input: ints(0, 1, 0, 3, 12), Expected: value.Ints(1, 3, 12, 0, 0), Description: "Mixed zeroes"},
				{Input: ints(0, 0, 1), Expected: value.Ints(1, 0, 0), Description: "Leading zeroes"},
				{Input: ints(1, 2, 3), Expected: value.Ints(1, 2, 3), Description: "No zeroes"},
				{Input: ints(0), Expected: value.Ints(0), Description: "Single zero"},
			},
		},
	}
}

// Day3 returns the hashing and counting problems.
func Day3() []runner.Suite {
	return []runner.Suite{
		{
			ID:   "day3-char-frequency",
			Day:  3,
			Name: "Character Frequency Counter",
			Solution: onText(func(s string) value.Value {
				return value.Counts(CharFrequency(s))
			}),
			Cases: []runner.Case{
				{Input: value.Text("Hello"), Expected: value.Counts(map[string]int{"h": 1, "e": 1, "l": 2, "o": 1}), Description: "Basic case"},
				{
					Input:       value.Text("Programming"),
					Expected:    value.Counts(map[string]int{"p": 1, "r": 2, "o": 1, "g": 2, "a": 1, "m": 2, "i": 1, "n": 1}),
					Description: "Repeated letters",
				},
				{Input: value.Text("aaa"), Expected: value.Counts(map[string]int{"a": 3}), Description: "All same letter"},
				{Input: value.Text(""), Expected: value.Counts(map[string]int{}), Description: "Empty string"},
			},
		},
		{
			ID:   "day3-anagrams",
			Day:  3,
			Name: "Are Anagrams",
			Solution: onTexts(func(a, b string) value.Value {
				return value.Bool(AreAnagrams(a, b))
			}),
			Cases: []runner.Case{
				{Input: value.Strings("listen", "silent"), Expected: value.Bool(true), Description: "Classic anagram"},
				{Input: value.Strings("hello", "world"), Expected: value.Bool(false), Description: "Not anagrams"},
				{Input: value.Strings("evil", "vile"), Expected: value.Bool(true), Description: "Another anagram"},
				{Input: value.Strings("", ""), Expected: value.Bool(true), Description: "Empty strings"},
			},
		},
		{
			ID:   "day3-count-vowels",
			Day:  3,
			Name: "Count Vowels",
			Solution: onText(func(s string) value.Value {
				return value.Int(CountVowels(s))
			}),
			Cases: []runner.Case{
				{Input: value.Text("Zunair"), Expected: value.Int(3), Description: "u, a, i"},
				{Input: value.Text("HELLO"), Expected: value.Int(2), Description: "e, o"},
				{Input: value.Text("bcdfg"), Expected: value.Int(0), Description: "No vowels"},
				{Input: value.Text("aeiou"), Expected: value.Int(5), Description: "All vowels"},
			},
		},
	}
}

// All returns every built-in suite, ordered by day.
func All() []runner.Suite {
	var out []runner.Suite
	for _, day := range Days() {
		suites, _ := ForDay(day)
		out = append(out, suites...)
	}
	return out
}

// ForDay returns the suites of one day.
func ForDay(day int) ([]runner.Suite, error) {
	switch day {
	case 1:
		return Day1(), nil
	case 2:
		return Day2(), nil
	case 3:
		return Day3(), nil
	default:
		return nil, fmt.Errorf("%w: %d (available: 1-3)", ErrUnknownDay, day)
	}
}

// Extend appends extra cases to the suites with matching ids.
// It returns the ids in extra that match no suite.
func Extend(suites []runner.Suite, extra map[string][]runner.Case) ([]runner.Suite, []string) {
	out := make([]runner.Suite, len(suites))
	seen := map[string]bool{}
	for i, s := range suites {
		if cs, ok := extra[s.ID]; ok {
			s.Cases = append(append([]runner.Case{}, s.Cases...), cs...)
			seen[s.ID] = true
		}
		out[i] = s
	}
	var unknown []string
	for id := range extra {
		if !seen[id] {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	return out, unknown
}
