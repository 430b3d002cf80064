package problems

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/cptrack/internal/runner"
	"github.com/verte-zerg/cptrack/internal/value"
)

// ErrArgument is returned when a solution receives arguments of the wrong shape.
var ErrArgument = errors.New("bad argument")

func wantArgs(args []value.Value, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: want %d argument(s), got %d", ErrArgument, n, len(args))
	}
	return nil
}

func intsArg(args []value.Value, i int) ([]int, error) {
	nums, ok := args[i].AsInts()
	if !ok {
		return nil, fmt.Errorf("%w: argument %d must be a list of integers, got %s", ErrArgument, i+1, args[i].Kind())
	}
	return nums, nil
}

func intArg(args []value.Value, i int) (int, error) {
	n, ok := args[i].AsInt()
	if !ok {
		return 0, fmt.Errorf("%w: argument %d must be an integer, got %s", ErrArgument, i+1, args[i].Kind())
	}
	return n, nil
}

func textArg(args []value.Value, i int) (string, error) {
	s, ok := args[i].AsText()
	if !ok {
		return "", fmt.Errorf("%w: argument %d must be text, got %s", ErrArgument, i+1, args[i].Kind())
	}
	return s, nil
}

func onInts(fn func([]int) (value.Value, error)) runner.Solution {
	return func(args ...value.Value) (value.Value, error) {
		if err := wantArgs(args, 1); err != nil {
			return value.Value{}, err
		}
		nums, err := intsArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		return fn(nums)
	}
}

func onText(fn func(string) value.Value) runner.Solution {
	return func(args ...value.Value) (value.Value, error) {
		if err := wantArgs(args, 1); err != nil {
			return value.Value{}, err
		}
		s, err := textArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		return fn(s), nil
	}
}

func onTexts(fn func(a, b string) value.Value) runner.Solution {
	return func(args ...value.Value) (value.Value, error) {
		if err := wantArgs(args, 2); err != nil {
			return value.Value{}, err
		}
		a, err := textArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		b, err := textArg(args, 1)
		if err != nil {
			return value.Value{}, err
		}
		return fn(a, b), nil
	}
}

func findMaxSolution(nums []int) (value.Value, error) {
	n, err := FindMax(nums)
	if err != nil {
		return value.Value{}, err
	}
	return value.Int(n), nil
}

func twoSumSolution(args ...value.Value) (value.Value, error) {
	if err := wantArgs(args, 2); err != nil {
		return value.Value{}, err
	}
	nums, err := intsArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	target, err := intArg(args, 1)
	if err != nil {
		return value.Value{}, err
	}
	return value.Ints(TwoSumSorted(nums, target)...), nil
}
