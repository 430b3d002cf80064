// Package casefile loads extra test cases from YAML files.
package casefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/cptrack/internal/runner"
	"github.com/verte-zerg/cptrack/internal/schema"
	"github.com/verte-zerg/cptrack/internal/value"
)

// ErrEmpty is returned for files without any case.
var ErrEmpty = errors.New("case file is empty")

type rawCase struct {
	Input       any    `json:"input"`
	Expected    any    `json:"expected"`
	Description string `json:"description"`
}

// Load reads a mapping of suite id to cases from the YAML file at path.
func Load(path string) (map[string][]runner.Case, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only case file.
			_ = cerr
		}
	}()

	cases, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Decode parses a YAML case document from r.
func Decode(r io.Reader) (map[string][]runner.Case, error) {
	var tree any
	if err := yaml.NewDecoder(r).Decode(&tree); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if tree == nil {
		return nil, ErrEmpty
	}

	doc, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("unsupported case document: %w", err)
	}
	if err := schema.ValidateCases(doc); err != nil {
		return nil, err
	}

	var raw map[string][]rawCase
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode cases: %w", err)
	}

	out := make(map[string][]runner.Case, len(raw))
	for id, list := range raw {
		for i, rc := range list {
			c, err := convert(rc)
			if err != nil {
				return nil, fmt.Errorf("%s case %d: %w", id, i+1, err)
			}
			out[id] = append(out[id], c)
		}
	}
	return out, nil
}

func convert(rc rawCase) (runner.Case, error) {
	input, err := value.FromAny(rc.Input)
	if err != nil {
		return runner.Case{}, fmt.Errorf("input: %w", err)
	}
	expected, err := value.FromAny(rc.Expected)
	if err != nil {
		return runner.Case{}, fmt.Errorf("expected: %w", err)
	}
	return runner.Case{Input: input, Expected: expected, Description: rc.Description}, nil
}
