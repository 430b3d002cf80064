package casefile

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cptrack/internal/value"
)

func TestLoad(t *testing.T) {
	cases, err := Load(filepath.Join("testdata", "extra.yaml"))
	require.NoError(t, err)
	require.Len(t, cases, 3)

	maxCases := cases["day1-max-array"]
	require.Len(t, maxCases, 1)
	assert.Equal(t, "Small array", maxCases[0].Description)
	assert.Equal(t, "[[3,17,4]]", maxCases[0].Input.String())
	n, ok := maxCases[0].Expected.AsInt()
	require.True(t, ok)
	assert.Equal(t, 17, n)

	twoSum := cases["day2-two-sum"][0]
	args, ok := twoSum.Input.Items()
	require.True(t, ok)
	assert.Len(t, args, 2)
	eq, err := value.Equal(twoSum.Expected, value.Ints(0, 1))
	require.NoError(t, err)
	assert.True(t, eq)

	freq := cases["day3-char-frequency"][0]
	eq, err = value.Equal(freq.Expected, value.Counts(map[string]int{"a": 2, "b": 1}))
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"null":             "~\n",
		"not a mapping":    "- a\n- b\n",
		"no expected":      "p:\n  - input: 1\n",
		"unknown field":    "p:\n  - input: 1\n    expected: 1\n    note: x\n",
		"cases not a list": "p:\n  input: 1\n",
		"broken yaml":      "p: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmpty))
}
