package schema

import (
	"encoding/json"
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedSchemasAreValidJSON(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		t.Fatalf("failed to read embedded FS: %v", err)
	}

	count := 0
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".schema.json") {
			continue
		}
		count++

		t.Run(entry.Name(), func(t *testing.T) {
			t.Parallel()

			data, err := FS.ReadFile(entry.Name())
			if err != nil {
				t.Fatalf("failed to read %s: %v", entry.Name(), err)
			}

			var v map[string]any
			if err := json.Unmarshal(data, &v); err != nil {
				t.Fatalf("%s is not a JSON object: %v", entry.Name(), err)
			}
			for _, field := range []string{"$schema", "type"} {
				if _, ok := v[field]; !ok {
					t.Errorf("%s missing %s field", entry.Name(), field)
				}
			}
		})
	}

	if count != 2 {
		t.Errorf("expected 2 schema files, found %d", count)
	}
}
