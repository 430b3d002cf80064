// Package schema validates cptrack data files against the embedded JSON schemas.
package schema

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/verte-zerg/cptrack/schema"
)

const (
	performanceSchemaName = "performance.schema.json"
	casesSchemaName       = "cases.schema.json"
)

var (
	performanceSchema *jsonschema.Schema
	casesSchema       *jsonschema.Schema
	compileOnce       sync.Once
	compileErr        error
)

func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		for _, name := range []string{performanceSchemaName, casesSchemaName} {
			data, err := schemafs.FS.ReadFile(name)
			if err != nil {
				compileErr = fmt.Errorf("read %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				compileErr = fmt.Errorf("unmarshal %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("add %s resource: %w", name, err)
				return
			}
		}

		var err error
		performanceSchema, err = compiler.Compile(performanceSchemaName)
		if err != nil {
			compileErr = fmt.Errorf("compile performance schema: %w", err)
			return
		}
		casesSchema, err = compiler.Compile(casesSchemaName)
		if err != nil {
			compileErr = fmt.Errorf("compile cases schema: %w", err)
			return
		}
	})
	return compileErr
}

// ValidatePerformance validates a persisted performance document.
func ValidatePerformance(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}
	return validate(performanceSchema, "performance data", data)
}

// ValidateCases validates an extra test case document encoded as JSON.
func ValidateCases(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}
	return validate(casesSchema, "cases", data)
}

func validate(s *jsonschema.Schema, what string, data []byte) error {
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%s validation failed: %w", what, err)
	}
	return nil
}

