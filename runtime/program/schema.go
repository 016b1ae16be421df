package program

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// documentSchema is the JSON Schema (Draft 2020-12) every program document
// must satisfy before the builder runs.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "program"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "string", "format": "semver"},
    "scope": {"enum": ["map", "list"]},
    "program": {"type": "array", "items": {"$ref": "#/$defs/entry"}}
  },
  "$defs": {
    "entry": {
      "type": "object",
      "minProperties": 1,
      "maxProperties": 1,
      "additionalProperties": false,
      "properties": {
        "value": {},
        "literal": {},
        "step": {
          "oneOf": [
            {"type": "string"},
            {"$ref": "#/$defs/stepSpec"}
          ]
        },
        "close": {
          "oneOf": [
            {"type": "boolean", "const": true},
            {"type": "string"}
          ]
        }
      }
    },
    "stepSpec": {
      "type": "object",
      "required": ["kind"],
      "additionalProperties": false,
      "properties": {
        "kind": {"type": "string"},
        "priority": {"enum": ["break", "fold"]},
        "id": {"type": "string"},
        "prefix": {"type": "array", "items": {"$ref": "#/$defs/entry"}}
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if compiler.Formats == nil {
			compiler.Formats = make(map[string]func(interface{}) bool)
		}
		compiler.Formats["semver"] = isSemver

		if err := compiler.AddResource("program.schema.json",
			strings.NewReader(documentSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("program.schema.json")
	})
	return schema, schemaErr
}

// isSemver validates the document version field. semver.IsValid requires the
// "v" prefix, so one is supplied when absent.
func isSemver(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	return semver.IsValid(s)
}

// validateDocument checks raw YAML against the document schema.
//
// The YAML value round-trips through JSON so the validator sees exactly the
// value model it is specified over.
func validateDocument(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding program: %w", err)
	}

	jsonData, err := json.Marshal(normalize(raw))
	if err != nil {
		return fmt.Errorf("converting program for validation: %w", err)
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("converting program for validation: %w", err)
	}

	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling program schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("invalid program document: %w", err)
	}
	return nil
}
