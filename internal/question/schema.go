package question

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// recordSchema is the structural contract for a stored question record.
// Index bounds and answer cardinality are cross-field rules checked by
// Question.Validate after decoding.
const recordSchema = `{
  "type": "object",
  "required": ["id", "mode", "question", "options", "answer"],
  "properties": {
    "id": {"type": "integer", "minimum": 1},
    "mode": {"enum": ["single_choice", "multiple_choice"]},
    "question": {"type": "string", "minLength": 1},
    "options": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 2
    },
    "answer": {
      "oneOf": [
        {"type": "integer", "minimum": 0},
        {
          "type": "array",
          "items": {"type": "integer", "minimum": 0},
          "minItems": 1
        }
      ]
    },
    "explanation": {"type": ["string", "null"]},
    "gcp_topics": {"type": "array", "items": {"type": "string"}},
    "gcp_products": {"type": "array", "items": {"type": "string"}},
    "ml_topics": {"type": "array", "items": {"type": "string"}}
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// compiledRecordSchema compiles recordSchema once and caches it.
func compiledRecordSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var parsed any
		if err := json.Unmarshal([]byte(recordSchema), &parsed); err != nil {
			schemaErr = fmt.Errorf("parse record schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://question.json"
		if err := c.AddResource(schemaURL, parsed); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Parse decodes and validates one stored record. It returns a
// *MalformedRecordError for anything that fails the schema, the decoder,
// or the cross-field invariants.
func Parse(line []byte) (Question, error) {
	var parsed any
	if err := json.Unmarshal(line, &parsed); err != nil {
		return Question{}, &MalformedRecordError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := compiledRecordSchema()
	if err != nil {
		return Question{}, err
	}
	if err := schema.Validate(parsed); err != nil {
		return Question{}, &MalformedRecordError{Err: err}
	}

	var q Question
	if err := json.Unmarshal(line, &q); err != nil {
		return Question{}, &MalformedRecordError{Err: err}
	}
	if err := q.Validate(); err != nil {
		return Question{}, &MalformedRecordError{Err: err}
	}
	return q, nil
}
