// Package schemas holds the embedded JSON Schemas used to validate job spec
// files and the dataset envelope emitted by executed candidate routines.
package schemas

// JobSchemaJSON validates a statext job YAML file (after conversion to
// JSON-compatible values).
const JobSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "statext job",
  "type": "object",
  "required": ["name", "document", "reference"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "document": {"type": "string", "minLength": 1},
    "reference": {"type": "string", "minLength": 1},
    "layout_hints": {"type": "array", "items": {"type": "string"}},
    "output_dir": {"type": "string"},
    "config": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "max_attempts": {"type": "integer", "minimum": 1},
        "generation_timeout_seconds": {"type": "integer", "minimum": 1},
        "execution_timeout_seconds": {"type": "integer", "minimum": 1},
        "numeric_tolerance": {"type": "number", "exclusiveMinimum": 0},
        "max_diff_rows": {"type": "integer", "minimum": 1}
      }
    },
    "generator": {
      "type": "object",
      "required": ["backend"],
      "properties": {
        "backend": {"type": "string", "enum": ["openai", "ollama", "static"]},
        "model": {"type": "string"},
        "host": {"type": "string"},
        "source_file": {"type": "string"}
      }
    },
    "executor": {
      "type": "object",
      "properties": {
        "backend": {"type": "string", "enum": ["python"]},
        "python": {"type": "string"}
      }
    }
  }
}`

// DatasetSchemaJSON validates the JSON envelope a candidate routine prints on
// stdout: ordered columns, each an ordered list of string/number/null cells.
// An envelope that fails this schema is an output shape error, not a
// validation failure.
const DatasetSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "dataset envelope",
  "type": "object",
  "required": ["columns"],
  "additionalProperties": false,
  "properties": {
    "columns": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "values"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "values": {
            "type": "array",
            "items": {"type": ["string", "number", "null"]}
          }
        }
      }
    }
  }
}`
