package importer

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const bundleSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["code", "controls"],
  "properties": {
    "controls": {
      "type": "array",
      "items": {"type": "object"}
    }
  }
}`

var bundleSchema = jsonschema.MustCompileString("bundle.schema.json", bundleSchemaJSON)
