package importer

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the JSON import document.
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}

	schema := reflector.Reflect([]Record{})
	schema.Title = "vidshelf import"
	schema.Description = "An array of videos to add to the library"

	return json.MarshalIndent(schema, "", "  ")
}
