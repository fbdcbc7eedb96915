package character

import "github.com/invopop/jsonschema"

// SchemaVersion is the format version written into every character document.
const SchemaVersion = 1

// Document is the wire form of a character record. Field names and shape are
// the persistence contract; documents are machine-oriented, not optimized
// for human reading.
type Document struct {
	SchemaVersion int                  `json:"schema_version" jsonschema_description:"Format version of the character document"`
	Name          string               `json:"name" jsonschema:"minLength=1" jsonschema_description:"Character name, never empty"`
	Parameters    map[string]Value     `json:"parameters" jsonschema_description:"Ruleset parameters keyed by parameter name"`
	Mounts        []DocumentAttachment `json:"mounts" jsonschema_description:"Mounts attached to the character, empty when none"`
	Clothing      []DocumentAttachment `json:"clothing" jsonschema_description:"Clothing attached to the character, empty when none"`
}

// DocumentAttachment is the wire form of a mount or clothing entry.
type DocumentAttachment struct {
	Name       string           `json:"name" jsonschema:"minLength=1" jsonschema_description:"Attachment name"`
	Attributes map[string]Value `json:"attributes" jsonschema_description:"Descriptive attributes keyed by attribute name"`
}

// DocumentSchema returns a JSON Schema describing the wire format, so
// external form shells can validate documents without importing this module.
func DocumentSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(&Document{})
}
