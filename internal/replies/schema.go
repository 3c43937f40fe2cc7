package replies

import (
	"github.com/invopop/jsonschema"

	"github.com/creamcroissant/skeleton/internal/support/schema"
)

// EnvelopeSchema merges payload into the generic envelope shape. payload stays optional and a nil
// payload schema accepts any value. The argument is referenced, never modified.
func EnvelopeSchema(payload *jsonschema.Schema) *jsonschema.Schema {
	if payload == nil {
		payload = jsonschema.TrueSchema
	}
	props := jsonschema.NewProperties()
	props.Set("code", &jsonschema.Schema{Type: "string"})
	props.Set("success", &jsonschema.Schema{Type: "boolean"})
	props.Set("payload", payload)
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             []string{"code", "success"},
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// ReplySchema is the envelope with an unconstrained payload.
func ReplySchema() *jsonschema.Schema {
	return EnvelopeSchema(nil)
}

// SchemaFor is the envelope schema whose payload slot is the reflected shape of P.
func SchemaFor[P any]() *jsonschema.Schema {
	return EnvelopeSchema(schema.Reflect[P]())
}

// Schema is the envelope schema of every reply f builds.
func (f Factory[P]) Schema() *jsonschema.Schema {
	return SchemaFor[P]()
}
