// Package schema reflects JSON Schema documents from Go types and compiles them into validators.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"
)

// resourceURL names the in-memory resource each compiler sees; every Compile uses its own compiler.
const resourceURL = "mem://skeleton/schema.json"

// ErrInvalidJSON reports a document that could not be decoded before validation.
var ErrInvalidJSON = errors.New("invalid json document")

var reflector = &jsonschema.Reflector{
	DoNotReference: true,
	Anonymous:      true,
}

// Reflect returns the inline JSON Schema of T. Struct fields without omitempty are required and
// undeclared properties are rejected.
func Reflect[T any]() *jsonschema.Schema {
	s := reflector.ReflectFromType(reflect.TypeOf((*T)(nil)).Elem())
	// embedded as a sub-schema, so it carries neither a dialect nor definitions
	s.Version = ""
	s.Definitions = nil
	return s
}

// Strict returns a shallow copy of s that forbids properties it does not declare.
func Strict(s *jsonschema.Schema) *jsonschema.Schema {
	if s == nil {
		return &jsonschema.Schema{Type: "object", AdditionalProperties: jsonschema.FalseSchema}
	}
	cp := *s
	cp.AdditionalProperties = jsonschema.FalseSchema
	return &cp
}

// PropertyNames lists the declared top-level properties of s in declaration order.
func PropertyNames(s *jsonschema.Schema) []string {
	if s == nil || s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Compile turns s into a validator.
func Compile(s *jsonschema.Schema) (*validator.Schema, error) {
	if s == nil {
		return nil, errors.New("schema is required")
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	c := validator.NewCompiler()
	c.Draft = validator.Draft2020
	if err := c.AddResource(resourceURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

// MustCompile is Compile for schemas declared in code; an invalid one is a programming error.
func MustCompile(s *jsonschema.Schema) *validator.Schema {
	compiled, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return compiled
}

// ValidateJSON decodes doc and validates it against v.
func ValidateJSON(v *validator.Schema, doc []byte) error {
	value, err := decodeDocument(doc)
	if err != nil {
		return err
	}
	return v.Validate(value)
}

// decodeDocument decodes exactly one JSON value. Numbers stay json.Number so integer keywords
// can tell 1 from 1.5.
func decodeDocument(doc []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrInvalidJSON)
	}
	return value, nil
}

// Describe renders a validation failure as a short client-facing phrase, e.g.
// "must NOT have additional properties".
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "is not valid JSON"
	}
	var verr *validator.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	if strings.HasSuffix(leaf.KeywordLocation, "/additionalProperties") {
		return "must NOT have additional properties"
	}
	if leaf.InstanceLocation != "" {
		return fmt.Sprintf("at %s: %s", leaf.InstanceLocation, leaf.Message)
	}
	return leaf.Message
}
