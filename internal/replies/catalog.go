package replies

import "github.com/invopop/jsonschema"

// Entry describes one bound outcome of the catalog.
type Entry struct {
	Code    string             `json:"code"`
	Success bool               `json:"success"`
	Schema  *jsonschema.Schema `json:"schema"`
}

// Entry describes f for listings.
func (f Factory[P]) Entry() Entry {
	return Entry{Code: f.code, Success: f.success, Schema: f.Schema()}
}

// Catalog lists every outcome the API can reply with. Codes are unique across it.
func Catalog() []Entry {
	return []Entry{
		HealthQueried.Entry(),
	}
}
