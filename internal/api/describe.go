package api

import (
	"path"
	"strconv"

	"github.com/invopop/jsonschema"

	"github.com/creamcroissant/skeleton/internal/api/handler"
)

// RouteDescription is one declared endpoint with its absolute path.
type RouteDescription struct {
	Method    string                        `json:"method"`
	Path      string                        `json:"path"`
	Summary   string                        `json:"summary,omitempty"`
	Query     *jsonschema.Schema            `json:"query,omitempty"`
	Body      *jsonschema.Schema            `json:"body,omitempty"`
	Responses map[string]*jsonschema.Schema `json:"responses"`
}

// Describe lists every declared API route in mount order.
func Describe() []RouteDescription {
	options := buildOptions(nil)
	var out []RouteDescription
	for _, group := range v1Groups(options) {
		for _, route := range group.routes {
			out = append(out, describeRoute(path.Join(apiPrefix, v1Prefix, group.prefix, route.Pattern), route))
		}
	}
	return out
}

func describeRoute(fullPath string, route handler.Route) RouteDescription {
	responses := make(map[string]*jsonschema.Schema, len(route.Responses))
	for status, s := range route.Responses {
		responses[strconv.Itoa(status)] = s
	}
	return RouteDescription{
		Method:    route.Method,
		Path:      fullPath,
		Summary:   route.Summary,
		Query:     route.Query,
		Body:      route.Body,
		Responses: responses,
	}
}
