package api

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/creamcroissant/skeleton/internal/api/handler"
	"github.com/creamcroissant/skeleton/internal/api/middleware"
)

const v1Prefix = "/v1"

// routeGroup is one feature's routes and the prefix they are mounted under.
type routeGroup struct {
	prefix string
	routes []handler.Route
}

func v1Groups(options routerOptions) []routeGroup {
	return []routeGroup{
		{prefix: "/health", routes: handler.NewHealthHandler(options.now).Routes()},
	}
}

func registerV1Routes(api chi.Router, options routerOptions) {
	api.Route(v1Prefix, func(v1 chi.Router) {
		for _, group := range v1Groups(options) {
			v1.Route(group.prefix, func(r chi.Router) {
				mountRoutes(r, group.routes, options.strictInput)
			})
		}
	})
}

// mountRoutes registers routes on r, each behind its own strict input check when one is configured.
// A route whose declared schema does not compile is a programming error and panics.
func mountRoutes(r chi.Router, routes []handler.Route, strict *middleware.StrictInputConfig) {
	for _, route := range routes {
		if strict == nil {
			r.Method(route.Method, route.Pattern, route.Handler)
			continue
		}
		guard, err := middleware.StrictInput(*strict, middleware.InputSchemas{
			Query: route.Query,
			Body:  route.Body,
		})
		if err != nil {
			panic(fmt.Sprintf("route %s %s: %v", route.Method, route.Pattern, err))
		}
		r.With(guard).Method(route.Method, route.Pattern, route.Handler)
	}
}
