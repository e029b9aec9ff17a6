package server

import (
	"net/http"
	"strings"
)

// RouteDoc describes one registered endpoint for the /api/routes index.
type RouteDoc struct {
	Method      string `json:"method"`
	Pattern     string `json:"pattern"`
	Summary     string `json:"summary,omitempty"`
	ExampleBody string `json:"example_body,omitempty"`
}

// RouteRegistry collects RouteDocs as handlers are mounted. The zero value
// is ready to use.
type RouteRegistry struct {
	docs []RouteDoc
}

func (rr *RouteRegistry) Add(doc RouteDoc) {
	rr.docs = append(rr.docs, doc)
}

// List returns the registered routes in mount order.
func (rr *RouteRegistry) List() []RouteDoc {
	out := make([]RouteDoc, len(rr.docs))
	copy(out, rr.docs)
	return out
}

// Handle mounts a handler on the mux and records it in the registry.
// methodAndPattern uses the mux's "METHOD /path" form.
func Handle(mux *http.ServeMux, rr *RouteRegistry, methodAndPattern, summary, exampleBody string, h http.HandlerFunc) {
	method, pattern, _ := strings.Cut(methodAndPattern, " ")
	rr.Add(RouteDoc{Method: method, Pattern: pattern, Summary: summary, ExampleBody: exampleBody})
	mux.HandleFunc(methodAndPattern, h)
}
