package snapshot

import "net/http"

// Endpoint resolves the HTTP entry point a recorder exercises. The two
// supported hosts supply it explicitly: harness.App implements it, and
// HandlerEndpoint adapts a raw handler. Which host is in play is decided
// at construction, never inspected at call time.
type Endpoint interface {
	RequestHandler() http.Handler
}

type handlerEndpoint struct {
	h http.Handler
}

// HandlerEndpoint adapts a raw http.Handler into an Endpoint.
func HandlerEndpoint(h http.Handler) Endpoint {
	return handlerEndpoint{h: h}
}

func (e handlerEndpoint) RequestHandler() http.Handler { return e.h }
