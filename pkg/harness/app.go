package harness

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// App is the runnable application built from a compiled container: the
// container's route descriptors mounted on a router, with an explicit
// Init/Close lifecycle.
type App struct {
	container *Container
	router    chi.Router
}

// NewApp creates an application around a compiled container. Call Init
// before serving requests and Close when the test case is done.
func NewApp(c *Container) *App {
	return &App{container: c}
}

// Init mounts the container's route descriptors. Handler providers run
// now, so a handler that resolves services eagerly fails here rather than
// on first request.
func (a *App) Init() error {
	if a.container == nil {
		return fmt.Errorf("app has no container")
	}

	r := chi.NewRouter()
	for _, rt := range a.container.routes {
		h := rt.handler(a.container)
		if h == nil {
			return fmt.Errorf("route %s %s produced a nil handler", rt.method, rt.pattern)
		}
		r.MethodFunc(rt.method, rt.pattern, h)
		a.container.log.Debug("route mounted", "method", rt.method, "pattern", rt.pattern)
	}
	a.router = r

	return nil
}

// Close shuts the underlying container down.
func (a *App) Close() error {
	if a.container == nil {
		return nil
	}
	return a.container.Close()
}

// RequestHandler returns the application's HTTP entry point. It satisfies
// the snapshot recorder's Endpoint interface. Calling it before Init
// mounts the routes on the fly.
func (a *App) RequestHandler() http.Handler {
	if a.router == nil {
		if err := a.Init(); err != nil {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			})
		}
	}
	return a.router
}
