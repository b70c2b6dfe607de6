// Package harness bootstraps a dependency-injection test container and an
// HTTP application around it.
//
// Registrations accumulate on a Harness: plain values, providers, route
// descriptors, and substitute bindings produced by stub.Override. Compile
// builds the container; bindings are applied last, so a substitute always
// wins over a provider registered under the same service name.
//
// # Usage
//
//	b := stub.Override(stub.TypeOf[ItemsService](), nil)
//
//	c, err := harness.New(
//	    harness.WithBinding(b),
//	    harness.WithRoute(http.MethodGet, "/items/{id}", itemsHandler),
//	).Compile()
//
//	app := harness.NewApp(c)
//	if err := app.Init(); err != nil { ... }
//	defer app.Close()
//
// The compiled app's RequestHandler is the entry point the snapshot
// recorder exercises; no sockets are opened.
package harness
