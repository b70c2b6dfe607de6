// Package snapshot records HTTP responses and compares them against stored
// reference captures.
//
// A Recorder issues one in-process request per call against an Endpoint
// (a harness.App, or any handler via HandlerEndpoint), asserts the
// response status, and then either writes the capture as the new reference
// or fails the test with a diff against the existing one.
//
// # Usage
//
//	rec := snapshot.New(app)
//	rec.Record(t, "/users/7")                          // stored as GET__users_7
//	rec.Record(t, "/users", snapshot.WithMethod(http.MethodPost),
//	    snapshot.WithBody(map[string]any{"name": "x"}),
//	    snapshot.ExpectStatus(http.StatusCreated))
//
// References live under testdata/__snapshots__ by default, one JSON file
// per capture. Run with UPDATE_SNAPSHOTS=1 to rewrite them.
package snapshot
