package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stubkit/stubkit/pkg/logging"
)

// DefaultDir is where captures are stored unless WithDir overrides it.
const DefaultDir = "testdata/__snapshots__"

// updateEnv enables rewrite mode for a whole test run.
const updateEnv = "UPDATE_SNAPSHOTS"

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

// Recorder captures HTTP responses from an endpoint and checks them
// against stored references.
type Recorder struct {
	ep     Endpoint
	store  *Store
	update bool
	log    *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithDir stores captures in dir instead of DefaultDir.
func WithDir(dir string) Option {
	return func(r *Recorder) { r.store = NewStore(dir) }
}

// WithUpdate forces rewrite mode on or off, overriding UPDATE_SNAPSHOTS.
func WithUpdate(update bool) Option {
	return func(r *Recorder) { r.update = update }
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Recorder) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a recorder against ep.
func New(ep Endpoint, opts ...Option) *Recorder {
	r := &Recorder{
		ep:     ep,
		store:  NewStore(DefaultDir),
		update: os.Getenv(updateEnv) == "1",
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Request describes one request in a RecordAll sequence.
type Request struct {
	Path    string
	Options []RequestOption
}

// Captured is the response a Record call observed.
type Captured struct {
	Name    string
	Status  int
	Headers http.Header
	Body    string
}

type reqConfig struct {
	method       string
	query        url.Values
	headers      map[string]string
	body         any
	expectStatus int
	name         string
	bodyOnly     bool
}

// RequestOption configures a single recorded request.
type RequestOption func(*reqConfig)

// WithMethod sets the HTTP method (default GET).
func WithMethod(method string) RequestOption {
	return func(c *reqConfig) { c.method = method }
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(c *reqConfig) { c.query.Add(key, value) }
}

// WithHeader adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(c *reqConfig) { c.headers[key] = value }
}

// WithBody sets a JSON request body. The body is attached only for POST,
// PUT and PATCH; other methods ignore it.
func WithBody(body any) RequestOption {
	return func(c *reqConfig) { c.body = body }
}

// ExpectStatus sets the status the response must carry (default 200).
// Any other status aborts the test immediately.
func ExpectStatus(status int) RequestOption {
	return func(c *reqConfig) { c.expectStatus = status }
}

// WithName stores the capture under an explicit name instead of the
// derived method-and-path name.
func WithName(name string) RequestOption {
	return func(c *reqConfig) { c.name = name }
}

// BodyOnly captures just the response body, without status or headers.
func BodyOnly() RequestOption {
	return func(c *reqConfig) { c.bodyOnly = true }
}

// Record issues one request and snapshots the response. A missing
// reference is written; an existing one is compared, and any divergence
// fails the test with a diff. Returns what was captured.
func (r *Recorder) Record(t testing.TB, path string, opts ...RequestOption) Captured {
	t.Helper()

	cfg := reqConfig{
		method:       http.MethodGet,
		query:        url.Values{},
		headers:      map[string]string{},
		expectStatus: http.StatusOK,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	resp := r.issue(t, &cfg, path)

	name := cfg.name
	if name == "" {
		name = deriveName(cfg.method, path)
	}

	if resp.Code != cfg.expectStatus {
		t.Fatalf("snapshot %s: %s %s returned status %d, want %d\nbody: %s",
			name, cfg.method, path, resp.Code, cfg.expectStatus, resp.Body.String())
	}

	captured := Captured{
		Name:    name,
		Status:  resp.Code,
		Headers: resp.Header(),
		Body:    resp.Body.String(),
	}

	r.check(t, name, toSnapshot(captured, cfg.bodyOnly))
	return captured
}

// RecordAll issues the requests strictly in order, snapshotting each
// response, and returns all captures.
func (r *Recorder) RecordAll(t testing.TB, reqs []Request) []Captured {
	t.Helper()

	out := make([]Captured, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, r.Record(t, req.Path, req.Options...))
	}
	return out
}

func (r *Recorder) issue(t testing.TB, cfg *reqConfig, path string) *httptest.ResponseRecorder {
	t.Helper()

	target := path
	if encoded := cfg.query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var body io.Reader
	if cfg.body != nil && methodTakesBody(cfg.method) {
		data, err := json.Marshal(cfg.body)
		if err != nil {
			t.Fatalf("marshal request body for %s %s: %v", cfg.method, path, err)
		}
		body = bytes.NewReader(data)
		if _, ok := cfg.headers["Content-Type"]; !ok {
			cfg.headers["Content-Type"] = "application/json"
		}
	}

	req := httptest.NewRequest(cfg.method, target, body)
	for k, v := range cfg.headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	r.ep.RequestHandler().ServeHTTP(rec, req)
	return rec
}

// check writes the reference if missing (or in update mode) and otherwise
// fails the test on any divergence from it.
func (r *Recorder) check(t testing.TB, name string, snap *Snapshot) {
	t.Helper()

	stored, err := r.store.Load(name)
	switch {
	case r.update, errors.Is(err, ErrNotFound):
		if err := r.store.Save(name, snap); err != nil {
			t.Fatalf("save snapshot %s: %v", name, err)
		}
		r.log.Debug("snapshot written", "name", name, "path", r.store.Path(name))
	case err != nil:
		t.Fatalf("load snapshot %s: %v", name, err)
	default:
		if diff := cmp.Diff(stored, snap); diff != "" {
			t.Fatalf("snapshot mismatch for %s (-stored +got):\n%s", name, diff)
		}
	}
}

func methodTakesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// toSnapshot normalizes a capture for storage. Volatile headers are
// dropped and multi-valued headers are joined, so references stay stable
// across runs.
func toSnapshot(c Captured, bodyOnly bool) *Snapshot {
	if bodyOnly {
		return &Snapshot{Body: c.Body}
	}

	headers := make(map[string]string, len(c.Headers))
	for k, vs := range c.Headers {
		if k == "Date" {
			continue
		}
		headers[k] = strings.Join(vs, ", ")
	}

	return &Snapshot{
		Status:  c.Status,
		Headers: headers,
		Body:    c.Body,
	}
}

// deriveName builds the default capture name: the method, an underscore,
// and the path with every non-alphanumeric replaced by an underscore.
// GET /users/7 becomes GET__users_7.
func deriveName(method, path string) string {
	return method + "_" + nonAlnum.ReplaceAllString(path, "_")
}
