package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Helpers
// =============================================================================

// fakeTB captures Fatalf calls so tests can assert on hard aborts.
type fakeTB struct {
	testing.TB
	fatals []string
}

func (f *fakeTB) Helper() {}

func (f *fakeTB) Fatalf(format string, args ...any) {
	f.fatals = append(f.fatals, fmt.Sprintf(format, args...))
	panic(fatalSentinel{})
}

type fatalSentinel struct{}

// expectFatal runs fn with a TB that records Fatalf, and returns the first
// fatal message. Fails the surrounding test if fn does not abort.
func expectFatal(t *testing.T, fn func(tb testing.TB)) (msg string) {
	t.Helper()
	f := &fakeTB{TB: t}
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a fatal test abort")
		} else if _, ok := r.(fatalSentinel); !ok {
			panic(r)
		}
		require.NotEmpty(t, f.fatals)
		msg = f.fatals[0]
	}()
	fn(f)
	return ""
}

func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"query":       r.URL.RawQuery,
			"testHeader":  r.Header.Get("X-Test"),
			"contentType": r.Header.Get("Content-Type"),
			"body":        string(body),
		})
	})
}

func usersHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/users/")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":%q,"name":"stored user"}`, id)
	})
	return mux
}

// =============================================================================
// Name derivation
// =============================================================================

func TestDeriveName(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/users/7", "GET__users_7"},
		{"POST", "/api/items", "POST__api_items"},
		{"DELETE", "/items/a-b.c", "DELETE__items_a_b_c"},
		{"GET", "/", "GET__"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveName(tt.method, tt.path))
		})
	}
}

// =============================================================================
// Recording
// =============================================================================

func TestRecord_WritesReferenceThenMatches(t *testing.T) {
	dir := t.TempDir()
	rec := New(HandlerEndpoint(usersHandler()), WithDir(dir))

	captured := rec.Record(t, "/users/7")

	assert.Equal(t, "GET__users_7", captured.Name)
	assert.Equal(t, http.StatusOK, captured.Status)
	assert.JSONEq(t, `{"id":"7","name":"stored user"}`, captured.Body)

	stored, err := NewStore(dir).Load("GET__users_7")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, stored.Status)

	// A second identical run compares clean.
	rec.Record(t, "/users/7")
}

func TestRecord_MismatchAbortsWithDiff(t *testing.T) {
	dir := t.TempDir()
	response := `{"version":1}`
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, response)
	})
	rec := New(HandlerEndpoint(h), WithDir(dir))

	rec.Record(t, "/config")

	response = `{"version":2}`
	msg := expectFatal(t, func(tb testing.TB) {
		rec.Record(tb, "/config")
	})
	assert.Contains(t, msg, "snapshot mismatch for GET__config")
}

func TestRecord_UpdateModeRewrites(t *testing.T) {
	dir := t.TempDir()
	response := `{"version":1}`
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, response)
	})

	New(HandlerEndpoint(h), WithDir(dir)).Record(t, "/config")

	response = `{"version":2}`
	New(HandlerEndpoint(h), WithDir(dir), WithUpdate(true)).Record(t, "/config")

	// The rewritten reference now matches without update mode.
	New(HandlerEndpoint(h), WithDir(dir)).Record(t, "/config")
}

func TestRecord_UnexpectedStatusAborts(t *testing.T) {
	dir := t.TempDir()
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	rec := New(HandlerEndpoint(h), WithDir(dir))

	msg := expectFatal(t, func(tb testing.TB) {
		rec.Record(tb, "/users/7")
	})
	assert.Contains(t, msg, "status 404, want 200")

	// Nothing is stored for an aborted capture.
	names, err := NewStore(dir).List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRecord_ExpectStatusOverride(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"created":true}`)
	})
	rec := New(HandlerEndpoint(h), WithDir(t.TempDir()))

	captured := rec.Record(t, "/items",
		WithMethod(http.MethodPost),
		ExpectStatus(http.StatusCreated))

	assert.Equal(t, http.StatusCreated, captured.Status)
}

func TestRecord_ExplicitName(t *testing.T) {
	dir := t.TempDir()
	rec := New(HandlerEndpoint(usersHandler()), WithDir(dir))

	captured := rec.Record(t, "/users/7", WithName("seventh user"))

	assert.Equal(t, "seventh user", captured.Name)
	_, err := NewStore(dir).Load("seventh user")
	assert.NoError(t, err)
}

func TestRecord_BodyOnly(t *testing.T) {
	dir := t.TempDir()
	rec := New(HandlerEndpoint(usersHandler()), WithDir(dir))

	rec.Record(t, "/users/7", BodyOnly())

	stored, err := NewStore(dir).Load("GET__users_7")
	require.NoError(t, err)
	assert.Zero(t, stored.Status)
	assert.Empty(t, stored.Headers)
	assert.JSONEq(t, `{"id":"7","name":"stored user"}`, stored.Body)
}

func TestRecord_QueryAndHeadersReachTheHandler(t *testing.T) {
	rec := New(HandlerEndpoint(echoHandler()), WithDir(t.TempDir()))

	captured := rec.Record(t, "/echo",
		WithQuery("page", "2"),
		WithQuery("sort", "name"),
		WithHeader("X-Test", "yes"))

	var seen map[string]any
	require.NoError(t, json.Unmarshal([]byte(captured.Body), &seen))
	assert.Equal(t, "page=2&sort=name", seen["query"])
	assert.Equal(t, "yes", seen["testHeader"])
}

func TestRecord_BodyAttachment(t *testing.T) {
	tests := []struct {
		method   string
		wantBody bool
	}{
		{http.MethodPost, true},
		{http.MethodPut, true},
		{http.MethodPatch, true},
		{http.MethodGet, false},
		{http.MethodDelete, false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := New(HandlerEndpoint(echoHandler()), WithDir(t.TempDir()))

			captured := rec.Record(t, "/echo",
				WithMethod(tt.method),
				WithBody(map[string]any{"name": "x"}))

			var seen map[string]any
			require.NoError(t, json.Unmarshal([]byte(captured.Body), &seen))
			if tt.wantBody {
				assert.JSONEq(t, `{"name":"x"}`, seen["body"].(string))
				assert.Equal(t, "application/json", seen["contentType"])
			} else {
				assert.Empty(t, seen["body"])
			}
		})
	}
}

func TestRecord_DateHeaderNormalizedAway(t *testing.T) {
	dir := t.TempDir()
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Date", "Mon, 02 Jan 2006 15:04:05 GMT")
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "ok")
	})

	New(HandlerEndpoint(h), WithDir(dir)).Record(t, "/now")

	stored, err := NewStore(dir).Load("GET__now")
	require.NoError(t, err)
	assert.NotContains(t, stored.Headers, "Date")
	assert.Contains(t, stored.Headers, "Content-Type")
}

// =============================================================================
// Sequences
// =============================================================================

func TestRecordAll_StrictOrderAndAllResponses(t *testing.T) {
	var served []string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = append(served, r.Method+" "+r.URL.Path)
		fmt.Fprintf(w, `{"path":%q}`, r.URL.Path)
	})
	rec := New(HandlerEndpoint(h), WithDir(t.TempDir()))

	captured := rec.RecordAll(t, []Request{
		{Path: "/first"},
		{Path: "/second", Options: []RequestOption{WithMethod(http.MethodDelete)}},
		{Path: "/third"},
	})

	require.Len(t, captured, 3)
	assert.Equal(t, []string{"GET /first", "DELETE /second", "GET /third"}, served)
	assert.Equal(t, "DELETE__second", captured[1].Name)
}
