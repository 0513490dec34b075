package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolever/automaton"
	"github.com/wolever/automaton/internal/metrics"
	"github.com/wolever/automaton/registry"
	"github.com/wolever/automaton/registry/memory"
)

func newTestServer(t *testing.T) (http.Handler, *registry.Registry) {
	t.Helper()
	promReg := prometheus.NewRegistry()
	reg := registry.New(memory.NewStore(), registry.WithMetrics(metrics.New(promReg)))
	handler := NewHandler(reg, WithMetricsHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))
	return handler, reg
}

func do(handler http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestGetHealth(t *testing.T) {
	handler, _ := newTestServer(t)
	rr := do(handler, "GET", "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decode[map[string]string](t, rr)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, automaton.Version, resp["version"])
}

func TestCreateAndGet(t *testing.T) {
	handler, _ := newTestServer(t)

	rr := do(handler, "POST", "/automata", `{"name": "aba", "regex": "(a+b)*aba(a+b)*"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	summary := decode[Summary](t, rr)
	assert.Equal(t, "aba", summary.Name)
	assert.Len(t, summary.States, 4)
	assert.True(t, summary.Deterministic)
	assert.True(t, summary.Total)
	assert.Equal(t, []string{"a", "b"}, summary.Alphabet)
	assert.Len(t, summary.Transitions, 8)

	rr = do(handler, "POST", "/automata", `{"name": "aba", "regex": "a"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(handler, "GET", "/automata/aba", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	parsed, err := automaton.ParseString(rr.Body.String())
	require.NoError(t, err)
	assert.True(t, parsed.AcceptsWord("bbbababbb"))

	rr = do(handler, "GET", "/automata/aba", "", "Accept", "application/json")
	assert.Equal(t, "aba", decode[Summary](t, rr).Name)

	rr = do(handler, "GET", "/automata/aba?format=json", "")
	assert.Equal(t, "aba", decode[Summary](t, rr).Name)

	rr = do(handler, "GET", "/automata/aba?format=yaml", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(handler, "GET", "/automata", "")
	assert.Equal(t, []string{"aba"}, decode[ListResponse](t, rr).Automata)
}

func TestCreateErrors(t *testing.T) {
	handler, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "invalid-regex", body: `{"name": "x", "regex": "(a++b)"}`, status: http.StatusBadRequest},
		{name: "invalid-name", body: `{"name": "not valid", "regex": "a"}`, status: http.StatusBadRequest},
		{name: "malformed-json", body: `{"name":`, status: http.StatusBadRequest},
		{name: "unknown-field", body: `{"name": "x", "regex": "a", "extra": 1}`, status: http.StatusBadRequest},
		{name: "too-large", body: `{"name": "x", "regex": "` + strings.Repeat("a", maxBodyBytes) + `"}`, status: http.StatusRequestEntityTooLarge},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(handler, "POST", "/automata", tc.body)
			assert.Equal(t, tc.status, rr.Code)
			assert.NotEmpty(t, decode[ErrorResponse](t, rr).Error)
		})
	}
}

func TestPutAndDelete(t *testing.T) {
	handler, reg := newTestServer(t)

	rr := do(handler, "PUT", "/automata/letter", "0 1\n0\n0 a 1\nf 1\n")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	a, err := reg.Get(context.Background(), "letter")
	require.NoError(t, err)
	assert.True(t, a.AcceptsWord("a"))

	rr = do(handler, "PUT", "/automata/letter", "0 1\n0\n0 a\nf 1\n")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[ErrorResponse](t, rr).Error, "line 3")

	rr = do(handler, "DELETE", "/automata/letter", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(handler, "DELETE", "/automata/letter", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAccepts(t *testing.T) {
	handler, reg := newTestServer(t)
	_, err := reg.Compile(context.Background(), "aba", "(a+b)*aba(a+b)*")
	require.NoError(t, err)

	tests := []struct {
		word     string
		expected bool
	}{
		{word: "aba", expected: true},
		{word: "bbbababbb", expected: true},
		{word: "ab", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.word, func(t *testing.T) {
			rr := do(handler, "POST", "/automata/aba/accepts", `{"word": "`+tc.word+`"}`)
			require.Equal(t, http.StatusOK, rr.Code)
			resp := decode[AcceptsResponse](t, rr)
			assert.Equal(t, tc.expected, resp.Accepted)
			assert.Nil(t, resp.Trace)
		})
	}

	rr := do(handler, "POST", "/automata/aba/accepts", `{"word": "ab", "trace": true}`)
	resp := decode[AcceptsResponse](t, rr)
	assert.Len(t, resp.Trace, 3)

	rr = do(handler, "POST", "/automata/missing/accepts", `{"word": "a"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDerive(t *testing.T) {
	handler, reg := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, reg.Put(ctx, "a", automaton.ByLetter("a")))
	require.NoError(t, reg.Put(ctx, "b", automaton.ByLetter("b")))

	rr := do(handler, "POST", "/automata/a/ops/union", `{"other": "b", "target": "ab"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "ab", decode[Summary](t, rr).Name)

	ok, err := reg.Accepts(ctx, "ab", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	rr = do(handler, "POST", "/automata/a/ops/total", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.True(t, decode[Summary](t, rr).Total)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{name: "not-total", path: "/automata/b/ops/complement", status: http.StatusUnprocessableEntity},
		{name: "alphabet-mismatch", path: "/automata/a/ops/intersection", body: `{"other": "b"}`, status: http.StatusUnprocessableEntity},
		{name: "unknown-op", path: "/automata/a/ops/explode", status: http.StatusBadRequest},
		{name: "missing-other", path: "/automata/a/ops/union", status: http.StatusBadRequest},
		{name: "missing-operand", path: "/automata/a/ops/union", body: `{"other": "zzz"}`, status: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(handler, "POST", tc.path, tc.body)
			assert.Equal(t, tc.status, rr.Code, rr.Body.String())
		})
	}
}

func TestExports(t *testing.T) {
	handler, reg := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, reg.Put(ctx, "letter", automaton.ByLetter("a")))
	empty := automaton.ByLetter("a")
	empty.MakeStateUnfinal("1")
	require.NoError(t, reg.Put(ctx, "empty", empty))

	rr := do(handler, "GET", "/automata/letter/dot", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, automaton.ToDot(automaton.ByLetter("a")), rr.Body.String())

	rr = do(handler, "GET", "/automata/letter/mermaid", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "graph LR")

	rr = do(handler, "GET", "/automata/letter/regex", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "a", decode[RegexResponse](t, rr).Regex)

	rr = do(handler, "GET", "/automata/empty/regex", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestListOperations(t *testing.T) {
	handler, _ := newTestServer(t)
	rr := do(handler, "GET", "/operations", "")

	ops := decode[[]OperationInfo](t, rr)
	assert.Len(t, ops, len(registry.Operations()))
	assert.Equal(t, "complement", ops[0].Name)
}

func TestMetricsEndpoint(t *testing.T) {
	handler, _ := newTestServer(t)
	do(handler, "POST", "/automata", `{"name": "x", "regex": "a"}`)

	rr := do(handler, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `automaton_registry_operations_total{op="add",outcome="ok"} 1`)
	assert.Contains(t, rr.Body.String(), "automaton_registry_automata 1")
}
