package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// InstallFunc swaps in rt for outgoing HTTP calls and returns a restore func.
type InstallFunc func(rt http.RoundTripper) (restore func())

// DefaultInstall replaces http.DefaultTransport for the duration of a step.
func DefaultInstall(rt http.RoundTripper) func() {
	prev := http.DefaultTransport
	http.DefaultTransport = rt
	return func() { http.DefaultTransport = prev }
}

// Flow runs scenarios in order against one handler. Cookies set by a
// response are sent with every later request, and {{name}} placeholders in
// URLs, headers and bodies are replaced from the flow's variables.
type Flow struct {
	handler http.Handler
	install InstallFunc

	mu      sync.Mutex
	cookies map[string]*http.Cookie
	vars    map[string]string
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithInstall overrides how mock transports are installed.
func WithInstall(fn InstallFunc) FlowOption {
	return func(f *Flow) { f.install = fn }
}

// NewFlow creates a flow with an empty cookie jar.
func NewFlow(handler http.Handler, opts ...FlowOption) *Flow {
	f := &Flow{
		handler: handler,
		install: DefaultInstall,
		cookies: map[string]*http.Cookie{},
		vars:    map[string]string{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Set defines a placeholder value.
func (f *Flow) Set(name, value string) {
	f.mu.Lock()
	f.vars[name] = value
	f.mu.Unlock()
}

// Var returns a placeholder value, including ones captured from responses.
func (f *Flow) Var(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vars[name]
}

// Cookie returns the jar's current cookie called name, or nil.
func (f *Flow) Cookie(name string) *http.Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cookies[name]
}

// ClearCookies empties the jar.
func (f *Flow) ClearCookies() {
	f.mu.Lock()
	f.cookies = map[string]*http.Cookie{}
	f.mu.Unlock()
}

// RunFile runs every scenario of an array file as ordered subtests.
func (f *Flow) RunFile(t *testing.T, path string) {
	t.Helper()
	list, err := LoadScenarioArray(path)
	if err != nil {
		t.Fatalf("%v", err)
	}
	for _, s := range list {
		s := s
		ok := t.Run(s.Name, func(t *testing.T) { f.Run(t, s) })
		if !ok {
			// later steps depend on earlier ones
			return
		}
	}
}

// Run fires one scenario and asserts on the response.
func (f *Flow) Run(t *testing.T, s *Scenario) *httptest.ResponseRecorder {
	t.Helper()

	body, err := f.requestBody(s)
	if err != nil {
		t.Fatalf("testkit: [%s] %v", s.Name, err)
	}

	var mt *MockTransport
	if len(s.NetUtilMockStep) > 0 {
		mt = NewMockTransport(s)
		restore := f.install(mt)
		defer restore()
	}

	req := httptest.NewRequest(s.RequestMethod, f.expand(s.RequestURL), bytes.NewReader(body))
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range s.Headers {
		req.Header.Set(k, f.expand(v))
	}
	f.mu.Lock()
	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	f.mu.Unlock()

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	f.keepCookies(rec.Result().Cookies())

	AssertStatusCode(t, s, rec.Code)
	if path := s.ResponseBodyPath(); path != "" {
		expected, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("testkit: [%s] read response file: %v", s.Name, err)
		}
		AssertJSONBody(t, s, expected, rec.Body.Bytes())
	}
	if len(s.ExpectedFields) > 0 {
		AssertFields(t, f.expandExpectations(s), rec.Body.Bytes())
	}
	if len(s.Capture) > 0 {
		f.capture(t, s, rec.Body.Bytes())
	}
	if mt != nil {
		AssertMocksAllCalled(t, s, mt)
	}
	return rec
}

func (f *Flow) requestBody(s *Scenario) ([]byte, error) {
	var raw []byte
	switch {
	case s.RequestFileName != "":
		data, err := os.ReadFile(s.RequestBodyPath())
		if err != nil {
			return nil, fmt.Errorf("read request file: %w", err)
		}
		raw = data
	case len(s.RequestBody) > 0 && string(s.RequestBody) != "null":
		raw = s.RequestBody
	default:
		return nil, nil
	}
	return []byte(f.expand(string(raw))), nil
}

func (f *Flow) expand(in string) string {
	if !strings.Contains(in, "{{") {
		return in
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range f.vars {
		in = strings.ReplaceAll(in, "{{"+k+"}}", v)
	}
	return in
}

// expandExpectations returns s with placeholders in string expectations
// replaced.
func (f *Flow) expandExpectations(s *Scenario) *Scenario {
	out := *s
	out.ExpectedFields = make(map[string]interface{}, len(s.ExpectedFields))
	for path, want := range s.ExpectedFields {
		if str, ok := want.(string); ok {
			want = f.expand(str)
		}
		out.ExpectedFields[path] = want
	}
	return &out
}

func (f *Flow) keepCookies(set []*http.Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range set {
		if c.MaxAge < 0 || c.Value == "" {
			delete(f.cookies, c.Name)
			continue
		}
		f.cookies[c.Name] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
}

func (f *Flow) capture(t *testing.T, s *Scenario, body []byte) {
	t.Helper()
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("testkit: [%s] capture from non-JSON body: %s", s.Name, body)
	}
	for name, path := range s.Capture {
		v, ok := Lookup(doc, path)
		if !ok || v == nil {
			t.Fatalf("testkit: [%s] capture %q: path %q not found", s.Name, name, path)
		}
		f.Set(name, fmt.Sprint(v))
	}
}

// Run executes a single scenario file against handler with a fresh flow.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}
	t.Run(s.Name, func(t *testing.T) {
		NewFlow(handler).Run(t, s)
	})
}

// RunDir runs every *.json scenario file in dir as an isolated subtest.
// Files that fail to parse are reported as failures.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Errorf("%v", err)
	}
	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			NewFlow(handler).Run(t, s)
		})
	}
}

// DumpScenario prints a scenario's resolved request for debugging.
func DumpScenario(w io.Writer, s *Scenario) {
	fmt.Fprintf(w, "[%s] %s %s -> %d\n", s.Name, s.RequestMethod, s.RequestURL, s.ExpectedCode)
	if len(s.RequestBody) > 0 {
		fmt.Fprintf(w, "  body: %s\n", s.RequestBody)
	}
	if p := s.RequestBodyPath(); p != "" {
		fmt.Fprintf(w, "  body file: %s\n", filepath.Base(p))
	}
}
