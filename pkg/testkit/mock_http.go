package testkit

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Call is one outgoing request seen by a MockTransport.
type Call struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// MockTransport answers outgoing HTTP requests from a scenario's mock steps
// and records every call. Hand it to the client under test:
//
//	mt := testkit.NewMockTransport(scenario)
//	c := khttp.NewClient(base, khttp.WithHTTPClient(&http.Client{Transport: mt}))
//
// Steps are tried in order; the first enabled step whose method and URL
// prefix match answers. Unmatched calls go to Fallback when set, fail when
// the scenario requires mocks, and get a 404 otherwise.
type MockTransport struct {
	Fallback http.RoundTripper

	mu      sync.Mutex
	steps   []*stepState
	require bool
	calls   []Call
}

type stepState struct {
	MockStep
	hits int
}

// NewMockTransport builds a transport from the steps in s.
func NewMockTransport(s *Scenario) *MockTransport {
	mt := &MockTransport{require: s.IsMockRequired}
	for _, step := range s.NetUtilMockStep {
		mt.steps = append(mt.steps, &stepState{MockStep: step})
	}
	return mt
}

// On appends a step answering method+urlPrefix with code and body.
func (mt *MockTransport) On(method, urlPrefix string, code int, body string, header map[string]string) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.steps = append(mt.steps, &stepState{MockStep: MockStep{
		Method:     "httprequest",
		HTTPMethod: method,
		IsMock:     true,
		MatchURL:   urlPrefix,
		ReturnData: MockReturnData{StatusCode: code, Text: body, Headers: header},
	}})
	return mt
}

// RoundTrip implements http.RoundTripper.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		if body, err = io.ReadAll(req.Body); err != nil {
			return nil, fmt.Errorf("testkit: read outgoing body: %w", err)
		}
		_ = req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	mt.mu.Lock()
	mt.calls = append(mt.calls, Call{Method: req.Method, URL: req.URL.String(), Header: req.Header.Clone(), Body: body})
	step := mt.match(req)
	fallback, strict := mt.Fallback, mt.require
	mt.mu.Unlock()

	switch {
	case step != nil:
		return step.ReturnData.response(req)
	case fallback != nil:
		return fallback.RoundTrip(req)
	case strict:
		return nil, fmt.Errorf("testkit: unexpected outgoing %s %s: no matching mock step", req.Method, req.URL)
	}
	return (&MockReturnData{StatusCode: http.StatusNotFound, Text: `{"error":"no mock configured"}`}).response(req)
}

func (mt *MockTransport) match(req *http.Request) *stepState {
	for _, s := range mt.steps {
		if !s.IsMock {
			continue
		}
		if s.HTTPMethod != "" && !strings.EqualFold(s.HTTPMethod, req.Method) {
			continue
		}
		if s.MatchURL != "" && !strings.HasPrefix(req.URL.String(), s.MatchURL) {
			continue
		}
		s.hits++
		return s
	}
	return nil
}

// Calls returns every request seen so far.
func (mt *MockTransport) Calls() []Call {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return append([]Call(nil), mt.calls...)
}

// AssertAllCalled reports every enabled step that was never hit.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, s := range mt.steps {
		if s.IsMock && s.hits == 0 {
			errs = append(errs, fmt.Errorf("testkit: mock step %s %q was never called", s.HTTPMethod, s.MatchURL))
		}
	}
	return errs
}

func (rd MockReturnData) response(req *http.Request) (*http.Response, error) {
	code := rd.StatusCode
	if code == 0 {
		code = http.StatusOK
	}

	payload := []byte(rd.Text)
	if rd.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(rd.Body)
		if err != nil {
			if decoded, err = base64.RawStdEncoding.DecodeString(rd.Body); err != nil {
				return nil, fmt.Errorf("testkit: base64 decode mock body: %w", err)
			}
		}
		payload = decoded
	}

	header := make(http.Header)
	if len(payload) > 0 {
		header.Set("Content-Type", "application/json")
	}
	for k, v := range rd.Headers {
		header.Set(k, v)
	}

	return &http.Response{
		StatusCode:    code,
		Status:        fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(payload)),
		ContentLength: int64(len(payload)),
		Request:       req,
	}, nil
}
