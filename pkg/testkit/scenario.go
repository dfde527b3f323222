// Package testkit drives REST API tests from JSON scenario files.
//
// A scenario describes one request and what must come back:
//
//	{
//	  "name": "patch featured",
//	  "requestMethod": "PATCH",
//	  "requestUrl": "/api/admin/products/{{productId}}",
//	  "requestBody": {"featured": true},
//	  "expectedCode": 200,
//	  "expectedFields": {"data.featured": true}
//	}
//
// Files holding an array of scenarios run in order through one Flow, which
// carries cookies and captured variables from step to step:
//
//	flow := testkit.NewFlow(handler)
//	flow.Set("productId", p.ID)
//	flow.RunFile(t, "testdata/admin_patch.json")
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is a single request/expectation pair.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"` // relative to the scenario file
	RequestBody     json.RawMessage   `json:"requestBody"`     // inline alternative to requestFileName
	Headers         map[string]string `json:"headers"`

	ExpectedCode       int    `json:"expectedCode"`
	ExpectedStatusCode int    `json:"expectedStatusCode"` // alias of expectedCode
	ResponseFileName   string `json:"responseFileName"`   // whole-body JSON comparison

	// ExpectedFields maps dotted paths ("data.items.0.slug") to expected
	// values. The value "*" only requires the path to exist and be non-null.
	ExpectedFields map[string]interface{} `json:"expectedFields"`

	// Capture stores response values as flow variables: name -> dotted path.
	Capture map[string]string `json:"capture"`

	// NetUtilMockStep lists outgoing HTTP calls to intercept with a
	// MockTransport.
	NetUtilMockStep []MockStep `json:"netUtilMockStep"`
	IsMockRequired  bool       `json:"isMockRequired"`

	dir string
}

// MockStep describes one intercepted outgoing HTTP call.
type MockStep struct {
	// Method must be "httprequest".
	Method string `json:"method"`
	// HTTPMethod restricts the step to one verb; empty matches any.
	HTTPMethod string `json:"httpMethod"`
	IsMock     bool   `json:"isMock"`
	// MatchURL is a prefix; empty matches any request.
	MatchURL   string         `json:"matchUrl"`
	ReturnData MockReturnData `json:"returnData"`
}

// MockReturnData is the synthetic response of a mock step.
type MockReturnData struct {
	StatusCode int               `json:"statusCode"` // defaults to 200
	Body       string            `json:"body"`       // base64, wins over text
	Text       string            `json:"text"`
	Headers    map[string]string `json:"headers"`
}

// LoadScenario reads one scenario object from path.
func LoadScenario(path string) (*Scenario, error) {
	abs, data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	s.dir = filepath.Dir(abs)
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}
	return &s, nil
}

// LoadScenarioArray reads an ordered list of scenarios from path. The URL
// may be left out when a suite entry supplies it.
func LoadScenarioArray(path string) ([]*Scenario, error) {
	abs, data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var list []*Scenario
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("testkit: parse scenario array %q: %w", abs, err)
	}
	dir := filepath.Dir(abs)
	for i, s := range list {
		s.dir = dir
		if s.Name == "" {
			return nil, fmt.Errorf("testkit: %q item %d: name is required", abs, i)
		}
		s.defaults()
		if err := s.validateMocks(); err != nil {
			return nil, fmt.Errorf("testkit: %q item %q: %w", abs, s.Name, err)
		}
	}
	return list, nil
}

// LoadAllFromDir loads every *.json file in dir as a single scenario.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}
	var (
		out  []*Scenario
		errs []error
	)
	for _, path := range entries {
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, s)
	}
	return out, errs
}

func readFile(path string) (string, []byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}
	return abs, data, nil
}

func (s *Scenario) defaults() {
	if s.ExpectedCode == 0 {
		s.ExpectedCode = s.ExpectedStatusCode
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = 200
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	s.RequestMethod = strings.ToUpper(s.RequestMethod)
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 && s.ExpectedStatusCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	s.defaults()
	return s.validateMocks()
}

func (s *Scenario) validateMocks() error {
	for i, step := range s.NetUtilMockStep {
		if step.Method != "httprequest" {
			return fmt.Errorf("netUtilMockStep[%d].method must be \"httprequest\"", i)
		}
	}
	return nil
}

// RequestBodyPath is the absolute path of requestFileName, or "".
func (s *Scenario) RequestBodyPath() string { return s.resolve(s.RequestFileName) }

// ResponseBodyPath is the absolute path of responseFileName, or "".
func (s *Scenario) ResponseBodyPath() string { return s.resolve(s.ResponseFileName) }

func (s *Scenario) resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}
