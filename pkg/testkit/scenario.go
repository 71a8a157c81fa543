// Package testkit drives HTTP API tests from JSON scenario files.
//
// A scenario names the request to fire and the response to expect:
//
//	{
//	  "name": "list products in a category",
//	  "method": "GET",
//	  "url": "/api/products?category=1",
//	  "expectedCode": 200,
//	  "responseFile": "products_by_category_res.json",
//	  "partial": true,
//	  "ignore": ["meta.to"]
//	}
//
// Scenario files live in testdata/ next to the test:
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, handler, "testdata/scenarios")
//	}
package testkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scenario is one request/response case.
type Scenario struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	Headers     map[string]string `json:"headers"`

	// Body is sent as is. RequestFile, resolved against the scenario's
	// directory, is used when Body is empty.
	Body        json.RawMessage `json:"body"`
	RequestFile string          `json:"requestFile"`

	ExpectedCode int             `json:"expectedCode"`
	Response     json.RawMessage `json:"response"`
	ResponseFile string          `json:"responseFile"`

	// Partial compares only the keys present in the expected body.
	Partial bool `json:"partial"`
	// Ignore lists dotted paths removed from both bodies before comparing.
	Ignore []string `json:"ignore"`

	dir string
}

// LoadScenario reads and validates one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}
	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.URL == "" {
		return errors.New("url is required")
	}
	if s.ExpectedCode == 0 {
		return errors.New("expectedCode is required")
	}
	if s.Method == "" {
		s.Method = "GET"
	}
	s.Method = strings.ToUpper(s.Method)
	return nil
}

// RequestBody returns the bytes to send, or nil.
func (s *Scenario) RequestBody() ([]byte, error) {
	if len(s.Body) > 0 {
		return s.Body, nil
	}
	return s.read(s.RequestFile)
}

// ExpectedBody returns the expected response, or nil when none is set.
func (s *Scenario) ExpectedBody() ([]byte, error) {
	if len(s.Response) > 0 {
		return s.Response, nil
	}
	return s.read(s.ResponseFile)
}

func (s *Scenario) read(name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(s.dir, name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("testkit: [%s] read %q: %w", s.Name, name, err)
	}
	return data, nil
}

// LoadDir loads every *.json file in dir that is a scenario. Files without
// a top-level "expectedCode" are treated as body fixtures and skipped.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("testkit: glob %q: %w", dir, err)
	}
	sort.Strings(paths)

	var (
		out  []*Scenario
		errs []error
	)
	for _, path := range paths {
		if !isScenario(path) {
			continue
		}
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 && len(errs) == 0 {
		return nil, fmt.Errorf("testkit: no scenario files found in %q", dir)
	}
	return out, errors.Join(errs...)
}

func isScenario(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	var fields map[string]json.RawMessage
	if json.Unmarshal(data, &fields) != nil {
		return false
	}
	_, ok := fields["expectedCode"]
	return ok
}
