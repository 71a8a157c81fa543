package testkit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response status.
func AssertStatusCode(t *testing.T, s *Scenario, got int) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] HTTP status code mismatch", s.Name)
}

// AssertJSONBody compares the decoded bodies, so key order and whitespace
// never matter. An empty expectation is skipped.
func AssertJSONBody(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var want, got interface{}
	require.NoError(t, json.Unmarshal(expected, &want), "[%s] expected body is not valid JSON", s.Name)
	if !assert.NoError(t, json.Unmarshal(actual, &got), "[%s] response is not valid JSON\nbody: %s", s.Name, actual) {
		return
	}

	for _, path := range s.Ignore {
		drop(want, strings.Split(path, "."))
		drop(got, strings.Split(path, "."))
	}
	if s.Partial {
		got = project(want, got)
	}
	assert.Equal(t, want, got, "[%s] response body mismatch", s.Name)
}

// drop removes the value at path. A "*" segment matches every array element.
func drop(v interface{}, path []string) {
	if len(path) == 0 {
		return
	}
	switch node := v.(type) {
	case map[string]interface{}:
		if len(path) == 1 {
			delete(node, path[0])
			return
		}
		drop(node[path[0]], path[1:])
	case []interface{}:
		if path[0] != "*" {
			return
		}
		for _, el := range node {
			drop(el, path[1:])
		}
	}
}

// project trims got down to the shape of want: object keys absent from want
// are removed, recursively. Arrays keep their length so counts still matter.
func project(want, got interface{}) interface{} {
	switch w := want.(type) {
	case map[string]interface{}:
		g, ok := got.(map[string]interface{})
		if !ok {
			return got
		}
		out := make(map[string]interface{}, len(w))
		for k, wv := range w {
			if gv, ok := g[k]; ok {
				out[k] = project(wv, gv)
			}
		}
		return out
	case []interface{}:
		g, ok := got.([]interface{})
		if !ok {
			return got
		}
		out := make([]interface{}, len(g))
		for i := range g {
			if i < len(w) {
				out[i] = project(w[i], g[i])
			} else {
				out[i] = g[i]
			}
		}
		return out
	default:
		return got
	}
}
