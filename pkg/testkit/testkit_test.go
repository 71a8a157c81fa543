package testkit_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazar/pkg/testkit"
)

var handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/health":
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	case "/echo":
		var in map[string]interface{}
		json.NewDecoder(r.Body).Decode(&in) //nolint:errcheck
		in["at"] = "2026-10-19T00:00:00Z"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"received": in,
			"server":   "bazar",
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
})

func TestRunDir(t *testing.T) {
	testkit.RunDir(t, handler, "testdata")
}

func TestLoadDirSkipsBodyFixtures(t *testing.T) {
	scenarios, err := testkit.LoadDir("testdata")
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "echo request body", scenarios[0].Name)
	assert.Equal(t, http.MethodPost, scenarios[0].Method)
	assert.Equal(t, "health check", scenarios[1].Name)
}

func TestLoadScenarioValidates(t *testing.T) {
	_, err := testkit.LoadScenario("testdata/echo_req.json")
	assert.ErrorContains(t, err, "name is required")
}
