package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteRouteSchemasJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRouteSchemas(&buf, "json"))

	var doc struct {
		Routes []struct {
			Method    string                     `json:"method"`
			Path      string                     `json:"path"`
			Responses map[string]json.RawMessage `json:"responses"`
		} `json:"routes"`
		Replies []struct {
			Code    string `json:"code"`
			Success bool   `json:"success"`
		} `json:"replies"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Routes, 1)
	assert.Equal(t, "GET", doc.Routes[0].Method)
	assert.Equal(t, "/api/v1/health", doc.Routes[0].Path)
	assert.Contains(t, doc.Routes[0].Responses, "200")

	require.NotEmpty(t, doc.Replies)
	assert.Equal(t, "APP_HEALTH_QUERIED", doc.Replies[0].Code)
	assert.True(t, doc.Replies[0].Success)
}

func TestWriteRouteSchemasYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRouteSchemas(&buf, "yaml"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	routes, ok := doc["routes"].([]any)
	require.True(t, ok)
	require.Len(t, routes, 1)
	route := routes[0].(map[string]any)
	assert.Equal(t, "/api/v1/health", route["path"])
}

func TestWriteRouteSchemasUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, writeRouteSchemas(&buf, "toml"))
	assert.Empty(t, buf.String())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version", "--config", ""})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	chdirForTest(t, t.TempDir())

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "skeleton dev")
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (equivalent of testing.T.Chdir).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
