package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "passport/pkg/domain-errors"
)

func run(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	app := newApp()
	out := &bytes.Buffer{}
	app.Writer = out
	return out, app.Run(append([]string{"passportctl"}, args...))
}

func TestDemoStrength(t *testing.T) {
	out, err := run(t, "demo", "strength", "1")
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	assert.Contains(t, body, "score")
	assert.Contains(t, body, "grade")
}

func TestDemoScan(t *testing.T) {
	out, err := run(t, "demo", "scan", "--limit", "1", "builder")
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	matches, ok := body["matches"].([]any)
	require.True(t, ok)
	assert.Len(t, matches, 1)
}

func TestDemoAbsentPassport(t *testing.T) {
	out, err := run(t, "demo", "passport", "3")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNoIdentity))
	assert.Empty(t, out.String())
}

func TestMissingHandle(t *testing.T) {
	_, err := run(t, "demo", "profile")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
