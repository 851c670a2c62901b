package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/apiquery/internal/jsonutil"
)

func executeValidate(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateValidFile(t *testing.T) {
	out, err := executeValidate(t, "text", filepath.Join("testdata", "queries.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "✓ All 2 query(ies) valid\n", out)
}

func TestValidateValidFileJSON(t *testing.T) {
	out, err := executeValidate(t, "json", filepath.Join("testdata", "queries.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, jsonutil.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Queries)
}

func TestValidateReportsEveryFailure(t *testing.T) {
	out, err := executeValidate(t, "text", filepath.Join("testdata", "broken.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 2 error(s)")

	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, `E101: nomodel: render "nomodel": PRECONDITION`)
	assert.Contains(t, out, `E102: badvalue: render "badvalue": INVALID_ARGUMENT`)
	assert.NotContains(t, out, ": ok:")
}

func TestValidateReportsEveryFailureJSON(t *testing.T) {
	out, err := executeValidate(t, "json", filepath.Join("testdata", "broken.yaml"))
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, jsonutil.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Queries)
	require.Len(t, resp.Data.Errors, 2)
	assert.Equal(t, "nomodel", resp.Data.Errors[0].Query)
	assert.Equal(t, ErrCodePrecondition, resp.Data.Errors[0].Code)
	assert.Equal(t, "badvalue", resp.Data.Errors[1].Query)
	assert.Equal(t, ErrCodeInvalidArgument, resp.Data.Errors[1].Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodePrecondition, resp.Error.Code)
}

func TestValidateParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte("queries: [{\n\tname: \"x\"\n\tmodel: 3\n}]\n"), 0644))

	out, err := executeValidate(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E004: ")
}

func TestValidateNonExistentFile(t *testing.T) {
	out, err := executeValidate(t, "text", "/nonexistent/queries.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, out, "not found")
}
