package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/apiquery/internal/jsonutil"
)

func executeBuild(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewBuildCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestBuildText(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "single filter",
			args: []string{"--model", "pizza", "--where", "topping=cheese"},
			want: "/pizza?filter[topping]=cheese\n",
		},
		{
			name: "filters keep flag order",
			args: []string{"-m", "pizza", "--where", "size=12", "--where-in", "topping=cheese,beef"},
			want: "/pizza?filter[size]=12&filter[topping]=cheese,beef\n",
		},
		{
			name: "everything",
			args: []string{
				"--model", "posts",
				"--include", "user,comments",
				"--append", "likes",
				"--select", "id,title",
				"--sort", "-created_at,title",
				"--page", "2",
				"--limit", "10",
				"--param", "format=basic",
				"--param", "a=1",
				"--base-url", "https://api.example.com",
			},
			want: "https://api.example.com/posts?include=user,comments&append=likes&fields[posts]=id,title&sort=-created_at,title&page=2&limit=10&format=basic&a=1\n",
		},
		{
			name: "renamed parameter",
			args: []string{"--model", "pizza", "--page", "1", "--param-name", "page=p"},
			want: "/pizza?p=1\n",
		},
		{
			name: "page zero is still set",
			args: []string{"--model", "pizza", "--page", "0"},
			want: "/pizza?page=0\n",
		},
		{
			name: "model only",
			args: []string{"--model", "pizza"},
			want: "/pizza\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeBuild(t, "text", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestBuildJSON(t *testing.T) {
	out, err := executeBuild(t, "json", "--model", "pizza", "--where", "topping=cheese")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   BuildResult `json:"data"`
	}
	require.NoError(t, jsonutil.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "/pizza?filter[topping]=cheese", resp.Data.URL)
}

func TestBuildMissingModel(t *testing.T) {
	out, err := executeBuild(t, "text", "--where", "topping=cheese")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E101]")
	assert.Contains(t, out, "PRECONDITION")
}

func TestBuildMissingModelJSON(t *testing.T) {
	out, err := executeBuild(t, "json", "--page", "1")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, jsonutil.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodePrecondition, resp.Error.Code)
}

func TestBuildBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "where without value", args: []string{"--model", "pizza", "--where", "topping"}, want: "--where: expected key=value"},
		{name: "where-in without key", args: []string{"--model", "pizza", "--where-in", "=a,b"}, want: "--where-in: expected key=value"},
		{name: "param without value", args: []string{"--model", "pizza", "--param", "format"}, want: "--param: expected key=value"},
		{name: "unknown param name", args: []string{"--model", "pizza", "--param-name", "colour=c"}, want: `unknown parameter "colour"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeBuild(t, "text", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error [E009]")
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestSplitPair(t *testing.T) {
	key, value, err := splitPair("url=a=b", "--param")
	require.NoError(t, err)
	assert.Equal(t, "url", key)
	assert.Equal(t, "a=b", value)

	key, value, err = splitPair("empty=", "--param")
	require.NoError(t, err)
	assert.Equal(t, "empty", key)
	assert.Empty(t, value)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, splitList(""))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList("a,b"))
}
