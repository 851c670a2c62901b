package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "apiquery", cmd.Use)
	assert.Contains(t, cmd.Long, "JSON:API")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"build", "render", "validate", "test", "watch", "catalog"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestCatalogSubcommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"save", "list", "show", "delete"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{"catalog", name})
			require.NoError(t, err)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestBuildCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	buildCmd, _, err := cmd.Find([]string{"build"})
	require.NoError(t, err)

	modelFlag := buildCmd.Flags().Lookup("model")
	require.NotNil(t, modelFlag)
	assert.Equal(t, "m", modelFlag.Shorthand)

	for _, name := range []string{"include", "append", "select", "where", "where-in", "sort", "page", "limit", "param", "param-name", "base-url"} {
		assert.NotNil(t, buildCmd.Flags().Lookup(name), "flag --%s should exist", name)
	}
}

func TestWatchCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	watchCmd, _, err := cmd.Find([]string{"watch"})
	require.NoError(t, err)

	debounceFlag := watchCmd.Flags().Lookup("debounce")
	require.NotNil(t, debounceFlag)
	assert.Equal(t, "100ms", debounceFlag.DefValue)

	queryFlag := watchCmd.Flags().Lookup("query")
	require.NotNil(t, queryFlag)
	assert.Equal(t, "q", queryFlag.Shorthand)
}

func TestCatalogCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	catalogCmd, _, err := cmd.Find([]string{"catalog"})
	require.NoError(t, err)

	dbFlag := catalogCmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "./apiquery.db", dbFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "invalid", "build", "--model", "pizza"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootRunsSubcommand(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"build", "--model", "pizza", "--limit", "3"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "/pizza?limit=3\n", buf.String())
}
