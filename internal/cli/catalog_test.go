package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/apiquery/internal/jsonutil"
)

func executeCatalog(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewCatalogCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestCatalogLifecycle(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")
	queries := filepath.Join("testdata", "queries.yaml")

	out, err := executeCatalog(t, "text", "save", queries, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "✓ saved cheesy (revision 1)\n✓ saved sodas (revision 1)\n", out)

	out, err = executeCatalog(t, "text", "save", queries, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ saved cheesy (revision 2)")

	out, err = executeCatalog(t, "text", "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "cheesy\thttps://api.example.com/pizza?include=toppings&filter[topping]=cheese,beef&sort=-name\n"+
		"sodas\thttps://api.example.com/soda?fields[soda]=id,flavour&page=2&limit=5\n", out)

	out, err = executeCatalog(t, "text", "list", "--model", "soda", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "sodas\thttps://api.example.com/soda?fields[soda]=id,flavour&page=2&limit=5\n", out)

	out, err = executeCatalog(t, "text", "show", "cheesy", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/pizza?include=toppings&filter[topping]=cheese,beef&sort=-name\n", out)

	out, err = executeCatalog(t, "text", "delete", "cheesy", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "✓ deleted cheesy\n", out)

	out, err = executeCatalog(t, "text", "show", "cheesy", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestCatalogJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")

	_, err := executeCatalog(t, "json", "save", filepath.Join("testdata", "queries.yaml"), "--db", db)
	require.NoError(t, err)

	out, err := executeCatalog(t, "json", "list", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []CatalogEntry `json:"data"`
	}
	require.NoError(t, jsonutil.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "cheesy", resp.Data[0].Name)
	assert.Equal(t, "pizza", resp.Data[0].Model)
	assert.Equal(t, 1, resp.Data[0].Revision)
	assert.NotEmpty(t, resp.Data[0].ID)
	assert.Equal(t, "https://api.example.com/pizza?include=toppings&filter[topping]=cheese,beef&sort=-name", resp.Data[0].URL)
}

func TestCatalogSavedFailuresStillList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")

	_, err := executeCatalog(t, "text", "save", filepath.Join("testdata", "broken.yaml"), "--db", db)
	require.NoError(t, err)

	out, err := executeCatalog(t, "text", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "ok\t/pizza\n")
	assert.Contains(t, out, "nomodel\t✗ ")

	out, err = executeCatalog(t, "text", "show", "nomodel", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E006]")
}

func TestCatalogEmptyList(t *testing.T) {
	out, err := executeCatalog(t, "text", "list", "--db", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	assert.Equal(t, "No saved queries.\n", out)
}

func TestCatalogDeleteMissing(t *testing.T) {
	out, err := executeCatalog(t, "text", "delete", "nope", "--db", filepath.Join(t.TempDir(), "catalog.db"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestCatalogSaveMissingFile(t *testing.T) {
	out, err := executeCatalog(t, "text", "save", "/nonexistent/queries.yaml", "--db", filepath.Join(t.TempDir(), "catalog.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "not found")
}

func TestCatalogOpenFailure(t *testing.T) {
	out, err := executeCatalog(t, "text", "list", "--db", "/nonexistent/dir/catalog.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E008]")
}
