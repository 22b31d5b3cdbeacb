package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapfilter/internal/cli/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(new(bytes.Buffer))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"version", "parse", "tokens", "check", "repl", "completion"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}

	for _, flag := range []string{"config", "output", "verbose", "no-color", "catalog"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCmd_OutputFlag(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := runRoot(t, "-o", "json", "parse", "a = 1")
	require.NoError(t, err)

	var got output.ParseOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.OK)
	assert.Equal(t, "(Attr(a) = Integer(1))", got.AST)
}

func TestRootCmd_InvalidOutput(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runRoot(t, "--output", "xml", "parse", "a = 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output mode")
}

func TestRootCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.yaml"), []byte("tables:\n  orders: [id, total]\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leapfilter.yaml"),
		[]byte("output: text\nno_color: true\ncatalog: "+filepath.Join(dir, "schema.yaml")+"\n"), 0o600))
	t.Chdir(dir)

	out, err := runRoot(t, "parse", "total > 1")
	require.NoError(t, err)
	assert.Equal(t, "(Attr(total) > Integer(1))\n", out)

	out, err = runRoot(t, "parse", "price > 1")
	require.Error(t, err)
	assert.Contains(t, out, "error[TableAttrNotExist]:")

	// --catalog on the command line wins over the file.
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("tables:\n  items: [price]\n"), 0o600))
	out, err = runRoot(t, "--catalog", other, "parse", "price > 1")
	require.NoError(t, err)
	assert.Equal(t, "(Attr(price) > Integer(1))\n", out)
}

func TestRootCmd_Completion(t *testing.T) {
	out, err := runRoot(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "leapfilter")

	_, err = runRoot(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestRootCmd_Version(t *testing.T) {
	out, err := runRoot(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "leapfilter "+Version+"\n", out)
}
