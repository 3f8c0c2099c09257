package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"djinn/compiler-go/pkg/ast"
)

func TestDefaultCatalogLoads(t *testing.T) {
	cat := Default()
	require.NotNil(t, cat)
	assert.Same(t, cat, Default())

	fn, ok := cat.Lookup("log")
	require.True(t, ok)
	assert.Equal(t, "log", fn.Name)
	assert.Equal(t, 1, fn.Arity())
	assert.Equal(t, ast.DataTypeStr, fn.Returns)
	assert.True(t, fn.Params[0].Accepts(ast.DataTypeStr))
	assert.False(t, fn.Params[0].Accepts(ast.DataTypeInt))
	assert.NotEmpty(t, fn.JS)

	for _, fn := range cat.Functions() {
		assert.NotEmpty(t, fn.JS, "builtin %s has no runtime body", fn.Name)
	}
}

func TestLookupIgnoresCase(t *testing.T) {
	cat := Default()
	for _, name := range []string{"LOG", "Log", "log"} {
		assert.True(t, cat.Has(name), name)
	}
	assert.False(t, cat.Has("print"))

	var empty *Catalog
	assert.False(t, empty.Has("log"))
	assert.Zero(t, empty.Len())
}

func TestLoadAcceptsScalarAndListParams(t *testing.T) {
	cat, err := Load(strings.NewReader(`
- name: twice
  params: [int, [int, float]]
  returns: float
  js: "function (a, b) { return a * b; }"
`))
	require.NoError(t, err)
	fn, ok := cat.Lookup("twice")
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, Param{ast.DataTypeInt}, fn.Params[0])
	assert.Equal(t, Param{ast.DataTypeInt, ast.DataTypeFloat}, fn.Params[1])
	assert.Equal(t, "int,float", fn.Params[1].String())
}

func TestLoadRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"unknown field":  "- name: f\n  returns: int\n  body: x\n",
		"bad return":     "- name: f\n  returns: number\n",
		"bad param":      "- name: f\n  params: [char]\n  returns: int\n",
		"empty param":    "- name: f\n  params: [[]]\n  returns: int\n",
		"reserved name":  "- name: __scope\n  returns: int\n",
		"invalid name":   "- name: 1f\n  returns: int\n",
		"duplicate name": "- name: f\n  returns: int\n- name: F\n  returns: int\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "catalog:")
		})
	}
}

func TestMergeOverlaysWithoutMutating(t *testing.T) {
	base := Default()
	extra, err := Load(strings.NewReader(`
- name: log
  params: [[str, int]]
  returns: str
- name: shout
  params: [str]
  returns: str
`))
	require.NoError(t, err)

	merged := base.Merge(extra)
	assert.Equal(t, base.Len()+1, merged.Len())

	fn, _ := merged.Lookup("log")
	assert.True(t, fn.Params[0].Accepts(ast.DataTypeInt))
	fn, _ = base.Lookup("log")
	assert.False(t, fn.Params[0].Accepts(ast.DataTypeInt))
	assert.False(t, base.Has("shout"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yml")
	require.NoError(t, os.WriteFile(path, []byte("- name: answer\n  returns: int\n  js: \"function () { return 42; }\"\n"), 0o644))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	fn, ok := cat.Lookup("answer")
	require.True(t, ok)
	assert.Zero(t, fn.Arity())

	_, err = LoadFile(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}
