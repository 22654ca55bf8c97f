package gen

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/compiler/load"
	"github.com/syssam/evolve/transform"
)

// shop loads the shop script shared with the load package.
func shop(t *testing.T) (*change.Model, []transform.Migration) {
	t.Helper()
	s, err := load.ReadScript(filepath.Join("..", "load", "testdata", "shop.yaml"))
	require.NoError(t, err)
	m, err := s.ChangeModel()
	require.NoError(t, err)
	ms, err := s.Compile()
	require.NoError(t, err)
	return m, ms
}

// render returns the source of f with all white space removed.
func render(t *testing.T, f *jen.File) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, buf.String())
}
