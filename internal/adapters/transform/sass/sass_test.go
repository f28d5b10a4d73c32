package sass_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bep/godartsass/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/transform/sass"
	"go.trai.ch/assetpipe/internal/core/domain"
)

type fakeTranspiler struct {
	args   []godartsass.Args
	result godartsass.Result
	err    error
	closed bool
}

func (f *fakeTranspiler) Execute(args godartsass.Args) (godartsass.Result, error) {
	f.args = append(f.args, args)
	return f.result, f.err
}

func (f *fakeTranspiler) Close() error {
	f.closed = true
	return nil
}

func TestCompiler_Transform(t *testing.T) {
	source := filepath.Join(t.TempDir(), "src", "scss", "main.scss")
	fake := &fakeTranspiler{result: godartsass.Result{CSS: "body {\n  color: red;\n}"}}
	c := sass.NewWithTranspiler(sass.Options{IncludePaths: []string{"/site/node_modules/bourbon"}}, fake)

	out, err := c.Transform(t.Context(), []domain.Asset{
		{Path: "main.scss", Source: source, Data: []byte("$c: red; body { color: $c; }")},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "main.css", out[0].Path)
	assert.Equal(t, "body {\n  color: red;\n}\n", string(out[0].Data))

	require.Len(t, fake.args, 1)
	args := fake.args[0]
	assert.Equal(t, "$c: red; body { color: $c; }", args.Source)
	assert.Equal(t, godartsass.SourceSyntaxSCSS, args.SourceSyntax)
	assert.Equal(t, []string{filepath.Dir(source), "/site/node_modules/bourbon"}, args.IncludePaths)
	assert.False(t, args.EnableSourceMap)

	require.NoError(t, c.Close())
	assert.True(t, fake.closed)
}

func TestCompiler_Transform_InlineSourceMap(t *testing.T) {
	fake := &fakeTranspiler{result: godartsass.Result{CSS: "a{}", SourceMap: `{"version":3}`}}
	c := sass.NewWithTranspiler(sass.Options{SourceMap: true}, fake)

	out, err := c.Transform(t.Context(), []domain.Asset{{Path: "main.scss", Source: "/site/src/scss/main.scss"}})
	require.NoError(t, err)

	assert.True(t, fake.args[0].EnableSourceMap)
	assert.True(t, strings.HasPrefix(string(out[0].Data), "a{}\n/*# sourceMappingURL=data:application/json;charset=utf-8;base64,"))
}

func TestCompiler_Transform_CompileError(t *testing.T) {
	fake := &fakeTranspiler{err: errors.New("Undefined variable.")}
	c := sass.NewWithTranspiler(sass.Options{}, fake)

	_, err := c.Transform(t.Context(), []domain.Asset{{Path: "main.scss", Source: "/site/src/scss/main.scss"}})
	require.ErrorContains(t, err, "sass compilation failed")
}

func TestCompiler_Transform_MissingBinary(t *testing.T) {
	c := sass.New(sass.Options{Binary: filepath.Join(t.TempDir(), "no-such-sass")}, nil)

	_, err := c.Transform(t.Context(), []domain.Asset{{Path: "main.scss", Source: "/site/src/scss/main.scss"}})
	require.ErrorContains(t, err, "failed to start dart sass")
	require.NoError(t, c.Close())
}

func TestCompiler_Name(t *testing.T) {
	assert.Equal(t, "sass", sass.New(sass.Options{}, nil).Name())
}
