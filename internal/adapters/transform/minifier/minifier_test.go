package minifier_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/transform/minifier"
	"go.trai.ch/assetpipe/internal/core/domain"
)

const expandedCSS = `/* header */
body {
  margin: 0px;
  padding: 0px;
  color: #ff0000;
}

.nav  a:hover {
  text-decoration: underline;
}
`

func TestCSS_Production_SmallerOutput(t *testing.T) {
	out, err := minifier.NewCSS().Transform(t.Context(), []domain.Asset{
		{Path: "main.css", Data: []byte(expandedCSS)},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)

	got := string(out[0].Data)
	assert.Less(t, len(got), len(expandedCSS)*7/10, "minified output should be at least 30 percent smaller")
	assert.NotContains(t, got, "/* header */")
	assert.Contains(t, got, "body{")
}

func TestMinifier_PassesOtherTypesThrough(t *testing.T) {
	in := []domain.Asset{
		{Path: "logo.png", Data: []byte{0x89, 'P', 'N', 'G'}},
		{Path: "main.css.map", Data: []byte("{ }")},
	}
	out, err := minifier.NewCSS().Transform(t.Context(), in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJS(t *testing.T) {
	src := "var answer = 40 + 2;\n\n// comment\nconsole.log( answer );\n"
	out, err := minifier.NewJS().Transform(t.Context(), []domain.Asset{{Path: "bundle.js", Data: []byte(src)}})
	require.NoError(t, err)

	got := string(out[0].Data)
	assert.NotContains(t, got, "// comment")
	assert.Less(t, len(got), len(src))
}

func TestHTML(t *testing.T) {
	src := "<!DOCTYPE html>\n<html>\n  <body>\n    <h1 class=\"title\">  Hello  </h1>\n  </body>\n</html>\n"
	out, err := minifier.NewHTML().Transform(t.Context(), []domain.Asset{{Path: "index.html", Data: []byte(src)}})
	require.NoError(t, err)

	got := string(out[0].Data)
	assert.Contains(t, got, `<h1 class="title">`)
	assert.Contains(t, got, "</html>")
	assert.False(t, strings.Contains(got, "\n  "), "indentation should be removed")
}

func TestSVG(t *testing.T) {
	src := "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"10\" height=\"10\">\n  <!-- icon -->\n  <rect width=\"10\" height=\"10\"/>\n</svg>\n"
	out, err := minifier.NewSVG().Transform(t.Context(), []domain.Asset{{Path: "icon.svg", Data: []byte(src)}})
	require.NoError(t, err)
	assert.NotContains(t, string(out[0].Data), "<!-- icon -->")
	assert.Less(t, len(out[0].Data), len(src))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "cssmin", minifier.NewCSS().Name())
	assert.Equal(t, "jsmin", minifier.NewJS().Name())
	assert.Equal(t, "htmlmin", minifier.NewHTML().Name())
	assert.Equal(t, "svgmin", minifier.NewSVG().Name())
}
