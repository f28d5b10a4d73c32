package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/core/domain"
)

func TestGlobBase(t *testing.T) {
	tests := []struct {
		pattern  string
		expected string
	}{
		{"src/scss/main.scss", "src/scss"},
		{"src/**", "src"},
		{"src/images/**.{jpg,png}", "src/images"},
		{"./src/*.pug", "src"},
		{"!src/js/**", "src/js"},
		{"**.php", "."},
		{"main.scss", "."},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.GlobBase(tt.pattern))
		})
	}
}

func TestMatcher_Match(t *testing.T) {
	m, err := domain.CompilePatterns([]string{"src/**", "!src/scss/**", "!src/*.pug"})
	require.NoError(t, err)

	tests := []struct {
		path     string
		expected bool
	}{
		{"src/fonts/a.woff", true},
		{"src/robots.txt", true},
		{"./src/robots.txt", true},
		{"src/scss/main.scss", false},
		{"src/index.pug", false},
		{"src/pug/layout.pug", true},
		{"README.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.Match(tt.path))
		})
	}
}

func TestMatcher_SingleStarStaysInSegment(t *testing.T) {
	m, err := domain.CompilePatterns([]string{"src/*.pug"})
	require.NoError(t, err)

	assert.True(t, m.Match("src/index.pug"))
	assert.False(t, m.Match("src/pug/layout.pug"))
}

func TestMatcher_Base(t *testing.T) {
	m, err := domain.CompilePatterns([]string{"src/scss/main.scss", "src/**"})
	require.NoError(t, err)

	base, ok := m.Base("src/scss/main.scss")
	require.True(t, ok)
	assert.Equal(t, "src/scss", base)
	assert.Equal(t, "main.scss", domain.RelativeTo(base, "src/scss/main.scss"))

	base, ok = m.Base("src/fonts/a.woff")
	require.True(t, ok)
	assert.Equal(t, "src", base)
	assert.Equal(t, "fonts/a.woff", domain.RelativeTo(base, "src/fonts/a.woff"))

	_, ok = m.Base("lib/a.js")
	assert.False(t, ok)
}

func TestMatcher_Roots(t *testing.T) {
	m, err := domain.CompilePatterns([]string{
		"src/scss/main.scss",
		"src/scss/header.scss",
		"src/**",
		"node_modules/normalize.css/normalize.css",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"node_modules/normalize.css", "src"}, m.Roots())
}

func TestCompilePatterns_Errors(t *testing.T) {
	t.Run("only negations", func(t *testing.T) {
		_, err := domain.CompilePatterns([]string{"!src/**"})
		require.ErrorContains(t, err, domain.ErrEmptyPatterns.Error())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := domain.CompilePatterns(nil)
		require.ErrorContains(t, err, domain.ErrEmptyPatterns.Error())
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := domain.CompilePatterns([]string{"src/["})
		require.ErrorContains(t, err, domain.ErrInvalidPattern.Error())
	})
}

func TestRelativeTo_Root(t *testing.T) {
	assert.Equal(t, "a/b.txt", domain.RelativeTo(".", "a/b.txt"))
}
