package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/core/domain"
)

func TestNewDefaultProject(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site")
	p, err := domain.NewDefaultProject(root)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, filepath.Join(root, "dist"), p.DistPath())
	assert.Equal(t, domain.DefaultPort, p.Server.Port)
	assert.Equal(t, "jQuery", p.Scripts.Externals["$"])
	assert.NotEmpty(t, p.Dispatch)
}

func TestProject_Validate_DestOutsideRoot(t *testing.T) {
	p, err := domain.NewDefaultProject(t.TempDir())
	require.NoError(t, err)

	p.DistRoot = "public"
	err = p.Validate()
	require.ErrorContains(t, err, domain.ErrDestOutsideRoot.Error())
}

func TestProject_Validate_DistRoot(t *testing.T) {
	for _, dist := range []string{"", ".", "../out"} {
		t.Run(dist, func(t *testing.T) {
			p, err := domain.NewDefaultProject(t.TempDir())
			require.NoError(t, err)

			p.DistRoot = dist
			require.ErrorContains(t, p.Validate(), domain.ErrConfigInvalid.Error())
		})
	}
}

func TestProject_DestRelative(t *testing.T) {
	p, err := domain.NewDefaultProject(t.TempDir())
	require.NoError(t, err)

	rel, err := p.DestRelative("dist/css")
	require.NoError(t, err)
	assert.Equal(t, "css", rel)

	rel, err = p.DestRelative("dist")
	require.NoError(t, err)
	assert.Equal(t, ".", rel)

	_, err = p.DestRelative("distribution/css")
	require.ErrorContains(t, err, domain.ErrDestOutsideRoot.Error())
}

func TestProject_Rel(t *testing.T) {
	root := t.TempDir()
	p, err := domain.NewDefaultProject(root)
	require.NoError(t, err)

	rel, ok := p.Rel(filepath.Join(root, "src", "scss", "main.scss"))
	require.True(t, ok)
	assert.Equal(t, "src/scss/main.scss", rel)

	_, ok = p.Rel(filepath.Dir(root))
	assert.False(t, ok)

	assert.True(t, p.InDist("dist/css/main.css"))
	assert.True(t, p.InDist("dist"))
	assert.False(t, p.InDist("distribution/a.txt"))
}
