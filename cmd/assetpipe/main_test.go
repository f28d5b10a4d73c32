package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/app"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestRun_ProviderError(t *testing.T) {
	var stderr bytes.Buffer
	code := run(t.Context(), []string{"build"}, &stderr, func(context.Context) (*app.Components, error) {
		return nil, errors.New("wiring failed")
	})

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: wiring failed\n", stderr.String())
}

func TestRun_ConfigError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load(".").Return(nil, domain.ErrConfigInvalid)
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, domain.ErrConfigInvalid.Error())
	})

	a := app.New(loader, nil, nil, nil, nil, nil, nil, nil, logger, nil)
	code := run(t.Context(), []string{"build"}, &bytes.Buffer{}, func(context.Context) (*app.Components, error) {
		return app.NewComponents(a, logger), nil
	})
	assert.Equal(t, 1, code)
}

func TestRun_Build(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "fonts"), domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "fonts", "a.woff"), []byte("font"), domain.PrivateFilePerm))
	t.Chdir(root)

	var stderr bytes.Buffer
	code := run(t.Context(), []string{"build", "--prod"}, &stderr, func(ctx context.Context) (*app.Components, error) {
		return executeGraph(ctx)
	})
	require.Equal(t, 0, code, stderr.String())

	data, err := os.ReadFile(filepath.Join(root, "dist", "fonts", "a.woff"))
	require.NoError(t, err)
	assert.Equal(t, "font", string(data))
}

func TestRun_BuildFailed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "js"), domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "images.txt"), []byte("x"), domain.PrivateFilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "js", "bundle.js"), []byte("let = ;"), domain.PrivateFilePerm))
	t.Chdir(root)

	code := run(t.Context(), []string{"build"}, &bytes.Buffer{}, func(ctx context.Context) (*app.Components, error) {
		return executeGraph(ctx)
	})
	assert.Equal(t, 1, code)

	data, err := os.ReadFile(filepath.Join(root, "dist", "images.txt"))
	require.NoError(t, err, "other tasks still run to completion")
	assert.Equal(t, "x", string(data))
}

func executeGraph(ctx context.Context) (*app.Components, error) {
	c, _, err := graft.ExecuteFor[*app.Components](ctx)
	return c, err
}
