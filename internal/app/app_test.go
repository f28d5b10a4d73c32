package app_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/app"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// upper is a transformer that upper-cases every asset.
type upper struct{ err error }

func (upper) Name() string { return "upper" }

func (u upper) Transform(_ context.Context, assets []domain.Asset) ([]domain.Asset, error) {
	if u.err != nil {
		return nil, u.err
	}
	out := make([]domain.Asset, len(assets))
	for i, a := range assets {
		a.Data = []byte(strings.ToUpper(string(a.Data)))
		out[i] = a
	}
	return out, nil
}

type appTestMocks struct {
	loader     *mocks.MockConfigLoader
	chains     *mocks.MockChainFactory
	provider   *mocks.MockChainProvider
	server     *mocks.MockDevServer
	watcher    *mocks.MockWatcher
	debouncers *mocks.MockDebouncerFactory
	logger     *mocks.MockLogger
	tracer     *mocks.MockTracer
}

func setupAppTest(t *testing.T) (*app.App, *domain.Project, appTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	m := appTestMocks{
		loader:     mocks.NewMockConfigLoader(ctrl),
		chains:     mocks.NewMockChainFactory(ctrl),
		provider:   mocks.NewMockChainProvider(ctrl),
		server:     mocks.NewMockDevServer(ctrl),
		watcher:    mocks.NewMockWatcher(ctrl),
		debouncers: mocks.NewMockDebouncerFactory(ctrl),
		logger:     mocks.NewMockLogger(ctrl),
		tracer:     mocks.NewMockTracer(ctrl),
	}
	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()
	m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "robots.txt"), []byte("allow"), domain.PrivateFilePerm))
	p, err := domain.NewDefaultProject(root)
	require.NoError(t, err)

	a := app.New(
		m.loader,
		fs.NewReader(fs.NewWalker()),
		fs.NewWriter(),
		fs.NewCleaner(),
		m.chains,
		m.server,
		m.watcher,
		m.debouncers,
		m.logger,
		m.tracer,
	).WithRoot(root)
	return a, p, m
}

func TestApp_Build(t *testing.T) {
	a, p, m := setupAppTest(t)

	m.loader.EXPECT().Load(p.Root).Return(p, nil)
	m.chains.EXPECT().NewChains(p, domain.Production).Return(m.provider)
	m.provider.EXPECT().Chain(gomock.Any()).Return(upper{}, nil).AnyTimes()
	m.provider.EXPECT().Close().Return(nil)
	m.tracer.EXPECT().Shutdown(gomock.Any()).Return(nil)

	require.NoError(t, a.Build(t.Context(), app.RunOptions{Production: true}))

	data, err := os.ReadFile(filepath.Join(p.DistPath(), "robots.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ALLOW", string(data))
}

func TestApp_Build_ConfigError(t *testing.T) {
	a, p, m := setupAppTest(t)

	m.loader.EXPECT().Load(p.Root).Return(nil, domain.ErrConfigParseFailed)

	err := a.Build(t.Context(), app.RunOptions{})
	require.ErrorContains(t, err, "failed to load configuration")
	require.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())
}

func TestApp_Build_TaskFailure(t *testing.T) {
	a, p, m := setupAppTest(t)

	m.loader.EXPECT().Load(p.Root).Return(p, nil)
	m.chains.EXPECT().NewChains(p, domain.Development).Return(m.provider)
	m.provider.EXPECT().Chain(gomock.Any()).Return(upper{err: errors.New("boom")}, nil).AnyTimes()
	m.provider.EXPECT().Close().Return(errors.New("sass still running"))
	m.tracer.EXPECT().Shutdown(gomock.Any()).Return(nil)
	m.logger.EXPECT().Error(gomock.Any())

	err := a.Build(t.Context(), app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrBuildFailed)

	_, statErr := os.Stat(filepath.Join(p.DistPath(), "robots.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestApp_Dev(t *testing.T) {
	a, p, m := setupAppTest(t)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	m.loader.EXPECT().Load(p.Root).Return(p, nil)
	m.chains.EXPECT().NewChains(p, domain.Development).Return(m.provider)
	m.provider.EXPECT().Chain(gomock.Any()).Return(upper{}, nil).AnyTimes()
	m.provider.EXPECT().Close().Return(nil)
	m.tracer.EXPECT().Shutdown(gomock.Any()).Return(nil)

	m.server.EXPECT().Start(gomock.Any(), p.DistPath(), p.Server.Host, p.Server.Port).Return(nil)
	m.server.EXPECT().Addr().Return("127.0.0.1:3000")
	m.server.EXPECT().Shutdown(gomock.Any()).Return(nil)

	m.watcher.EXPECT().Start(gomock.Any(), p.Root, p.Watch.Ignore).DoAndReturn(
		func(context.Context, string, []string) error {
			cancel()
			return nil
		},
	)
	m.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(func(ports.WatchEvent) bool) {}))
	m.watcher.EXPECT().Stop().Return(nil)
	m.debouncers.EXPECT().NewDebouncer(p.Watch.Debounce, gomock.Any()).Return(mocks.NewMockDebouncer(gomock.NewController(t)))

	require.NoError(t, a.Dev(ctx, app.RunOptions{}))

	data, err := os.ReadFile(filepath.Join(p.DistPath(), "robots.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ALLOW", string(data))
}
