package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.trai.ch/assetpipe/internal/engine/runner"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type runnerTestMocks struct {
	reader *mocks.MockAssetReader
	writer *mocks.MockAssetWriter
	chains *mocks.MockChainProvider
	stage  *mocks.MockTransformer
	logger *mocks.MockLogger
	span   *mocks.MockSpan
}

func setupTracer(ctrl *gomock.Controller) (*mocks.MockTracer, *mocks.MockSpan) {
	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()
	return tracer, span
}

func setupRunnerTest(t *testing.T) (*runner.Runner, *domain.Project, runnerTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	tracer, span := setupTracer(ctrl)
	m := runnerTestMocks{
		reader: mocks.NewMockAssetReader(ctrl),
		writer: mocks.NewMockAssetWriter(ctrl),
		chains: mocks.NewMockChainProvider(ctrl),
		stage:  mocks.NewMockTransformer(ctrl),
		logger: mocks.NewMockLogger(ctrl),
		span:   span,
	}
	m.chains.EXPECT().Chain(gomock.Any()).Return(m.stage, nil).AnyTimes()

	p, err := domain.NewDefaultProject(t.TempDir())
	require.NoError(t, err)
	return runner.New(p, m.reader, m.writer, m.chains, m.logger, tracer), p, m
}

func TestRunner_Run_Styles(t *testing.T) {
	r, p, m := setupRunnerTest(t)

	sources := []domain.Asset{{Path: "main.scss", Data: []byte("$c: red;")}}
	compiled := []domain.Asset{{Path: "main.css", Data: []byte("body{}")}}

	gomock.InOrder(
		m.reader.EXPECT().Read(gomock.Any(), p.Root, gomock.Any()).Return(sources, nil),
		m.stage.EXPECT().Transform(gomock.Any(), sources).Return(compiled, nil),
		m.writer.EXPECT().Write(gomock.Any(), filepath.Join(p.Root, "dist", "css"), compiled).
			Return([]string{filepath.Join(p.Root, "dist", "css", "main.css")}, nil),
	)

	res, err := r.Run(t.Context(), domain.TaskStyles)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStyles, res.Task)
	assert.Equal(t, []string{"css/main.css"}, res.Outputs)
}

func TestRunner_Run_SourceNotFound(t *testing.T) {
	r, _, m := setupRunnerTest(t)

	m.reader.EXPECT().Read(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, domain.ErrSourceNotFound)
	m.logger.EXPECT().Warn(gomock.Any())

	res, err := r.Run(t.Context(), domain.TaskScripts)
	require.NoError(t, err)
	assert.Empty(t, res.Outputs)
}

func TestRunner_Run_TransformFailed(t *testing.T) {
	r, _, m := setupRunnerTest(t)

	m.reader.EXPECT().Read(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]domain.Asset{{Path: "index.pug"}}, nil)
	m.stage.EXPECT().Transform(gomock.Any(), gomock.Any()).Return(nil, zerr.New("unexpected token"))
	m.span.EXPECT().RecordError(gomock.Any())

	_, err := r.Run(t.Context(), domain.TaskTemplates)
	require.ErrorIs(t, err, domain.ErrTransformFailed)
	require.ErrorContains(t, err, "unexpected token")
}

func TestRunner_Run_FatalIO(t *testing.T) {
	r, _, m := setupRunnerTest(t)

	assets := []domain.Asset{{Path: "normalize.css"}}
	m.reader.EXPECT().Read(gomock.Any(), gomock.Any(), gomock.Any()).Return(assets, nil)
	m.stage.EXPECT().Transform(gomock.Any(), assets).Return(assets, nil)
	m.writer.EXPECT().Write(gomock.Any(), gomock.Any(), assets).
		Return(nil, errors.Join(domain.ErrFatalIO, zerr.New("read-only file system")))
	m.span.EXPECT().RecordError(gomock.Any())

	_, err := r.Run(t.Context(), domain.TaskLibs)
	require.ErrorIs(t, err, domain.ErrFatalIO)
}

func TestRunner_Run_UnknownTask(t *testing.T) {
	r, _, m := setupRunnerTest(t)
	m.span.EXPECT().RecordError(gomock.Any())

	_, err := r.Run(t.Context(), "fonts")
	require.ErrorContains(t, err, domain.ErrUnknownTask.Error())
}

func TestRunner_Run_CopyShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer, _ := setupTracer(ctrl)

	root := t.TempDir()
	for rel, content := range map[string]string{
		"src/fonts/a.woff":    "font",
		"src/fonts/sub/b.ttf": "font2",
		"src/robots.txt":      "robots",
		"src/scss/main.scss":  "styles",
		"src/index.pug":       "page",
		"src/images/logo.png": "png",
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
	}
	p, err := domain.NewDefaultProject(root)
	require.NoError(t, err)

	passthrough := mocks.NewMockChainProvider(ctrl)
	stage := mocks.NewMockTransformer(ctrl)
	stage.EXPECT().Transform(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, assets []domain.Asset) ([]domain.Asset, error) { return assets, nil },
	).AnyTimes()
	passthrough.EXPECT().Chain(domain.TaskCopy).Return(stage, nil).AnyTimes()

	r := runner.New(p, fs.NewReader(fs.NewWalker()), fs.NewWriter(), passthrough, mocks.NewMockLogger(ctrl), tracer)

	first, err := r.Run(t.Context(), domain.TaskCopy)
	require.NoError(t, err)
	assert.Equal(t, []string{"fonts/a.woff", "fonts/sub/b.ttf", "robots.txt"}, first.Outputs)

	data, err := os.ReadFile(filepath.Join(root, "dist", "fonts", "sub", "b.ttf"))
	require.NoError(t, err)
	assert.Equal(t, "font2", string(data))
	_, err = os.Stat(filepath.Join(root, "dist", "scss"))
	assert.True(t, os.IsNotExist(err), "claimed subtrees are not copied")

	second, err := r.Run(t.Context(), domain.TaskCopy)
	require.NoError(t, err)
	assert.Equal(t, first, second, "running twice yields the same output")
}
