package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/devserver" //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/transform" //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.ReaderNodeID,
			fs.WriterNodeID,
			fs.CleanerNodeID,
			transform.NodeID,
			devserver.NodeID,
			watcher.WatcherNodeID,
			watcher.DebouncerNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	reader, err := graft.Dep[ports.AssetReader](ctx)
	if err != nil {
		return nil, err
	}
	writer, err := graft.Dep[ports.AssetWriter](ctx)
	if err != nil {
		return nil, err
	}
	cleaner, err := graft.Dep[ports.Cleaner](ctx)
	if err != nil {
		return nil, err
	}
	chains, err := graft.Dep[ports.ChainFactory](ctx)
	if err != nil {
		return nil, err
	}
	server, err := graft.Dep[ports.DevServer](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	debouncers, err := graft.Dep[ports.DebouncerFactory](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, reader, writer, cleaner, chains, server, w, debouncers, log, tracer), nil
}
