package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/adapters/logger"
	"go.trai.ch/assetpipe/internal/core/ports"
)

const (
	// WatcherNodeID is the unique identifier for the file watcher Graft node.
	WatcherNodeID graft.ID = "adapter.watcher"
	// DebouncerNodeID is the unique identifier for the debouncer factory Graft node.
	DebouncerNodeID graft.ID = "adapter.watcher.debouncer"
)

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        WatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Watcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewWatcher(log)
		},
	})

	graft.Register(graft.Node[ports.DebouncerFactory]{
		ID:        DebouncerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DebouncerFactory, error) {
			return DebouncerFactory{}, nil
		},
	})
}
