package watcher

import (
	"os"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/assetpipe/internal/core/ports"
)

// ContentFilter drops write events that leave a file's content unchanged,
// such as an editor saving an unmodified buffer.
type ContentFilter struct {
	mu   sync.Mutex
	sums map[unique.Handle[string]]uint64
}

// NewContentFilter creates an empty filter. The first write seen for a path
// always passes.
func NewContentFilter() *ContentFilter {
	return &ContentFilter{sums: make(map[unique.Handle[string]]uint64)}
}

// Changed reports whether the event should be dispatched.
func (f *ContentFilter) Changed(event ports.WatchEvent) bool {
	key := unique.Make(event.Path)

	if event.Operation == ports.OpRemove || event.Operation == ports.OpRename {
		f.mu.Lock()
		delete(f.sums, key)
		f.mu.Unlock()
		return true
	}

	data, err := os.ReadFile(event.Path)
	if err != nil {
		return true
	}
	sum := xxhash.Sum64(data)

	f.mu.Lock()
	defer f.mu.Unlock()
	if prev, ok := f.sums[key]; ok && prev == sum {
		return false
	}
	f.sums[key] = sum
	return true
}
