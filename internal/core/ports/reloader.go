package ports

import "context"

// Reloader notifies connected browsers.
//
//go:generate go run go.uber.org/mock/mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks
type Reloader interface {
	// Reload makes every connected browser reload the page.
	Reload(ctx context.Context)
	// StreamUpdate pushes changed stylesheets so browsers swap them in place.
	// Paths are relative to the served root.
	StreamUpdate(ctx context.Context, paths []string)
}

// DevServer serves the destination tree with live reload.
type DevServer interface {
	Reloader
	// Start binds the listener and serves root in the background.
	Start(ctx context.Context, root string, host string, port int) error
	// Addr returns the bound address. It is empty before Start.
	Addr() string
	// Shutdown stops the server and disconnects every browser.
	Shutdown(ctx context.Context) error
}
