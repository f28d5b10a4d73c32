// Package devserver serves the destination tree over HTTP and pushes
// live-reload events to connected browsers.
package devserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DevServer = (*Server)(nil)

const readHeaderTimeout = 10 * time.Second

// Server implements ports.DevServer. One instance serves one root for the
// lifetime of the process.
type Server struct {
	logger         ports.Logger
	hub            *Hub
	metricsHandler http.Handler

	mu   sync.Mutex
	srv  *http.Server
	addr string
}

// New creates a Server. metrics and metricsHandler may be nil.
func New(logger ports.Logger, metrics ports.Metrics, metricsHandler http.Handler) *Server {
	return &Server{
		logger:         logger,
		hub:            NewHub(metrics),
		metricsHandler: metricsHandler,
	}
}

// Start binds host:port and serves root in the background.
func (s *Server) Start(_ context.Context, root, host string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return zerr.With(domain.ErrServerStartFailed, "reason", "already started")
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServerStartFailed.Error()), "addr", addr)
	}

	s.srv = &http.Server{
		Handler:           s.routes(root),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.addr = ln.Addr().String()

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(zerr.Wrap(err, "dev server stopped"))
		}
	}(s.srv)
	return nil
}

func (s *Server) routes(root string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(EventsPath, s.hub)
	mux.HandleFunc(ClientPath, serveClient)
	if s.metricsHandler != nil {
		mux.Handle(MetricsPath, s.metricsHandler)
	}
	mux.Handle("/", noStore(injectClient(http.FileServer(http.Dir(root)))))
	return mux
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Reload makes every connected browser reload the page.
func (s *Server) Reload(context.Context) {
	s.hub.Broadcast(Event{Type: KindReload})
}

// StreamUpdate pushes the stylesheets among paths. Other files are ignored,
// and nothing is sent when no stylesheet remains.
func (s *Server) StreamUpdate(_ context.Context, paths []string) {
	var css []string
	for _, p := range paths {
		p = strings.TrimPrefix(path.Clean("/"+p), "/")
		if path.Ext(p) == ".css" {
			css = append(css, p)
		}
	}
	if len(css) == 0 {
		return
	}
	slices.Sort(css)
	s.hub.Broadcast(Event{Type: KindCSS, Paths: slices.Compact(css)})
}

// Clients returns the number of connected browsers.
func (s *Server) Clients() int {
	return s.hub.Clients()
}

// Shutdown disconnects every browser, then stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Shutdown()

	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
