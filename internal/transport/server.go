package transport

import (
	"context"
	"errors"
	"io"
	stdlog "log"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Server wraps the HTTP listener for the local API.
type Server struct {
	httpServer *http.Server
	errWriter  io.Closer
}

// NewServer prepares a server for handler on addr. Listener errors are
// written to log.
func NewServer(addr string, handler http.Handler, log *logrus.Logger) *Server {
	w := log.WriterLevel(logrus.ErrorLevel)
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			MaxHeaderBytes:    1 << 20,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      requestTimeout + 5*time.Second,
			IdleTimeout:       60 * time.Second,
			ReadHeaderTimeout: 3 * time.Second,
			ErrorLog:          stdlog.New(w, "", 0),
		},
		errWriter: w,
	}
}

// Run serves until Shutdown is called. It returns nil after a graceful
// shutdown.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	err := s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.errWriter.Close()
	return s.httpServer.Shutdown(ctx)
}
