package frontend

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/gavioto/sysdb/internal/logging"
	"github.com/gavioto/sysdb/internal/metrics"
)

// Server accepts connections on a Unix-domain socket and dispatches each
// one through Handler, per §4.5.2 and §6's "listening socket" interface.
// Every accepted connection's read loop runs in its own goroutine,
// supervised by an errgroup so Serve can wait for them to drain.
type Server struct {
	logger  *slog.Logger
	handler Handler

	ln net.Listener

	group  *errgroup.Group
	stopCh chan struct{}
}

// NewServer creates a Server bound to no listener yet; call Listen to
// start accepting.
func NewServer(logger *slog.Logger, handler Handler) *Server {
	return &Server{
		logger:  logging.Default(logger).With("component", "frontend"),
		handler: handler,
		stopCh:  make(chan struct{}),
	}
}

// Listen binds a Unix-domain stream socket at path, removing any stale
// socket file left behind by a previous run first.
func (s *Server) Listen(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Serve runs the accept loop until ctx is canceled. It returns once
// every in-flight connection goroutine has returned.
func (s *Server) Serve(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	s.group = group

	group.Go(func() error {
		<-ctx.Done()
		close(s.stopCh)
		return s.ln.Close()
	})

	for {
		nc, err := s.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return group.Wait()
			default:
				s.logger.Warn("accept failed", "err", err)
				continue
			}
		}

		metrics.ConnectionsTotal.Inc()
		c := newConn(nc, s.logger, s.handler)
		group.Go(func() error {
			c.serve(s.stopCh)
			return nil
		})
	}
}
