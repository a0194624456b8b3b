// Package formhttp owns the HTTP edge of the service: server construction, the wire types and
// request plumbing shared by the handlers.
package formhttp

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"

	"github.com/venkm/formrelay/cmd/web/config"
)

// BuildHTTPServer wraps the mux in the given middleware (outermost last) and binds the listener.
// The listener is limited to the configured amount of connections, when set.
func BuildHTTPServer(mux http.Handler, conf config.Config, logger logrus.FieldLogger, logWriter io.Writer, middleware ...func(h http.Handler) http.Handler) (*Server, error) {
	for _, h := range middleware {
		mux = h(mux)
	}

	wTTL := 30 * time.Second
	if conf.Server.Profiler.Enable {
		// Profiles run for 30 seconds by default, the write timeout needs to exceed that
		wTTL = 31 * time.Second
	}

	server := &http.Server{
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      wTTL,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 19, // 512 kb
		Handler:           mux,
		Addr:              conf.Server.ListenOn,
		ErrorLog:          log.New(logWriter, "", 0),
	}

	listener, err := net.Listen("tcp", conf.Server.ListenOn)
	if err != nil {
		return nil, err
	}

	if conf.Server.ConnectionLimit > 0 {
		listener = netutil.LimitListener(listener, int(conf.Server.ConnectionLimit))
	}

	logger.WithFields(logrus.Fields{
		"listen_on": conf.Server.ListenOn,
	}).Debug("Listener bound")

	return &Server{
		server:   server,
		listener: listener,
	}, nil
}

type Server struct {
	server   *http.Server
	listener net.Listener
}

// Serve blocks, serving requests until Shutdown is called
func (s *Server) Serve() error {
	return s.server.Serve(s.listener)
}

// Shutdown drains in-flight requests and closes the listener
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
