package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/venkm/formrelay/cmd/web/config"
)

func newLogger(conf config.Config) (*logrus.Logger, error) {
	var err error
	logger := logrus.New()

	if conf.Server.Log.Format == config.LFJSON {
		logger.Formatter = &logrus.JSONFormatter{}
	} else {
		logger.Formatter = &logrus.TextFormatter{}
	}

	logger.Out = os.Stdout
	logger.Level, err = logrus.ParseLevel(conf.Server.Log.Level)

	return logger, err
}

func headersToHTTP(headers config.Headers) http.Header {
	h := http.Header{}
	for name, value := range headers {
		h.Add(name, value)
	}

	return h
}

func configureProfiler(mux *http.ServeMux, conf config.Config) {
	var prefix string
	if conf.Server.Profiler.Prefix != "" {
		prefix = conf.Server.Profiler.Prefix
	} else {
		prefix = "debug"
	}

	mux.HandleFunc(`/`+prefix+`/pprof/`, pprof.Index)
	mux.HandleFunc(`/`+prefix+`/pprof/cmdline`, pprof.Cmdline)
	mux.HandleFunc(`/`+prefix+`/pprof/profile`, pprof.Profile)
	mux.HandleFunc(`/`+prefix+`/pprof/symbol`, pprof.Symbol)
	mux.HandleFunc(`/`+prefix+`/pprof/trace`, pprof.Trace)
}

// newCustomResolver returns a resolver pinned to a specific DNS host
func newCustomResolver(host string) *net.Resolver {
	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{}
			return d.DialContext(ctx, network, net.JoinHostPort(host, `53`))
		},
	}
}

// clientIP extracts the submitting client's address, preferring the first hop recorded by a
// proxy in front of us.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}

		return strings.TrimSpace(xff)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}

func deferClose(toClose io.Closer, log logrus.FieldLogger) {
	if toClose == nil {
		return
	}

	if err := toClose.Close(); err != nil && log != nil {
		log.WithError(err).Error("Failed to close handle")
	}
}
