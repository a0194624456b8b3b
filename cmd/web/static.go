package main

import (
	"embed"
	"net/http"

	"github.com/sirupsen/logrus"
)

//go:embed static/index.html
var staticFS embed.FS

// newIndexHandler serves the embedded contact page on the root path. Any
// other path under / is a 404, so the handler doubles as the catch-all.
func newIndexHandler(logger logrus.FieldLogger) http.HandlerFunc {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		// The page is compiled in, a failure here is a build defect.
		panic(err)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		if r.Method == http.MethodHead {
			return
		}

		if _, err := w.Write(page); err != nil {
			logger.WithError(err).Error("Failed writing the contact page")
		}
	}
}
