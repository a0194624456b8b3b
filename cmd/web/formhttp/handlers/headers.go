package handlers

import "net/http"

// WithHeaders adds the configured static headers to every response
func WithHeaders(headers http.Header) HandlerWrapper {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dst := w.Header()
			for name, values := range headers {
				for _, value := range values {
					dst.Add(name, value)
				}
			}

			handler.ServeHTTP(w, r)
		})
	}
}
