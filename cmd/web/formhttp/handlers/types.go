package handlers

import (
	"net/http"
)

type HandlerWrapper func(handler http.Handler) http.Handler

// CustomResponseWriter records the status and size of a response as it's written
type CustomResponseWriter struct {
	http.ResponseWriter
	Status       int
	BytesWritten int
}

func NewCustomResponseWriter(w http.ResponseWriter) *CustomResponseWriter {
	return &CustomResponseWriter{
		ResponseWriter: w,
	}
}

func (w *CustomResponseWriter) WriteHeader(statusCode int) {
	w.Status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *CustomResponseWriter) Write(b []byte) (int, error) {
	if w.Status == 0 {
		w.Status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.BytesWritten += n
	return n, err
}
