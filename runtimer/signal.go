// Package runtimer coordinates process shutdown: it waits for a signal and runs the registered
// teardown callbacks in registration order.
package runtimer

import (
	"os"
	"os/signal"
)

type Callback func(s os.Signal)

// OnSignal starts watching for the given signals and returns a handler. Callbacks run once, on
// the first signal received, in the order given.
func OnSignal(callbacks []Callback, signals ...os.Signal) *Handler {
	c := make(chan os.Signal, 1)
	signal.Notify(c, signals...)

	h := &Handler{
		c:         c,
		done:      make(chan struct{}),
		callbacks: callbacks,
	}

	go h.run()

	return h
}

type Handler struct {
	c         chan os.Signal
	done      chan struct{}
	callbacks []Callback
}

func (h *Handler) run() {
	defer close(h.done)

	s := <-h.c
	signal.Stop(h.c)

	for _, fn := range h.callbacks {
		fn(s)
	}
}

// Wait blocks until a signal arrived and every callback finished
func (h *Handler) Wait() {
	<-h.done
}
