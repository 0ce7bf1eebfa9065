// Package option dispatches command line flags to the component that owns
// them.
package option

import (
	"github.com/simple-als/wdals/common"
	"sync"
)

type Handler interface {
	Name() string
	// Handle returns an error when the handler has nothing to do, so the
	// next one can run.
	Handle() error
	Priority() int
}

var (
	mu       sync.Mutex
	handlers = make(map[string]Handler)
)

func RegisterHandler(h Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[h.Name()] = h
}

// PopOptionHandler removes and returns the handler with the highest priority.
func PopOptionHandler() (Handler, error) {
	mu.Lock()
	defer mu.Unlock()
	var maxHandler Handler
	for _, h := range handlers {
		if maxHandler == nil || maxHandler.Priority() < h.Priority() {
			maxHandler = h
		}
	}
	if maxHandler == nil {
		return nil, common.NewError("no option left")
	}
	delete(handlers, maxHandler.Name())
	return maxHandler, nil
}
