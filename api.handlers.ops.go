package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
)

// OpsHandlerWrapper adapts a standard http.Handler into an httprouter.Handle.
func (api *APIHandler) OpsHandlerWrapper(h http.Handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h.ServeHTTP(w, r)
	}
}

// profilerHandlers maps each profiler route suffix to its handler.
// The index page serves the named profiles links.
func profilerHandlers() map[string]http.Handler {
	handlers := map[string]http.Handler{
		"":        http.HandlerFunc(pprof.Index),
		"profile": http.HandlerFunc(pprof.Profile),
		"trace":   http.HandlerFunc(pprof.Trace),
		"symbol":  http.HandlerFunc(pprof.Symbol),
		"cmdline": http.HandlerFunc(pprof.Cmdline),
	}
	for _, name := range []string{"heap", "allocs", "goroutine", "threadcreate", "block", "mutex"} {
		handlers[name] = pprof.Handler(name)
	}
	return handlers
}
