package router

import (
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// HandlerFunc handles one request
type HandlerFunc func(http.ResponseWriter, *http.Request)

// Router is a small method-aware request multiplexer with request logging.
// Routes are registered as METHOD:PATH pairs; trailing slashes are not
// significant.
type Router struct {
	routes map[string]HandlerFunc // key = METHOD:PATH
	paths  map[string]bool        // registered paths, for 405 vs 404
}

// New builds an empty Router
func New() *Router {
	return &Router{
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
	}
}

func (r *Router) register(method, path string, handler HandlerFunc) {
	r.routes[method+":"+normalize(path)] = handler
	r.paths[normalize(path)] = true
}

// GET registers a handler for GET requests on path
func (r *Router) GET(path string, handler HandlerFunc) { r.register(http.MethodGet, path, handler) }

// POST registers a handler for POST requests on path
func (r *Router) POST(path string, handler HandlerFunc) { r.register(http.MethodPost, path, handler) }

// Handle registers a plain http.Handler, e.g. the metrics exporter
func (r *Router) Handle(method, path string, handler http.Handler) {
	r.register(method, path, handler.ServeHTTP)
}

// ServeHTTP dispatches the request and logs method, path, status and
// duration once the handler returns
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	srw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	path := normalize(req.URL.Path)
	if handler, ok := r.routes[req.Method+":"+path]; ok {
		handler(srw, req)
	} else if r.paths[path] {
		http.Error(srw, "Method Not Allowed", http.StatusMethodNotAllowed)
	} else {
		http.Error(srw, "Not Found", http.StatusNotFound)
	}

	log.WithFields(log.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"status":   srw.statusCode,
		"duration": time.Since(start).String(),
	}).Info("Request handled")
}

// Start runs the HTTP server on addr
func (r *Router) Start(addr string) error {
	log.Infof("Server started on %s", addr)
	return http.ListenAndServe(addr, r)
}

func normalize(path string) string {
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// statusResponseWriter captures the status code for request logging
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
