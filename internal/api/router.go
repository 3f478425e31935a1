package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aiops-data-collector/internal/api/handler"
	"aiops-data-collector/internal/config"
	"aiops-data-collector/pkg/router"
)

// RoutePrefix derives the route prefix from the deployment's path prefix
// and application name; both empty means routes are mounted at the root.
func RoutePrefix(cfg *config.Config) string {
	if cfg.PathPrefix == "" {
		return ""
	}
	return "/" + cfg.PathPrefix + "/" + cfg.AppName
}

// RegisterRoutes mounts the ingress API and the metrics exporter
func RegisterRoutes(r *router.Router, h *handler.Handler, prefix string) {
	r.GET(prefix+"/", h.Root)
	r.GET(prefix+"/v"+handler.APIVersion+"/version", h.Version)
	r.POST(prefix+"/v"+handler.APIVersion+"/collect", h.Collect)
	r.Handle(http.MethodGet, "/metrics", promhttp.Handler())
}
