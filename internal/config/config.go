package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Service is the closed set of backends a collection can be served from
type Service int

const (
	// ServiceTopological is the default backend for entity resolution
	ServiceTopological Service = iota
	// ServiceSources serves the sources collections
	ServiceSources
	// ServiceTopologicalInternal serves internal collections such as tenants
	ServiceTopologicalInternal
)

// ServiceFromSelector maps a catalog selector onto a backend. Unknown or
// empty selectors fall back to the topological backend.
func ServiceFromSelector(selector string) Service {
	switch selector {
	case "SOURCES":
		return ServiceSources
	case "TOPOLOGICAL_INTERNAL":
		return ServiceTopologicalInternal
	case "TOPOLOGICAL":
		return ServiceTopological
	default:
		return ServiceTopological
	}
}

// Endpoint locates one backend service
type Endpoint struct {
	Host string `json:"host"`
	Path string `json:"path"`
}

// Config holds all environment driven settings, loaded once at startup
type Config struct {
	AppName        string
	PathPrefix     string
	Port           int
	Worker         string
	NextServiceURL string

	MaxRetries    int
	SSLVerify     bool
	ProcessWindow time.Duration
	AllTenants    bool

	WorkerPoolSize  int
	WorkerQueueSize int

	RedisHost     string
	RedisPort     int
	RedisPassword string

	HostInventoryHost string
	HostInventoryPath string

	services map[Service]Endpoint

	Catalog      Catalog
	Collectables []string
}

// Load reads the environment and the collectables catalog file
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("PORT", 8004)
	v.SetDefault("MAX_RETRIES", 3)
	v.SetDefault("SSL_VERIFY", true)
	v.SetDefault("PROCESS_WINDOW", 3600)
	v.SetDefault("ALL_TENANTS", false)
	v.SetDefault("WORKER", "topological_inventory")
	v.SetDefault("WORKER_POOL_SIZE", 4)
	v.SetDefault("WORKER_QUEUE_SIZE", 64)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.AutomaticEnv()

	cfg := &Config{
		AppName:        v.GetString("APP_NAME"),
		PathPrefix:     v.GetString("PATH_PREFIX"),
		Port:           v.GetInt("PORT"),
		Worker:         v.GetString("WORKER"),
		NextServiceURL: v.GetString("NEXT_SERVICE_URL"),

		MaxRetries:    v.GetInt("MAX_RETRIES"),
		SSLVerify:     v.GetBool("SSL_VERIFY"),
		ProcessWindow: time.Duration(v.GetInt("PROCESS_WINDOW")) * time.Second,
		AllTenants:    v.GetBool("ALL_TENANTS"),

		WorkerPoolSize:  v.GetInt("WORKER_POOL_SIZE"),
		WorkerQueueSize: v.GetInt("WORKER_QUEUE_SIZE"),

		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetInt("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		HostInventoryHost: v.GetString("HOST_INVENTORY_HOST"),
		HostInventoryPath: v.GetString("HOST_INVENTORY_PATH"),

		services: map[Service]Endpoint{
			ServiceTopological: {
				Host: v.GetString("TOPOLOGICAL_INVENTORY_HOST"),
				Path: v.GetString("TOPOLOGICAL_INVENTORY_PATH"),
			},
			ServiceSources: {
				Host: v.GetString("SOURCES_HOST"),
				Path: v.GetString("SOURCES_PATH"),
			},
			ServiceTopologicalInternal: {
				Host: v.GetString("TOPOLOGICAL_INTERNAL_HOST"),
				Path: v.GetString("TOPOLOGICAL_INTERNAL_PATH"),
			},
		},
	}

	catalog, collectables, err := LoadCatalog(v.GetString("COLLECTABLES_FILE"))
	if err != nil {
		return nil, err
	}
	cfg.Catalog = catalog
	cfg.Collectables = collectables

	return cfg, nil
}

// EndpointFor returns the location of a backend service
func (c *Config) EndpointFor(svc Service) Endpoint {
	return c.services[svc]
}

// RedisAddr returns the host:port address of the shared cache
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// WithEndpoints overrides the backend table; used by tests to point
// resolution at fake servers.
func (c *Config) WithEndpoints(services map[Service]Endpoint) *Config {
	c.services = services
	return c
}
