package config

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"aiops-data-collector/internal/model"
)

// Catalog is the named EntityDescriptor table, read-only after startup
type Catalog map[string]model.EntityDescriptor

type catalogFile struct {
	Queries      Catalog  `yaml:"queries"`
	Collectables []string `yaml:"collectables"`
}

// LoadCatalog reads the descriptor catalog and the ordered list of active
// entries from a YAML file. An empty path yields the built-in defaults.
func LoadCatalog(path string) (Catalog, []string, error) {
	if path == "" {
		return defaultCatalog(), defaultCollectables(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to read catalog %s", path)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, nil, errors.Wrapf(err, "invalid catalog %s", path)
	}
	if len(file.Queries) == 0 {
		return nil, nil, errors.Errorf("catalog %s defines no queries", path)
	}

	collectables := file.Collectables
	if len(collectables) == 0 {
		collectables = make([]string, 0, len(file.Queries))
		for name := range file.Queries {
			collectables = append(collectables, name)
		}
	}

	for _, name := range collectables {
		if _, ok := file.Queries[name]; !ok {
			return nil, nil, errors.Errorf("collectable %q has no catalog entry", name)
		}
	}

	return file.Queries, collectables, nil
}

func defaultCatalog() Catalog {
	return Catalog{
		"container_nodes":    {MainCollection: "container_nodes"},
		"volume_attachments": {MainCollection: "volume_attachments"},
		"volumes":            {MainCollection: "volumes"},
		"volume_types":       {MainCollection: "volume_types"},
		"container_nodes_tags": {
			MainCollection: "container_nodes",
			SubCollection:  "tags",
			ForeignKey:     "container_node_id",
		},
	}
}

func defaultCollectables() []string {
	return []string{
		"container_nodes",
		"volume_attachments",
		"volumes",
		"volume_types",
		"container_nodes_tags",
	}
}
