package collector

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"aiops-data-collector/internal/config"
	"aiops-data-collector/internal/model"
	"aiops-data-collector/pkg/utils"
)

// JoinEngine resolves a named entity descriptor into a fully joined record
// set, selecting the correct backend per descriptor.
type JoinEngine struct {
	fetcher *PaginatedFetcher
	cfg     *config.Config
}

// NewJoinEngine builds a JoinEngine
func NewJoinEngine(fetcher *PaginatedFetcher, cfg *config.Config) *JoinEngine {
	return &JoinEngine{fetcher: fetcher, cfg: cfg}
}

// Resolve fetches the collection an entity descriptor names. Descriptors
// with a sub-collection produce the joined shape: the main collection is
// fetched first, then one nested fetch per main record, with the parent id
// injected into every sub-record under the foreign key.
func (e *JoinEngine) Resolve(entity model.EntityDescriptor, headers map[string]string) (model.CollectionResult, error) {
	if entity.HasSubCollection() {
		return e.resolveJoined(entity, headers)
	}
	return e.resolveMain(entity, headers)
}

func (e *JoinEngine) resolveMain(entity model.EntityDescriptor, headers map[string]string) (model.CollectionResult, error) {
	if entity.MainCollection == "" {
		return nil, errors.WithMessage(ErrConfiguration, "main_collection is required")
	}

	endpoint := e.cfg.EndpointFor(config.ServiceFromSelector(entity.Service))
	return e.fetcher.FetchLinked(endpoint, entity.MainCollection, headers)
}

func (e *JoinEngine) resolveJoined(entity model.EntityDescriptor, headers map[string]string) (model.CollectionResult, error) {
	if entity.MainCollection == "" || entity.SubCollection == "" || entity.ForeignKey == "" {
		return nil, errors.WithMessagef(
			ErrConfiguration,
			"sub-collection shape needs main_collection, sub_collection and foreign_key (got %+v)",
			entity,
		)
	}

	endpoint := e.cfg.EndpointFor(config.ServiceFromSelector(entity.Service))

	mains, err := e.fetcher.FetchLinked(endpoint, entity.MainCollection, headers)
	if err != nil {
		return nil, err
	}

	joined := model.CollectionResult{}
	for _, parent := range mains {
		id := parent["id"]
		resource := utils.JoinURL(entity.MainCollection, utils.FormatID(id), entity.SubCollection)

		subs, err := e.fetcher.FetchLinked(endpoint, resource, headers)
		if err != nil {
			return nil, err
		}
		joined = append(joined, injectForeignKey(subs, entity.ForeignKey, id)...)
	}

	return joined, nil
}

// injectForeignKey copies every sub-record with the parent id set under
// the foreign key. Records are never mutated in place; upstream results
// may be aliased. A missing key name or parent id leaves records as-is.
func injectForeignKey(records model.CollectionResult, fkName string, id interface{}) model.CollectionResult {
	out := make(model.CollectionResult, 0, len(records))
	for _, rec := range records {
		copied := rec.Clone()
		if fkName != "" && id != nil {
			copied[fkName] = id
		}
		out = append(out, copied)
	}
	return out
}

// CollectJob resolves every named catalog entry in order and assembles the
// full collection set. The payload is all-or-nothing: one empty collection
// makes the whole job incomplete and nothing may be forwarded.
func (e *JoinEngine) CollectJob(names []string, headers map[string]string) (model.CollectionSet, bool, error) {
	if len(names) == 0 {
		return nil, false, nil
	}

	set := model.CollectionSet{}
	for _, name := range names {
		entity, ok := e.cfg.Catalog[name]
		if !ok {
			return nil, false, errors.WithMessagef(ErrConfiguration, "unknown collectable %q", name)
		}

		result, err := e.Resolve(entity, headers)
		if err != nil {
			return nil, false, err
		}
		if len(result) == 0 {
			log.WithField("collectable", name).Info("Empty collection, nothing to pass")
			return nil, false, nil
		}
		set[name] = result
	}

	return set, true, nil
}
