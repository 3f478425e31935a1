package collector

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"aiops-data-collector/internal/cache"
	"aiops-data-collector/internal/model"
)

// tenantsCollection enumerates known tenants on the internal backend
var tenantsEntity = model.EntityDescriptor{
	MainCollection: "tenants",
	Service:        "TOPOLOGICAL_INTERNAL",
}

// TenantIterator expands a job into one or many tenant contexts. In
// all-tenants mode every known tenant is enumerated through the internal
// backend and marked processed up front, regardless of how its pipeline
// run later turns out.
type TenantIterator struct {
	engine     *JoinEngine
	processed  *cache.ProcessedCache
	allTenants bool
}

// NewTenantIterator builds a TenantIterator
func NewTenantIterator(engine *JoinEngine, processed *cache.ProcessedCache, allTenants bool) *TenantIterator {
	return &TenantIterator{engine: engine, processed: processed, allTenants: allTenants}
}

// Tenants returns the tenant contexts a job fans out to. A nil entry means
// the pipeline runs once without an identity header attached.
func (it *TenantIterator) Tenants(job model.Job) ([]*model.TenantContext, error) {
	if !it.allTenants {
		return it.singleTenant(job)
	}
	return it.enumerateTenants(job)
}

func (it *TenantIterator) singleTenant(job model.Job) ([]*model.TenantContext, error) {
	if job.Tenant == nil {
		return []*model.TenantContext{nil}, nil
	}

	if err := it.processed.MarkProcessed(job.Tenant.AccountNumber); err != nil {
		return nil, err
	}
	return []*model.TenantContext{job.Tenant}, nil
}

func (it *TenantIterator) enumerateTenants(job model.Job) ([]*model.TenantContext, error) {
	headers := map[string]string{}
	if job.Tenant != nil {
		headers["x-rh-identity"] = job.Tenant.B64Identity
	}

	records, err := it.engine.Resolve(tenantsEntity, headers)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to enumerate tenants")
	}

	tenants := make([]*model.TenantContext, 0, len(records))
	for _, rec := range records {
		account, ok := externalTenant(rec)
		if !ok {
			log.WithField("record", rec).Warn("Tenant record has no external_tenant, skipping")
			continue
		}

		tenant := model.NewTenantContext(account)
		if err := it.processed.MarkProcessed(account); err != nil {
			return nil, err
		}
		tenants = append(tenants, &tenant)
	}

	return tenants, nil
}

func externalTenant(rec model.GenericRecord) (int, bool) {
	switch v := rec["external_tenant"].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
