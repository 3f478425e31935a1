package collector

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis"
	"github.com/go-redis/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiops-data-collector/internal/cache"
	"aiops-data-collector/internal/config"
	"aiops-data-collector/internal/model"
)

func withProcessed(t *testing.T, action func(mr *miniredis.Miniredis, c *cache.ProcessedCache)) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	db := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	action(mr, cache.NewProcessedCache(db, time.Minute))
}

func TestSingleTenantMode(t *testing.T) {
	withProcessed(t, func(mr *miniredis.Miniredis, processed *cache.ProcessedCache) {
		it := NewTenantIterator(nil, processed, false)

		tenant := model.NewTenantContext(1)
		tenants, err := it.Tenants(model.Job{Tenant: &tenant})
		require.NoError(t, err)

		require.Len(t, tenants, 1)
		assert.Equal(t, 1, tenants[0].AccountNumber)

		marked, err := processed.Processed(1)
		require.NoError(t, err)
		assert.True(t, marked)
	})
}

func TestSingleTenantModeWithoutIdentity(t *testing.T) {
	withProcessed(t, func(mr *miniredis.Miniredis, processed *cache.ProcessedCache) {
		it := NewTenantIterator(nil, processed, false)

		tenants, err := it.Tenants(model.Job{})
		require.NoError(t, err)

		// the pipeline still runs once, with no identity header attached
		require.Len(t, tenants, 1)
		assert.Nil(t, tenants[0])
		assert.Empty(t, mr.Keys())
	})
}

func TestAllTenantsMode(t *testing.T) {
	records := make([]model.GenericRecord, 0, 10)
	for i := 0; i < 10; i++ {
		records = append(records, model.GenericRecord{"external_tenant": i})
	}

	backend := newFakeBackend(map[string][]model.GenericRecord{"/tenants": records})
	defer backend.close()

	cfg := (&config.Config{}).WithEndpoints(map[config.Service]config.Endpoint{
		config.ServiceTopologicalInternal: backend.endpoint(),
	})

	withProcessed(t, func(mr *miniredis.Miniredis, processed *cache.ProcessedCache) {
		it := NewTenantIterator(engineFor(cfg), processed, true)

		submitter := model.NewTenantContext(1)
		tenants, err := it.Tenants(model.Job{Tenant: &submitter})
		require.NoError(t, err)

		require.Len(t, tenants, 10)
		for i, tenant := range tenants {
			assert.Equal(t, i, tenant.AccountNumber)

			// marking is optimistic: it happens during enumeration,
			// before any tenant's pipeline has run at all
			marked, err := processed.Processed(i)
			require.NoError(t, err)
			assert.True(t, marked)
		}
	})
}

func TestAllTenantsSkipsMalformedRecords(t *testing.T) {
	backend := newFakeBackend(map[string][]model.GenericRecord{"/tenants": {
		{"external_tenant": 7},
		{"name": "no tenant field"},
	}})
	defer backend.close()

	cfg := (&config.Config{}).WithEndpoints(map[config.Service]config.Endpoint{
		config.ServiceTopologicalInternal: backend.endpoint(),
	})

	withProcessed(t, func(mr *miniredis.Miniredis, processed *cache.ProcessedCache) {
		it := NewTenantIterator(engineFor(cfg), processed, true)

		tenants, err := it.Tenants(model.Job{})
		require.NoError(t, err)

		require.Len(t, tenants, 1)
		assert.Equal(t, 7, tenants[0].AccountNumber)
	})
}

func TestAllTenantsCacheFailure(t *testing.T) {
	backend := newFakeBackend(map[string][]model.GenericRecord{"/tenants": {
		{"external_tenant": 1},
	}})
	defer backend.close()

	cfg := (&config.Config{}).WithEndpoints(map[config.Service]config.Endpoint{
		config.ServiceTopologicalInternal: backend.endpoint(),
	})

	withProcessed(t, func(mr *miniredis.Miniredis, processed *cache.ProcessedCache) {
		mr.Close()
		it := NewTenantIterator(engineFor(cfg), processed, true)

		_, err := it.Tenants(model.Job{})
		assert.Error(t, err)
	})
}
