package collector

import (
	"encoding/json"
	"io"
	"net/http"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"aiops-data-collector/internal/cache"
	"aiops-data-collector/internal/config"
	"aiops-data-collector/internal/model"
	"aiops-data-collector/pkg/utils"
)

// Worker names selectable through the WORKER environment switch
const (
	WorkerDownload      = "download"
	WorkerHostInventory = "host_inventory"
	WorkerTopology      = "topological_inventory"
)

// Runner executes the fetch, join and forward pipeline for one job. The
// concrete pipeline is selected by the deployment's worker switch.
type Runner struct {
	cfg     *config.Config
	fetcher *PaginatedFetcher
	engine  *JoinEngine
	tenants *TenantIterator
	sink    *ForwardingSink
}

// NewRunner wires the whole pipeline for a deployment configuration
func NewRunner(cfg *config.Config, transport *Transport, processed *cache.ProcessedCache) *Runner {
	fetcher := NewPaginatedFetcher(transport)
	engine := NewJoinEngine(fetcher, cfg)

	return &Runner{
		cfg:     cfg,
		fetcher: fetcher,
		engine:  engine,
		tenants: NewTenantIterator(engine, processed, cfg.AllTenants),
		sink:    NewForwardingSink(transport),
	}
}

// Run executes one job to completion. Failures are only observable here:
// they are logged and counted, never reported back to the submitter.
func (r *Runner) Run(job model.Job) {
	logger := log.WithFields(log.Fields{
		"source_id": job.SourceID,
		"worker":    r.cfg.Worker,
	})
	logger.Debug("Worker started")

	var err error
	switch r.cfg.Worker {
	case WorkerDownload:
		err = r.downloadJob(job)
	case WorkerHostInventory:
		err = r.hostInventoryJob(job)
	case WorkerTopology:
		err = r.topologyJob(job)
	default:
		err = errors.WithMessagef(ErrConfiguration, "unknown worker %q", r.cfg.Worker)
	}

	if err != nil {
		logger.Errorf("Job failed: %v", err)
		return
	}
	logger.Debug("Done, exiting")
}

// downloadJob fetches a single source URL and passes its content along
func (r *Runner) downloadJob(job model.Job) error {
	transport := r.fetcher.transport

	resp, err := transport.Do(http.MethodGet, job.SourceRef, nil, nil)
	if err != nil {
		return errors.WithMessagef(err, "unable to fetch source data for %q", job.SourceID)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "unable to read source data for %q", job.SourceID)
	}

	// Sources usually serve JSON; anything else is passed through verbatim.
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		data = string(raw)
	}

	identity := ""
	if job.Tenant != nil {
		identity = job.Tenant.B64Identity
	}

	envelope := model.Envelope{ID: job.SourceID, Data: data}
	if err := r.sink.Forward(job.Destination, envelope, identity); err != nil {
		return errors.WithMessagef(err, "failed to pass data for %q", job.SourceID)
	}
	return nil
}

// hostInventoryJob collects the count-paginated host list of one account
func (r *Runner) hostInventoryJob(job model.Job) error {
	if job.Tenant == nil {
		return errors.WithMessage(ErrConfiguration, "host inventory jobs need a tenant")
	}

	headers := map[string]string{"x-rh-identity": job.Tenant.B64Identity}
	base := utils.JoinURL(r.cfg.HostInventoryHost, r.cfg.HostInventoryPath)

	hosts, err := r.fetcher.FetchCounted(base, headers)
	if err != nil {
		return errors.WithMessagef(err, "unable to fetch source data for %q", job.SourceID)
	}
	log.WithFields(log.Fields{
		"account": job.Tenant.AccountNumber,
		"total":   hosts.Total,
	}).Debug("Received host data")

	envelope := model.AccountEnvelope{
		Account: job.Tenant.AccountNumber,
		Data:    hosts,
	}
	if err := r.sink.Forward(job.Destination, envelope, job.Tenant.B64Identity); err != nil {
		return errors.WithMessagef(err, "failed to pass data for %q", job.SourceID)
	}
	return nil
}

// topologyJob resolves every configured collectable per tenant and
// forwards the assembled set, gated by the completeness check
func (r *Runner) topologyJob(job model.Job) error {
	tenants, err := r.tenants.Tenants(job)
	if err != nil {
		return err
	}

	var errs *multierror.Error
	for _, tenant := range tenants {
		headers := map[string]string{}
		identity := ""
		if tenant != nil {
			headers["x-rh-identity"] = tenant.B64Identity
			identity = tenant.B64Identity
		}

		set, complete, err := r.engine.CollectJob(r.cfg.Collectables, headers)
		if err != nil {
			errs = multierror.Append(errs, errors.WithMessagef(err, "unable to fetch source data for %q", job.SourceID))
			continue
		}
		if !complete {
			continue
		}

		envelope := model.Envelope{ID: job.SourceID, Data: set}
		if err := r.sink.Forward(job.Destination, envelope, identity); err != nil {
			errs = multierror.Append(errs, errors.WithMessagef(err, "failed to pass data for %q", job.SourceID))
		}
	}

	return errs.ErrorOrNil()
}
