package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"aiops-data-collector/internal/cache"
	"aiops-data-collector/internal/collector"
	"aiops-data-collector/internal/config"
	"aiops-data-collector/internal/metrics"
	"aiops-data-collector/internal/model"
	"aiops-data-collector/pkg/utils"
)

// APIVersion is reported by every response body
const APIVersion = "1.0"

// Handler serves the ingress API. It owns no pipeline logic: payloads are
// turned into jobs and handed to the dispatcher.
type Handler struct {
	cfg        *config.Config
	processed  *cache.ProcessedCache
	dispatcher *collector.Dispatcher
	transport  *collector.Transport
}

// New builds a Handler
func New(cfg *config.Config, processed *cache.ProcessedCache, dispatcher *collector.Dispatcher, transport *collector.Transport) *Handler {
	return &Handler{cfg: cfg, processed: processed, dispatcher: dispatcher, transport: transport}
}

// Root reports overall service health: a worker must be configured and
// both the cache and the next service must respond
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	switch {
	case !knownWorker(h.cfg.Worker):
		writeJSON(w, http.StatusInternalServerError, model.StatusResponse{
			Status: "Error", Version: APIVersion, Message: "No worker set",
		})
	case !h.pingNextService() || !h.processed.Ping():
		writeJSON(w, http.StatusInternalServerError, model.StatusResponse{
			Status: "Error", Version: APIVersion, Message: "Required service not operational",
		})
	default:
		writeJSON(w, http.StatusOK, model.StatusResponse{
			Status: "OK", Version: APIVersion, Message: "Up and Running",
		})
	}
}

// Version reports the current API version
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.StatusResponse{
		Status:  "OK",
		Version: APIVersion,
		Message: "AIOPS Data Collector Version v" + APIVersion,
	})
}

// Collect accepts a data collection job. The submitting account must carry
// an identity header and must not have been processed within the window;
// accepted jobs are dispatched and the call returns immediately.
func (h *Handler) Collect(w http.ResponseWriter, r *http.Request) {
	metrics.JobsTotal.Inc()

	b64Identity := r.Header.Get("x-rh-identity")
	if b64Identity == "" {
		metrics.JobsDenied.Inc()
		writeJSON(w, http.StatusUnauthorized, model.StatusResponse{
			Status: "Unauthorized", Version: APIVersion, Message: "Missing 'x-rh-identity' header",
		})
		return
	}

	account, err := model.AccountFromIdentity(b64Identity)
	if err != nil {
		metrics.JobsDenied.Inc()
		writeJSON(w, http.StatusUnauthorized, model.StatusResponse{
			Status: "Unauthorized", Version: APIVersion, Message: "Invalid 'x-rh-identity' header",
		})
		return
	}
	log.Debugf("Account_id: %d", account)

	processed, err := h.processed.Processed(account)
	if err != nil {
		log.Errorf("Processed cache not available: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, model.StatusResponse{
			Status: "Error", Version: APIVersion, Message: "Required service not operational",
		})
		return
	}
	if processed {
		log.Infof("Account %d processed before, skipping", account)
		writeJSON(w, http.StatusOK, model.StatusResponse{
			Status: "OK", Version: APIVersion, Message: "Account processed before",
		})
		return
	}

	var input model.CollectRequest
	if r.Body != nil {
		// A missing or malformed body means a job without a source URL,
		// not a rejected submission.
		_ = json.NewDecoder(r.Body).Decode(&input)
	}

	sourceID := input.PayloadID
	if sourceID == "" {
		sourceID = uuid.New().String()
	}

	tenant := model.TenantContext{AccountNumber: account, B64Identity: b64Identity}
	h.dispatcher.Dispatch(model.Job{
		SourceRef:   input.URL,
		SourceID:    sourceID,
		Destination: h.cfg.NextServiceURL,
		Tenant:      &tenant,
	})
	log.Info("Job started.")

	metrics.JobsInitiated.Inc()
	writeJSON(w, http.StatusOK, model.StatusResponse{
		Status: "OK", Version: APIVersion, Message: "Job initiated",
	})
}

func (h *Handler) pingNextService() bool {
	if h.cfg.NextServiceURL == "" {
		return false
	}
	resp, err := h.transport.Do(http.MethodGet, utils.JoinURL(h.cfg.NextServiceURL, "ping"), nil, nil)
	if err != nil {
		log.Debugf("Next Service not available: %v", err)
		return false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return true
}

func knownWorker(name string) bool {
	switch name {
	case collector.WorkerDownload, collector.WorkerHostInventory, collector.WorkerTopology:
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, code int, body model.StatusResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
