package model

// CollectRequest is the payload for POST /v1.0/collect
type CollectRequest struct {
	URL       string `json:"url"`
	PayloadID string `json:"payload_id"`
}

// Job describes a single accepted collection task
type Job struct {
	SourceRef   string         `json:"source_ref"`       // data source location (URL for download jobs)
	SourceID    string         `json:"source_id"`        // data identifier, generated when absent
	Destination string         `json:"destination"`      // where the collected data should be received
	Tenant      *TenantContext `json:"tenant,omitempty"` // submitting account, if known
}

// Envelope is the outbound POST body passed to the next service
type Envelope struct {
	ID   string      `json:"id"`
	Data interface{} `json:"data"`
}

// AccountEnvelope is the outbound POST body used by the host inventory worker
type AccountEnvelope struct {
	Account int         `json:"account"`
	Data    interface{} `json:"data"`
}

// StatusResponse is the generic API response body
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Message string `json:"message"`
}
