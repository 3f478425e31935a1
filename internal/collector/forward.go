package collector

import (
	"aiops-data-collector/internal/metrics"
)

// ForwardingSink performs the final retryable POST to the next service.
// Delivery is at-most-once: a payload whose post exhausts the retry budget
// is dropped.
type ForwardingSink struct {
	transport *Transport
}

// NewForwardingSink builds a ForwardingSink on top of a Transport
func NewForwardingSink(transport *Transport) *ForwardingSink {
	return &ForwardingSink{transport: transport}
}

// Forward posts the envelope to dest, attaching the x-rh-identity header
// when an identity blob is available
func (s *ForwardingSink) Forward(dest string, envelope interface{}, b64Identity string) error {
	headers := map[string]string{}
	if b64Identity != "" {
		headers["x-rh-identity"] = b64Identity
	}

	metrics.Posts.Inc()
	if err := s.transport.PostJSON(dest, headers, envelope); err != nil {
		metrics.PostErrors.Inc()
		return err
	}

	metrics.PostSuccesses.Inc()
	return nil
}
