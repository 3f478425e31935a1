package collector

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const requestTimeout = 30 * time.Second

// Transport executes a single HTTP call with a bounded retry budget.
// Every network call of the pipeline goes through it.
type Transport struct {
	client     *http.Client
	maxRetries uint
}

// NewTransport builds a Transport. TLS certificate validation is applied
// uniformly to every call according to sslVerify.
func NewTransport(maxRetries int, sslVerify bool) *Transport {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Transport{
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: !sslVerify},
			},
		},
		maxRetries: uint(maxRetries),
	}
}

// Do performs the request, retrying on connection failure or an HTTP error
// status, without inter-attempt delay. The first successful response is
// returned; exhausting the budget fails with ErrRetryExhausted.
func (t *Transport) Do(method, url string, headers map[string]string, body []byte) (*http.Response, error) {
	var resp *http.Response

	attempt := 0
	err := retry.Do(
		func() error {
			attempt++

			req, err := http.NewRequest(method, url, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			for k, v := range headers {
				req.Header.Set(k, v)
			}

			r, err := t.client.Do(req)
			if err != nil {
				log.WithFields(log.Fields{
					"method": method, "url": url, "attempt": attempt,
				}).Warnf("Request failed, retrying: %v", err)
				return err
			}
			if r.StatusCode >= http.StatusBadRequest {
				io.Copy(io.Discard, r.Body)
				r.Body.Close()
				log.WithFields(log.Fields{
					"method": method, "url": url, "attempt": attempt,
				}).Warnf("Request failed, retrying: status %d", r.StatusCode)
				return fmt.Errorf("unexpected status %d", r.StatusCode)
			}

			resp = r
			return nil
		},
		retry.Attempts(t.maxRetries),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, errors.WithMessage(ErrRetryExhausted, err.Error())
	}

	return resp, nil
}

// GetJSON fetches url and decodes the response body into out
func (t *Transport) GetJSON(url string, headers map[string]string, out interface{}) error {
	resp, err := t.Do(http.MethodGet, url, headers, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "unable to decode response from %s", url)
	}
	return nil
}

// PostJSON marshals payload and posts it to url
func (t *Transport) PostJSON(url string, headers map[string]string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "unable to encode payload")
	}

	merged := map[string]string{"Content-Type": "application/json"}
	for k, v := range headers {
		merged[k] = v
	}

	resp, err := t.Do(http.MethodPost, url, merged, body)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}
