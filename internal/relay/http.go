// Package relay implements the RelayClient contract against an HTTP pub/sub
// endpoint, and a polling Subscribe built on repeated Query calls.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
)

// HTTPClient is a RelayClient backed by a JSON-over-HTTP relay.
type HTTPClient struct {
	Base       string
	HTTPClient *http.Client
	// PollInterval governs how often Subscribe re-polls for new envelopes
	// when the relay offers no native push transport.
	PollInterval time.Duration
}

// NewHTTPClient returns an HTTPClient pointed at base, the relay's root URL.
func NewHTTPClient(base string) *HTTPClient {
	return &HTTPClient{
		Base:         base,
		HTTPClient:   http.DefaultClient,
		PollInterval: time.Second,
	}
}

func (c *HTTPClient) Query(ctx context.Context, req domaintypes.QueryRequest) (domaintypes.QueryResponse, error) {
	var out domaintypes.QueryResponse
	if err := c.postJSON(ctx, "/query", req, &out); err != nil {
		return domaintypes.QueryResponse{}, err
	}
	return out, nil
}

func (c *HTTPClient) BatchQuery(ctx context.Context, reqs []domaintypes.QueryRequest) ([]domaintypes.QueryResponse, error) {
	var out []domaintypes.QueryResponse
	if err := c.postJSON(ctx, "/batch-query", struct {
		Requests []domaintypes.QueryRequest `json:"requests"`
	}{Requests: reqs}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Publish(ctx context.Context, envelopes []domaintypes.Envelope) error {
	return c.postJSON(ctx, "/publish", struct {
		Envelopes []domaintypes.Envelope `json:"envelopes"`
	}{Envelopes: envelopes}, nil)
}

// Subscribe polls Query on a timer since this is an HTTP relay with no
// native server push; each tick asks for envelopes newer than the latest
// timestamp seen so far across all of topics (one shared cursor). The
// envelope channel closes when ctx is cancelled; the error channel is never
// closed.
func (c *HTTPClient) Subscribe(ctx context.Context, topics []string) (<-chan domaintypes.Envelope, <-chan error) {
	envelopes := make(chan domaintypes.Envelope)
	errs := make(chan error, 1)

	go func() {
		defer close(envelopes)
		var lastSeenNS uint64
		ticker := time.NewTicker(c.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				resp, err := c.Query(ctx, domaintypes.QueryRequest{
					ContentTopics: topics,
					StartTimeNS:   lastSeenNS,
				})
				if err != nil {
					select {
					case errs <- err:
					default:
					}
					continue
				}
				for _, env := range resp.Envelopes {
					if env.TimestampNS <= lastSeenNS {
						continue
					}
					select {
					case envelopes <- env:
					case <-ctx.Done():
						return
					}
				}
				for _, env := range resp.Envelopes {
					if env.TimestampNS > lastSeenNS {
						lastSeenNS = env.TimestampNS
					}
				}
			}
		}
	}()

	return envelopes, errs
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("relay: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("relay: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return domaintypes.NewError(domaintypes.KindTransport, fmt.Sprintf("relay request to %s failed", path), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return domaintypes.NewError(domaintypes.KindTransport, fmt.Sprintf("relay %s returned %s", path, resp.Status), nil)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("relay: decode response from %s: %w", path, err)
	}
	return nil
}

var _ interfaces.RelayClient = (*HTTPClient)(nil)
