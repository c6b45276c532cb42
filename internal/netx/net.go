// Package netx holds the HTTP plumbing of the REST client: JSON request
// construction, bounded body reads and a transport that signs requests.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/dmitrijs2005/adminpanel/internal/common"
)

// MaxBodySize bounds how much of a response body is read into memory.
const MaxBodySize = 4 << 20

// NewJSONRequest builds a request with body encoded as JSON. A nil body sends
// no payload.
func NewJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// ReadBody reads and closes resp.Body, failing when it exceeds MaxBodySize.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if len(b) > MaxBodySize {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxBodySize)
	}
	return b, nil
}

// BearerTransport adds "Authorization: Bearer <token>" to every request when
// Token returns a non-empty value, and propagates the trace context of the
// request's ctx.
type BearerTransport struct {
	Base  http.RoundTripper
	Token func() string
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// RoundTrippers must not modify the caller's request
	r := req.Clone(req.Context())
	if t.Token != nil {
		if tok := t.Token(); tok != "" {
			r.Header.Set(common.AuthorizationHeader, "Bearer "+tok)
		}
	}
	otel.GetTextMapPropagator().Inject(r.Context(), propagation.HeaderCarrier(r.Header))

	return base.RoundTrip(r)
}
