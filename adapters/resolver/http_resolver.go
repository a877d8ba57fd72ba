// Package resolver implements name resolution against an external naming
// registry over HTTP, with multi-endpoint fallback and a TTL cache.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

// HTTPResolver resolves names through an ordered list of registry gateway
// endpoints. The first endpoint is primary; the rest are tried in order on
// failure or timeout. Results are cached with a TTL, and concurrent lookups
// for the same key are coalesced into a single upstream request.
type HTTPResolver struct {
	endpoints []string
	client    *http.Client
	cache     *lookupCache
}

type forwardResponse struct {
	Address string `json:"address"`
}

type reverseResponse struct {
	Name string `json:"name"`
}

// NewHTTPResolver creates a resolver over the given endpoints
func NewHTTPResolver(endpoints []string, timeout, cacheTTL time.Duration) ports.NameResolver {
	return &HTTPResolver{
		endpoints: endpoints,
		client:    &http.Client{Timeout: timeout},
		cache:     newLookupCache(cacheTTL),
	}
}

// ResolveForward maps a name to its registered address
func (r *HTTPResolver) ResolveForward(ctx context.Context, name string) (common.Address, error) {
	key := "fwd:" + strings.ToLower(name)
	value, err := r.cache.do(key, func() (string, error) {
		var out forwardResponse
		if err := r.query(ctx, "name/"+url.PathEscape(name), &out); err != nil {
			return "", err
		}
		if !common.IsHexAddress(out.Address) {
			return "", fmt.Errorf("registry returned malformed address %q: %w", out.Address, core.ErrNameResolution)
		}
		return out.Address, nil
	})
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(value), nil
}

// ResolveReverse maps an address to its primary name. The result is not
// authoritative until forward-verified.
func (r *HTTPResolver) ResolveReverse(ctx context.Context, address common.Address) (string, error) {
	key := "rev:" + strings.ToLower(address.Hex())
	return r.cache.do(key, func() (string, error) {
		var out reverseResponse
		if err := r.query(ctx, "address/"+strings.ToLower(address.Hex()), &out); err != nil {
			return "", err
		}
		if out.Name == "" {
			return "", core.ErrNameNotFound
		}
		return out.Name, nil
	})
}

// VerifiedReverse resolves the primary name of an address and requires that
// the name forward-resolves to the same address. An unverified reverse
// record is never surfaced.
func (r *HTTPResolver) VerifiedReverse(ctx context.Context, address common.Address) (string, error) {
	name, err := r.ResolveReverse(ctx, address)
	if err != nil {
		return "", err
	}

	forward, err := r.ResolveForward(ctx, name)
	if err != nil {
		return "", fmt.Errorf("forward check of reverse record: %w", err)
	}
	if forward != address {
		return "", core.ErrNameMismatch
	}

	return name, nil
}

// query tries each endpoint in order until one yields a definitive answer.
// A 404 is definitive; transport errors and 5xx responses trigger fallback.
func (r *HTTPResolver) query(ctx context.Context, path string, out any) error {
	var lastErr error

	for _, endpoint := range r.endpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			strings.TrimSuffix(endpoint, "/")+"/"+path, nil)
		if err != nil {
			return fmt.Errorf("failed to build resolver request: %w", err)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return core.ErrNameNotFound
		case resp.StatusCode != http.StatusOK:
			resp.Body.Close()
			lastErr = fmt.Errorf("resolver endpoint %s returned %d", endpoint, resp.StatusCode)
			continue
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to decode resolver response: %w", err)
			continue
		}
		return nil
	}

	return fmt.Errorf("%w: %v", core.ErrNameResolution, lastErr)
}
