package resolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/rangda/core"
)

var (
	aliceAddr = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	bobAddr   = common.HexToAddress("0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359")
)

// registryServer serves a fixed name table in the gateway's JSON shape
func registryServer(t *testing.T, hits *atomic.Int32, names map[string]common.Address) *httptest.Server {
	t.Helper()

	reverse := make(map[string]string)
	for name, addr := range names {
		reverse[strings.ToLower(addr.Hex())] = name
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/name/"):
			name := strings.TrimPrefix(r.URL.Path, "/name/")
			addr, ok := names[name]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"address": addr.Hex()})
		case strings.HasPrefix(r.URL.Path, "/address/"):
			addr := strings.TrimPrefix(r.URL.Path, "/address/")
			name, ok := reverse[addr]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"name": name})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func TestResolveForward(t *testing.T) {
	srv := registryServer(t, nil, map[string]common.Address{"alice.eth": aliceAddr})
	defer srv.Close()

	r := NewHTTPResolver([]string{srv.URL}, time.Second, time.Minute)

	addr, err := r.ResolveForward(context.Background(), "alice.eth")
	require.NoError(t, err)
	assert.Equal(t, aliceAddr, addr)

	_, err = r.ResolveForward(context.Background(), "nobody.eth")
	assert.ErrorIs(t, err, core.ErrNameNotFound)
}

func TestResolveForwardCaches(t *testing.T) {
	var hits atomic.Int32
	srv := registryServer(t, &hits, map[string]common.Address{"alice.eth": aliceAddr})
	defer srv.Close()

	r := NewHTTPResolver([]string{srv.URL}, time.Second, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := r.ResolveForward(ctx, "alice.eth")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), hits.Load(), "repeat lookups must be served from cache")
}

func TestResolveForwardCoalescesConcurrentLookups(t *testing.T) {
	var hits atomic.Int32
	srv := registryServer(t, &hits, map[string]common.Address{"alice.eth": aliceAddr})
	defer srv.Close()

	r := NewHTTPResolver([]string{srv.URL}, time.Second, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addr, err := r.ResolveForward(ctx, "alice.eth")
			assert.NoError(t, err)
			assert.Equal(t, aliceAddr, addr)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, hits.Load(), int32(2), "concurrent lookups must coalesce")
}

func TestEndpointFallback(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	srv := registryServer(t, nil, map[string]common.Address{"alice.eth": aliceAddr})
	defer srv.Close()

	r := NewHTTPResolver([]string{broken.URL, srv.URL}, time.Second, time.Minute)

	addr, err := r.ResolveForward(context.Background(), "alice.eth")
	require.NoError(t, err)
	assert.Equal(t, aliceAddr, addr)
}

func TestAllEndpointsDown(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	broken.Close() // refuse connections entirely

	r := NewHTTPResolver([]string{broken.URL}, time.Second, time.Minute)

	_, err := r.ResolveForward(context.Background(), "alice.eth")
	assert.ErrorIs(t, err, core.ErrNameResolution)
}

func TestVerifiedReverse(t *testing.T) {
	srv := registryServer(t, nil, map[string]common.Address{"alice.eth": aliceAddr})
	defer srv.Close()

	r := NewHTTPResolver([]string{srv.URL}, time.Second, time.Minute)

	name, err := r.VerifiedReverse(context.Background(), aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, "alice.eth", name)
}

func TestVerifiedReverseRejectsSpoofedRecord(t *testing.T) {
	// Reverse record claims bob's address maps to alice.eth, but alice.eth
	// forward-resolves to alice's address
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/address/"):
			json.NewEncoder(w).Encode(map[string]string{"name": "alice.eth"})
		case strings.HasPrefix(r.URL.Path, "/name/"):
			json.NewEncoder(w).Encode(map[string]string{"address": aliceAddr.Hex()})
		}
	}))
	defer srv.Close()

	r := NewHTTPResolver([]string{srv.URL}, time.Second, time.Minute)

	_, err := r.VerifiedReverse(context.Background(), bobAddr)
	assert.ErrorIs(t, err, core.ErrNameMismatch)
}
