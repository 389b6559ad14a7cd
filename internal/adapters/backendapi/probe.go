package backendapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const probeTimeout = 2500 * time.Millisecond

// Probe answers "is the backend reachable" once per process. The first call
// issues a single GET /health with a hard timeout; concurrent callers join
// that in-flight check instead of probing again. The resolved answer is
// memoized for the lifetime of the process, so a backend that comes up
// mid-session is only seen after a restart. Timeouts and transport errors
// resolve to unavailable, never to an error.
type Probe struct {
	baseURL    string
	enabled    bool
	httpClient *http.Client

	mu       sync.Mutex
	resolved bool
	alive    bool

	group singleflight.Group
}

// NewProbe builds a probe against baseURL. enabled gates whether the health
// check is attempted at all; when false, Available is always false without a
// single request, so a storefront run against the demo catalog never spams
// connection-refused errors.
func NewProbe(baseURL string, enabled bool) *Probe {
	return &Probe{
		baseURL:    baseURL,
		enabled:    enabled,
		httpClient: &http.Client{},
	}
}

func (p *Probe) Available(ctx context.Context) bool {
	p.mu.Lock()
	if p.resolved {
		alive := p.alive
		p.mu.Unlock()
		return alive
	}
	p.mu.Unlock()

	if !p.enabled {
		p.mu.Lock()
		p.resolved = true
		p.alive = false
		p.mu.Unlock()
		return false
	}

	v, _, _ := p.group.Do("health", func() (any, error) {
		alive := p.check(ctx)
		p.mu.Lock()
		p.resolved = true
		p.alive = alive
		p.mu.Unlock()
		return alive, nil
	})
	return v.(bool)
}

// Alive reports the memoized answer without triggering a check. False until
// the first Available call resolves.
func (p *Probe) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolved && p.alive
}

func (p *Probe) check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	res, err := p.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("backend health check failed")
		return false
	}
	defer res.Body.Close()
	return res.StatusCode < 300
}
