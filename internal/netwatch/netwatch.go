// Package netwatch probes network reachability and reports online/offline
// transitions.
package netwatch

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"
)

// DefaultProbeTimeout bounds a single probe request.
const DefaultProbeTimeout = 2 * time.Second

// Status captures the outcome of a connectivity probe.
type Status struct {
	Target    string        `json:"target"`
	OK        bool          `json:"ok"`
	Latency   time.Duration `json:"latency"`
	Error     string        `json:"error,omitempty"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Prober reports whether the network is reachable.
type Prober interface {
	Online(ctx context.Context) bool
}

// HTTPProber treats any HTTP response from URL as proof of connectivity.
type HTTPProber struct {
	URL    string
	client *http.Client
}

// NewHTTPProber creates a prober with a short per-request timeout.
func NewHTTPProber(url string, timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProber{
		URL:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Check issues a HEAD request and reports the result.
func (p *HTTPProber) Check(ctx context.Context) Status {
	st := Status{Target: p.URL, CheckedAt: time.Now()}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		st.Error = err.Error()
		return st
	}

	resp, err := p.client.Do(req)
	st.Latency = time.Since(st.CheckedAt)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	resp.Body.Close()

	st.OK = true
	return st
}

// Online implements Prober.
func (p *HTTPProber) Online(ctx context.Context) bool {
	return p.Check(ctx).OK
}

// Monitor polls a Prober and reports transitions between online and offline.
// The network is assumed online until a probe says otherwise, so nothing is
// reported while it stays reachable.
type Monitor struct {
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	onChange func(online bool)

	mu     sync.Mutex
	online bool
}

// NewMonitor creates a Monitor. onChange is called from the Run goroutine.
func NewMonitor(prober Prober, interval time.Duration, onChange func(online bool)) *Monitor {
	return &Monitor{
		prober:   prober,
		interval: interval,
		timeout:  DefaultProbeTimeout,
		onChange: onChange,
		online:   true,
	}
}

// Run polls once immediately, then every interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *Monitor) poll(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	online := m.prober.Online(probeCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	m.mu.Unlock()

	if !changed {
		return
	}
	if online {
		log.Printf("netwatch: connection restored")
	} else {
		log.Printf("netwatch: connection lost")
	}
	if m.onChange != nil {
		m.onChange(online)
	}
}
