package netwatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProber_Online(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewHTTPProber(srv.URL, time.Second)
	st := p.Check(context.Background())

	assert.True(t, st.OK, "any HTTP response counts as online")
	assert.Equal(t, srv.URL, st.Target)
	assert.Empty(t, st.Error)
	assert.True(t, p.Online(context.Background()))
}

func TestHTTPProber_Offline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := NewHTTPProber(url, 500*time.Millisecond)
	st := p.Check(context.Background())

	assert.False(t, st.OK)
	assert.NotEmpty(t, st.Error)
}

func TestHTTPProber_BadURL(t *testing.T) {
	p := NewHTTPProber("://bad", 0)
	assert.False(t, p.Online(context.Background()))
}

// sequenceProber returns results in order, repeating the last one.
type sequenceProber struct {
	mu      sync.Mutex
	results []bool
}

func (s *sequenceProber) Online(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return r
}

func TestMonitor_ReportsTransitionsOnly(t *testing.T) {
	prober := &sequenceProber{results: []bool{true, false, false, true}}

	var mu sync.Mutex
	var changes []bool
	m := NewMonitor(prober, time.Hour, func(online bool) {
		mu.Lock()
		changes = append(changes, online)
		mu.Unlock()
	})

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		m.poll(ctx)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{false, true}, changes)
}

func TestMonitor_RunChecksBeforeFirstInterval(t *testing.T) {
	prober := &sequenceProber{results: []bool{false}}
	changed := make(chan bool, 1)
	m := NewMonitor(prober, time.Hour, func(online bool) {
		select {
		case changed <- online:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	select {
	case online := <-changed:
		assert.False(t, online)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor waited for the interval before the first check")
	}
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	prober := &sequenceProber{results: []bool{false}}
	changed := make(chan bool, 1)
	m := NewMonitor(prober, 10*time.Millisecond, func(online bool) {
		select {
		case changed <- online:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	select {
	case online := <-changed:
		assert.False(t, online)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not report going offline")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "Run did not return after cancel")
	}
}
