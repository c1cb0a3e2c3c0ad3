package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cepetdeal/marketplace/pkg/logger"
)

// Pinger is a dependency that can report its own reachability
type Pinger func(ctx context.Context) error

// ComponentHealth is the health of one dependency
type ComponentHealth struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"` // healthy, unhealthy
	LatencyMS int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is the overall service health
type Report struct {
	Service    string                     `json:"service"`
	Status     string                     `json:"status"` // healthy, degraded, unhealthy
	Components map[string]ComponentHealth `json:"components"`
	UptimeSec  float64                    `json:"uptime_seconds"`
}

// Checker pings the registered dependencies
type Checker struct {
	service   string
	timeout   time.Duration
	startTime time.Time

	mu         sync.RWMutex
	components map[string]Pinger
}

// NewChecker creates a health checker for the named service
func NewChecker(service string, timeout time.Duration) *Checker {
	return &Checker{
		service:    service,
		timeout:    timeout,
		startTime:  time.Now(),
		components: make(map[string]Pinger),
	}
}

// Register adds a dependency to check
func (h *Checker) Register(name string, ping Pinger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[name] = ping
}

func (h *Checker) checkComponent(ctx context.Context, name string, ping Pinger) ComponentHealth {
	start := time.Now()
	result := ComponentHealth{Name: name, Status: "healthy", Timestamp: start}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		result.Status = "unhealthy"
		result.Error = err.Error()
	}
	result.LatencyMS = time.Since(start).Milliseconds()
	return result
}

// Check pings every dependency concurrently
func (h *Checker) Check(ctx context.Context) Report {
	h.mu.RLock()
	defer h.mu.RUnlock()

	components := make(map[string]ComponentHealth, len(h.components))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, ping := range h.components {
		wg.Add(1)
		go func(n string, p Pinger) {
			defer wg.Done()
			res := h.checkComponent(ctx, n, p)

			mu.Lock()
			components[n] = res
			mu.Unlock()

			if res.Status != "healthy" {
				logger.Logger.Warn().
					Str("component", n).
					Str("error", res.Error).
					Msg("Health check failed")
			}
		}(name, ping)
	}
	wg.Wait()

	return Report{
		Service:    h.service,
		Status:     overallStatus(components),
		Components: components,
		UptimeSec:  time.Since(h.startTime).Seconds(),
	}
}

func overallStatus(components map[string]ComponentHealth) string {
	healthy := 0
	for _, c := range components {
		if c.Status == "healthy" {
			healthy++
		}
	}

	switch {
	case healthy == len(components):
		return "healthy"
	case healthy > 0:
		return "degraded"
	default:
		return "unhealthy"
	}
}

// Handler serves the health report; anything but healthy answers 503
func (h *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Check(r.Context())

		status := http.StatusOK
		if report.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(report)
	}
}
