package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application counters
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsFailed     uint64
	SessionsOpened     uint64
	SessionsEnded      uint64
	CapturesTotal      uint64
	CapturesFailed     uint64
	CommitsTotal       uint64
	DictationsStarted  uint64
	StartTime          time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

func IncrementRequests()   { atomic.AddUint64(&globalMetrics.RequestsTotal, 1) }
func IncrementInProgress() { atomic.AddUint64(&globalMetrics.RequestsInProgress, 1) }
func DecrementInProgress() { atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0)) }
func IncrementFailed()     { atomic.AddUint64(&globalMetrics.RequestsFailed, 1) }

func IncrementSessionsOpened()    { atomic.AddUint64(&globalMetrics.SessionsOpened, 1) }
func IncrementSessionsEnded()     { atomic.AddUint64(&globalMetrics.SessionsEnded, 1) }
func IncrementCaptures()          { atomic.AddUint64(&globalMetrics.CapturesTotal, 1) }
func IncrementCapturesFailed()    { atomic.AddUint64(&globalMetrics.CapturesFailed, 1) }
func IncrementCommits()           { atomic.AddUint64(&globalMetrics.CommitsTotal, 1) }
func IncrementDictationsStarted() { atomic.AddUint64(&globalMetrics.DictationsStarted, 1) }

// GetMetrics returns current counters plus runtime stats
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"sessions_opened":      atomic.LoadUint64(&globalMetrics.SessionsOpened),
		"sessions_ended":       atomic.LoadUint64(&globalMetrics.SessionsEnded),
		"captures_total":       atomic.LoadUint64(&globalMetrics.CapturesTotal),
		"captures_failed":      atomic.LoadUint64(&globalMetrics.CapturesFailed),
		"commits_total":        atomic.LoadUint64(&globalMetrics.CommitsTotal),
		"dictations_started":   atomic.LoadUint64(&globalMetrics.DictationsStarted),
		"uptime_seconds":       time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes": m.Alloc,
			"sys_bytes":   m.Sys,
			"num_gc":      m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request counters
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		IncrementRequests()
		IncrementInProgress()
		defer DecrementInProgress()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 500 {
			IncrementFailed()
		}
	})
}

// MetricsHandler serves the counters as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
