// Package health aggregates wrapper and transport health for the management
// endpoint.
package health

import (
	"regexp"
	"time"

	"github.com/c360/jointstream/component"
)

// Error messages can embed broker URLs or credentials; strip them before
// they reach the health endpoint.
var (
	urlRegex        = regexp.MustCompile(`(?:https?|nats|tls)://[^\s]+`)
	ipAddrRegex     = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}(?::\d{2,5})?\b`)
	credentialRegex = regexp.MustCompile(`(?i)(password|token|secret|credential)[^a-zA-Z]*[:=][^,\s}]+`)
)

// Status represents the health state of one wrapper or of the whole process
type Status struct {
	Component   string    `json:"component"`
	Healthy     bool      `json:"healthy"`
	State       string    `json:"state"` // "healthy", "degraded", "unhealthy"
	Message     string    `json:"message,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	SubStatuses []Status  `json:"sub_statuses,omitempty"`
	Metrics     *Metrics  `json:"metrics,omitempty"`
}

// Metrics carries the health-relevant counters of a wrapper
type Metrics struct {
	Uptime       time.Duration `json:"uptime"`
	ErrorCount   int           `json:"error_count"`
	LastActivity time.Time     `json:"last_activity,omitempty"`
}

// Healthy creates a healthy status
func Healthy(name, message string) Status {
	return Status{Component: name, Healthy: true, State: "healthy", Message: message, Timestamp: time.Now()}
}

// Degraded creates a degraded status
func Degraded(name, message string) Status {
	return Status{Component: name, State: "degraded", Message: sanitize(message), Timestamp: time.Now()}
}

// Unhealthy creates an unhealthy status
func Unhealthy(name, message string) Status {
	return Status{Component: name, State: "unhealthy", Message: sanitize(message), Timestamp: time.Now()}
}

// FromComponent converts a component.HealthStatus into a Status
func FromComponent(name string, ch component.HealthStatus) Status {
	s := Status{
		Component: name,
		Healthy:   ch.Healthy,
		State:     "unhealthy",
		Timestamp: time.Now(),
		Metrics: &Metrics{
			Uptime:       ch.Uptime,
			ErrorCount:   ch.ErrorCount,
			LastActivity: ch.LastCheck,
		},
	}
	if ch.Healthy {
		s.State = "healthy"
	}
	if ch.LastError != "" {
		s.Message = sanitize(ch.LastError)
	}
	return s
}

// Aggregate combines sub-statuses into a system status: unhealthy wins,
// degraded next, healthy only when everything is healthy.
func Aggregate(systemName string, subs []Status) Status {
	agg := Status{
		Component:   systemName,
		Healthy:     true,
		State:       "healthy",
		Timestamp:   time.Now(),
		SubStatuses: subs,
	}
	for _, sub := range subs {
		switch sub.State {
		case "unhealthy":
			agg.Healthy = false
			agg.State = "unhealthy"
			return agg
		case "degraded":
			agg.Healthy = false
			agg.State = "degraded"
		}
	}
	return agg
}

func sanitize(msg string) string {
	if msg == "" {
		return ""
	}
	msg = urlRegex.ReplaceAllString(msg, "[URL]")
	msg = ipAddrRegex.ReplaceAllString(msg, "[ADDR]")
	msg = credentialRegex.ReplaceAllString(msg, "[REDACTED]")
	return msg
}
