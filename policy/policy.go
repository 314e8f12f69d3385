// Package policy evaluates whether a role may exercise a capability, based
// on a fixed risk catalogue and each role's maximum allowed risk level.
package policy

import (
	"fmt"

	"github.com/edgeclaw/core/internal/metrics"
)

// RiskLevel ranks how dangerous a capability is to exercise.
type RiskLevel int

const (
	RiskNone RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskNone:
		return "none"
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Role ranks a principal's trust level.
type Role int

const (
	Viewer Role = iota
	Operator
	Admin
	Owner
)

func (r Role) String() string {
	switch r {
	case Viewer:
		return "viewer"
	case Operator:
		return "operator"
	case Admin:
		return "admin"
	case Owner:
		return "owner"
	default:
		return "unknown"
	}
}

// MaxAllowedRisk returns the highest RiskLevel a role may exercise.
func (r Role) MaxAllowedRisk() RiskLevel {
	switch r {
	case Viewer:
		return RiskNone
	case Operator:
		return RiskLow
	case Admin:
		return RiskMedium
	case Owner:
		return RiskHigh
	default:
		return RiskNone
	}
}

// capability describes one entry in the static capability catalogue.
type capability struct {
	name        string
	risk        RiskLevel
	description string
}

// catalogue is the closed, compile-time set of capabilities EdgeClaw Core
// knows about. Anything not in this table is denied by default.
var catalogue = []capability{
	{"status_query", RiskNone, "read device status summary"},
	{"heartbeat", RiskNone, "send or receive a liveness heartbeat"},
	{"file_read", RiskLow, "read a file from the device"},
	{"sensor_read", RiskLow, "read a sensor value"},
	{"clipboard_read", RiskLow, "read the device clipboard"},
	{"file_write", RiskMedium, "write or modify a file on the device"},
	{"config_change", RiskMedium, "change device configuration"},
	{"clipboard_write", RiskMedium, "write to the device clipboard"},
	{"shell_exec", RiskHigh, "execute an arbitrary shell command"},
	{"firmware_update", RiskHigh, "flash new device firmware"},
	{"system_reboot", RiskHigh, "reboot the device"},
}

var catalogueByName = func() map[string]capability {
	m := make(map[string]capability, len(catalogue))
	for _, c := range catalogue {
		m[c.name] = c
	}
	return m
}()

// Decision is the result of evaluating a capability against a role.
type Decision struct {
	Allowed   bool
	Reason    string
	RiskLevel RiskLevel
}

// Engine evaluates capability requests against the fixed catalogue. It
// holds no mutable state, so a single Engine can be shared freely.
type Engine struct{}

// NewEngine constructs a policy Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate decides whether role may exercise capabilityName. Unknown
// capabilities are denied by default, at the highest risk level.
func (e *Engine) Evaluate(capabilityName string, role Role) Decision {
	cap, ok := catalogueByName[capabilityName]
	if !ok {
		metrics.RecordPolicyDecision(false)
		return Decision{
			Allowed:   false,
			Reason:    fmt.Sprintf("Unknown capability '%s' — default deny", capabilityName),
			RiskLevel: RiskHigh,
		}
	}

	if cap.risk > role.MaxAllowedRisk() {
		metrics.RecordPolicyDecision(false)
		return Decision{
			Allowed: false,
			Reason: fmt.Sprintf("role '%s' may not exercise '%s' at risk level '%s'",
				role, capabilityName, cap.risk),
			RiskLevel: cap.risk,
		}
	}

	metrics.RecordPolicyDecision(true)
	return Decision{
		Allowed:   true,
		Reason:    fmt.Sprintf("role '%s' permitted to exercise '%s'", role, capabilityName),
		RiskLevel: cap.risk,
	}
}

// ListCapabilities returns the full catalogue formatted as
// "name (risk:level): description", for introspection and debugging.
func (e *Engine) ListCapabilities() []string {
	out := make([]string, 0, len(catalogue))
	for _, c := range catalogue {
		out = append(out, fmt.Sprintf("%s (risk:%s): %s", c.name, c.risk, c.description))
	}
	return out
}
