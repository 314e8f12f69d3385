// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.


// Package metrics exposes EdgeClaw's runtime counters as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registry every collector in this package registers into,
// and the one Handler serves.
var Registry = prometheus.NewRegistry()

var (
	// SessionsCreated counts sessions derived via the session manager.
	SessionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edgeclaw",
		Subsystem: "session",
		Name:      "created_total",
		Help:      "Total number of encrypted sessions created.",
	})

	// SessionsExpired counts expired sessions removed by a cleanup sweep.
	SessionsExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edgeclaw",
		Subsystem: "session",
		Name:      "expired_total",
		Help:      "Total number of sessions removed after their lifetime elapsed.",
	})

	// ActiveSessions reports how many sessions the session manager holds. It
	// is set when a session is created, removed, or swept, so a session that
	// has expired but not yet been swept is still counted.
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "edgeclaw",
		Subsystem: "session",
		Name:      "active",
		Help:      "Current number of sessions held by the session manager, including expired ones not yet swept.",
	})

	// EcnpFramesEncoded counts ECNP frames produced, labeled by message type.
	EcnpFramesEncoded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeclaw",
		Subsystem: "ecnp",
		Name:      "frames_encoded_total",
		Help:      "Total number of ECNP frames encoded, by message type.",
	}, []string{"type"})

	// EcnpFramesDecoded counts ECNP frames parsed, labeled by message type.
	EcnpFramesDecoded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeclaw",
		Subsystem: "ecnp",
		Name:      "frames_decoded_total",
		Help:      "Total number of ECNP frames decoded, by message type.",
	}, []string{"type"})

	// EcnpDecodeErrors counts frames that failed to decode.
	EcnpDecodeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edgeclaw",
		Subsystem: "ecnp",
		Name:      "decode_errors_total",
		Help:      "Total number of ECNP frames that failed validation during decode.",
	})

	// SyncMessagesSent counts sync-layer messages sent, labeled by type.
	SyncMessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeclaw",
		Subsystem: "sync",
		Name:      "messages_sent_total",
		Help:      "Total number of sync messages sent to the desktop counterpart, by type.",
	}, []string{"type"})

	// SyncMessagesReceived counts sync-layer messages received, labeled by type.
	SyncMessagesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeclaw",
		Subsystem: "sync",
		Name:      "messages_received_total",
		Help:      "Total number of sync messages received from the desktop counterpart, by type.",
	}, []string{"type"})

	// SyncReconnects counts reconnect attempts by the sync client.
	SyncReconnects = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edgeclaw",
		Subsystem: "sync",
		Name:      "reconnects_total",
		Help:      "Total number of times the sync client reconnected to its desktop counterpart.",
	})

	// PolicyDecisions counts capability evaluations, labeled by outcome (allow/deny).
	PolicyDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgeclaw",
		Subsystem: "policy",
		Name:      "decisions_total",
		Help:      "Total number of capability evaluations, by outcome.",
	}, []string{"outcome"})
)

func init() {
	Registry.MustRegister(
		SessionsCreated,
		SessionsExpired,
		ActiveSessions,
		EcnpFramesEncoded,
		EcnpFramesDecoded,
		EcnpDecodeErrors,
		SyncMessagesSent,
		SyncMessagesReceived,
		SyncReconnects,
		PolicyDecisions,
	)
}

// RecordPolicyDecision increments the decisions counter for an allow/deny outcome.
func RecordPolicyDecision(allowed bool) {
	if allowed {
		PolicyDecisions.WithLabelValues("allow").Inc()
	} else {
		PolicyDecisions.WithLabelValues("deny").Inc()
	}
}
