// Package protocol defines the typed JSON payloads carried inside ECNP
// frames: the edge capability manifest (ECM), edge action profile (EAP),
// and heartbeat messages.
package protocol

import (
	"encoding/json"
	"runtime"

	"github.com/edgeclaw/core/errs"
	"github.com/edgeclaw/core/pkg/version"
)

// EcmPayload is the capability manifest a device publishes to announce itself.
type EcmPayload struct {
	DeviceID     string   `json:"device_id"`
	DeviceType   string   `json:"device_type"`
	Capabilities []string `json:"capabilities"`
	OS           string   `json:"os"`
	Version      string   `json:"version"`
}

// EapAction is a single action within an edge action profile.
type EapAction struct {
	ActionType string          `json:"action_type"`
	Target     string          `json:"target"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// EapPayload is an action profile dispatched to a device.
type EapPayload struct {
	ProfileID string      `json:"profile_id"`
	Name      string      `json:"name"`
	Actions   []EapAction `json:"actions"`
}

// HeartbeatPayload reports a device's liveness and load.
type HeartbeatPayload struct {
	DeviceID       string  `json:"device_id"`
	UptimeSecs     uint64  `json:"uptime_secs"`
	CPUUsage       float64 `json:"cpu_usage"`
	MemoryUsage    float64 `json:"memory_usage"`
	ActiveSessions int     `json:"active_sessions"`
}

// CreateEcm builds an EcmPayload and serializes it to JSON.
func CreateEcm(deviceID, deviceType string, capabilities []string) ([]byte, error) {
	payload := EcmPayload{
		DeviceID:     deviceID,
		DeviceType:   deviceType,
		Capabilities: capabilities,
		OS:           runtime.GOOS,
		Version:      version.Version,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.Wrap(errs.SerializationError, "failed to marshal ECM payload", err)
	}
	return data, nil
}

// ParseEcm decodes a JSON-encoded EcmPayload.
func ParseEcm(data []byte) (*EcmPayload, error) {
	var payload EcmPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errs.Wrap(errs.SerializationError, "failed to parse ECM payload", err)
	}
	return &payload, nil
}

// CreateEap builds an EapPayload and serializes it to JSON.
func CreateEap(profileID, name string, actions []EapAction) ([]byte, error) {
	payload := EapPayload{ProfileID: profileID, Name: name, Actions: actions}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.Wrap(errs.SerializationError, "failed to marshal EAP payload", err)
	}
	return data, nil
}

// ParseEap decodes a JSON-encoded EapPayload.
func ParseEap(data []byte) (*EapPayload, error) {
	var payload EapPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errs.Wrap(errs.SerializationError, "failed to parse EAP payload", err)
	}
	return &payload, nil
}

// CreateHeartbeat builds a HeartbeatPayload and serializes it to JSON.
func CreateHeartbeat(deviceID string, uptimeSecs uint64, cpuUsage, memoryUsage float64, activeSessions int) ([]byte, error) {
	payload := HeartbeatPayload{
		DeviceID:       deviceID,
		UptimeSecs:     uptimeSecs,
		CPUUsage:       cpuUsage,
		MemoryUsage:    memoryUsage,
		ActiveSessions: activeSessions,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.Wrap(errs.SerializationError, "failed to marshal heartbeat payload", err)
	}
	return data, nil
}

// ParseHeartbeat decodes a JSON-encoded HeartbeatPayload.
func ParseHeartbeat(data []byte) (*HeartbeatPayload, error) {
	var payload HeartbeatPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errs.Wrap(errs.SerializationError, "failed to parse heartbeat payload", err)
	}
	return &payload, nil
}
