package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateAllowsWithinRole(t *testing.T) {
	eng := NewEngine()

	t.Run("ViewerStatusQuery", func(t *testing.T) {
		d := eng.Evaluate("status_query", Viewer)
		assert.True(t, d.Allowed)
		assert.Equal(t, RiskNone, d.RiskLevel)
	})

	t.Run("OperatorFileRead", func(t *testing.T) {
		d := eng.Evaluate("file_read", Operator)
		assert.True(t, d.Allowed)
	})

	t.Run("AdminConfigChange", func(t *testing.T) {
		d := eng.Evaluate("config_change", Admin)
		assert.True(t, d.Allowed)
	})

	t.Run("OwnerShellExec", func(t *testing.T) {
		d := eng.Evaluate("shell_exec", Owner)
		assert.True(t, d.Allowed)
		assert.Equal(t, RiskHigh, d.RiskLevel)
	})
}

func TestEvaluateDeniesAboveRole(t *testing.T) {
	eng := NewEngine()

	t.Run("ViewerFileRead", func(t *testing.T) {
		d := eng.Evaluate("file_read", Viewer)
		assert.False(t, d.Allowed)
	})

	t.Run("OperatorShellExec", func(t *testing.T) {
		d := eng.Evaluate("shell_exec", Operator)
		assert.False(t, d.Allowed)
	})

	t.Run("AdminFirmwareUpdate", func(t *testing.T) {
		d := eng.Evaluate("firmware_update", Admin)
		assert.False(t, d.Allowed)
	})
}

func TestEvaluateUnknownCapabilityDefaultDenies(t *testing.T) {
	eng := NewEngine()
	d := eng.Evaluate("self_destruct", Owner)
	assert.False(t, d.Allowed)
	assert.Equal(t, RiskHigh, d.RiskLevel)
	assert.Contains(t, d.Reason, "default deny")
}

func TestListCapabilitiesCoversCatalogue(t *testing.T) {
	eng := NewEngine()
	list := eng.ListCapabilities()
	assert.Len(t, list, 11)
	assert.Contains(t, list[0], "risk:")
}

func TestMaxAllowedRisk(t *testing.T) {
	assert.Equal(t, RiskNone, Viewer.MaxAllowedRisk())
	assert.Equal(t, RiskLow, Operator.MaxAllowedRisk())
	assert.Equal(t, RiskMedium, Admin.MaxAllowedRisk())
	assert.Equal(t, RiskHigh, Owner.MaxAllowedRisk())
}
