package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.IncRegistration()
	c.IncLoginSuccess()
	c.IncLoginFailure()
	c.IncLoginFailure()
	c.IncTokenIssued()
	c.IncTokenRevoked()
	c.IncValidationFailure("revoked")
	c.IncValidationFailure("revoked")
	c.IncValidationFailure("malformed")

	if got := testutil.ToFloat64(c.registrations); got != 1 {
		t.Errorf("registrations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.loginFailure); got != 2 {
		t.Errorf("loginFailure = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.validationFailures.WithLabelValues("revoked")); got != 2 {
		t.Errorf("validationFailures{revoked} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.validationFailures.WithLabelValues("malformed")); got != 1 {
		t.Errorf("validationFailures{malformed} = %v, want 1", got)
	}
}

func TestCollector_RegistersWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	// CounterVecs with no observations are not reported; the five plain
	// counters are.
	if len(families) != 5 {
		t.Errorf("expected 5 metric families, got %d", len(families))
	}
}
