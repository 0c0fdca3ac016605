package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	before := testutil.ToFloat64(RequestTransitions.WithLabelValues("approved"))
	Transition("approved")
	Transition("approved")
	assert.Equal(t, before+2, testutil.ToFloat64(RequestTransitions.WithLabelValues("approved")))
}

func TestHoldingWrite_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(HoldingWrites.WithLabelValues("revalue"))
	HoldingWrite("revalue", 0)
	HoldingWrite("revalue", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(HoldingWrites.WithLabelValues("revalue")))
}

func TestRegistryGathers(t *testing.T) {
	Transition("created")
	mfs, err := Registry.Gather()
	assert.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["investportal_request_transitions_total"])
	assert.True(t, names["go_goroutines"])
}
