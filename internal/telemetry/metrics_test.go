package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHelpersBeforeInit(t *testing.T) {
	// sin Init los helpers no deben entrar en pánico
	assert.NotPanics(t, func() {
		Inc(nil)
		Add(nil, 3)
		ObserveSince(nil, time.Now())
	})
}

func TestMetrics(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(RoomsCreated)
	Inc(RoomsCreated)
	assert.Equal(t, before+1, testutil.ToFloat64(RoomsCreated))

	before = testutil.ToFloat64(RoomsReclaimed)
	Add(RoomsReclaimed, 2)
	Add(RoomsReclaimed, 0)
	assert.Equal(t, before+2, testutil.ToFloat64(RoomsReclaimed))

	Touch("text")
	Touch("text")
	assert.GreaterOrEqual(t, testutil.ToFloat64(ActivityTouches.WithLabelValues("text")), 2.0)

	SetActiveRooms(5)
	assert.Equal(t, 5.0, testutil.ToFloat64(ActiveRooms))

	d := ObserveSince(SweepDuration, time.Now().Add(-time.Second))
	assert.GreaterOrEqual(t, d, time.Second)
}
