package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDriveConfig() DriveConfig {
	return DriveConfig{SlowIntervalUs: 1000, FastIntervalUs: 200, RampStepUs: 100}
}

func TestDriveRampWalksToFloor(t *testing.T) {
	r := &rig{}
	d := newDrive(testDriveConfig(), r)

	d.enableRamp(0)
	require.True(t, r.energized)

	// pulses land at 1000, 1900, 2700, 3400, 4000, 4500, 4900, 5200,
	// then every 200us once the floor is reached
	for us := uint32(0); us <= 6000; us += 100 {
		d.tick(us)
	}
	assert.Equal(t, 12, r.steps)
	assert.True(t, d.rampDone)
	assert.Equal(t, uint32(200), d.intervalUs)

	// re-enabling mid-ramp keeps the cadence
	d.enableRamp(6000)
	assert.Equal(t, uint32(200), d.intervalUs)
}

func TestDriveFastPinsCadence(t *testing.T) {
	r := &rig{}
	d := newDrive(testDriveConfig(), r)

	d.enableFast(0)
	for us := uint32(100); us <= 2000; us += 100 {
		d.tick(us)
	}
	assert.Equal(t, 10, r.steps)
	assert.Equal(t, uint32(200), d.intervalUs)
}

func TestDriveHoldKeepsTorque(t *testing.T) {
	r := &rig{}
	d := newDrive(testDriveConfig(), r)

	d.enableFast(0)
	d.tick(200)
	require.Equal(t, 1, r.steps)

	d.hold()
	d.tick(2000)
	assert.Equal(t, 1, r.steps)
	assert.True(t, r.energized)
}

func TestDriveDisableResetsRamp(t *testing.T) {
	r := &rig{}
	d := newDrive(testDriveConfig(), r)

	d.enableRamp(0)
	for us := uint32(0); us <= 6000; us += 100 {
		d.tick(us)
	}
	require.True(t, d.rampDone)

	d.disable()
	assert.False(t, r.energized)
	assert.Equal(t, uint32(1000), d.intervalUs)

	d.enableRamp(10000)
	d.tick(11000)
	// back at the slow cadence, not the floor
	assert.Equal(t, uint32(900), d.intervalUs)
}

func TestDriveDropsBacklog(t *testing.T) {
	r := &rig{}
	d := newDrive(testDriveConfig(), r)

	d.enableFast(0)
	// the loop stalls for 10ms: catch up a bounded burst, drop the rest
	d.tick(10000)
	assert.Equal(t, maxBurst, r.steps)

	d.tick(10100)
	assert.Equal(t, maxBurst, r.steps)
	d.tick(10200)
	assert.Equal(t, maxBurst+1, r.steps)
}
