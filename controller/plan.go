package controller

import "math"

// segmentCount is fixed by the line geometry: three lead stops and a
// final segment absorbing the remainder
const segmentCount = 4

// buildPlan derives the four travel distances from the configured total
// length. The last segment is whatever the leads leave over, clamped at
// zero for short stock; a clamped plan no longer sums to the total.
func buildPlan(line LineConfig) [segmentCount]float64 {
	var plan [segmentCount]float64

	sum := 0.0
	for i, d := range line.LeadsIn {
		plan[i] = d
		sum += d
	}

	last := line.TotalLengthIn - sum
	if last < 0 {
		last = 0
	}
	plan[segmentCount-1] = last

	return plan
}

// travelMs converts a distance to milliseconds of travel at belt speed
func travelMs(distanceIn, speedInPerSec float64) uint32 {
	if speedInPerSec <= 0 {
		return 0
	}
	return uint32(math.Round(distanceIn / speedInPerSec * 1000))
}

// lengthHundredths converts a beam-broken duration to a workpiece length
// in hundredths of an inch
func lengthHundredths(travelledMs uint32, speedInPerSec float64) int {
	return int(math.Round(float64(travelledMs) / 1000 * speedInPerSec * 100))
}
