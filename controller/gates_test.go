package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timberwise/sortline"
)

func TestGateBankImmediateGrades(t *testing.T) {
	r := &rig{}
	g := newGateBank(DefaultConfig().Gates, r)

	staged, err := g.begin(sortline.GradeNeutral)
	require.NoError(t, err)
	assert.False(t, staged)
	assert.Equal(t, [4]int{90, 90, 90, 90}, r.angles)

	staged, err = g.begin(sortline.Grade0)
	require.NoError(t, err)
	assert.False(t, staged)
	assert.Equal(t, [4]int{150, 150, 150, 150}, r.angles)

	staged, err = g.begin(sortline.GradeCalibrate)
	require.NoError(t, err)
	assert.False(t, staged)
	assert.Equal(t, [4]int{180, 180, 180, 180}, r.angles)
}

func TestGateBankStagedGrades(t *testing.T) {
	r := &rig{angles: [4]int{90, 90, 90, 90}}
	g := newGateBank(DefaultConfig().Gates, r)

	staged, err := g.begin(sortline.Grade2)
	require.NoError(t, err)
	require.True(t, staged)
	assert.Equal(t, [4]int{50, 60, 90, 90}, r.angles)

	require.NoError(t, g.finish(sortline.Grade2))
	assert.Equal(t, [4]int{50, 60, 120, 130}, r.angles)

	staged, err = g.begin(sortline.Grade3)
	require.NoError(t, err)
	require.True(t, staged)
	assert.Equal(t, [4]int{130, 120, 120, 130}, r.angles)

	require.NoError(t, g.finish(sortline.Grade3))
	assert.Equal(t, [4]int{130, 120, 60, 50}, r.angles)
}

func TestGateBankFinishWithoutStage(t *testing.T) {
	r := &rig{}
	g := newGateBank(DefaultConfig().Gates, r)

	require.NoError(t, g.finish(sortline.GradeNeutral))
	assert.Equal(t, 0, r.moves)
}

func TestGateBankPropagatesDriverError(t *testing.T) {
	r := &rig{gateErr: errors.New("no response")}
	g := newGateBank(DefaultConfig().Gates, r)

	staged, err := g.begin(sortline.Grade2)
	assert.Error(t, err)
	assert.True(t, staged, "staging is decided by the grade, not the driver")

	_, err = g.begin(sortline.GradeNeutral)
	assert.Error(t, err)
}
