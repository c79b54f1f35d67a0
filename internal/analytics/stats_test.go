package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverallStats_Empty(t *testing.T) {
	s := OverallStats(map[int]bool{})

	assert.Equal(t, Stats{Asked: 0, Correct: 0, Wrong: 0, Percent: 0.0}, s)
}

func TestOverallStats_Nil(t *testing.T) {
	s := OverallStats(nil)

	assert.Zero(t, s.Asked)
	assert.Zero(t, s.Percent)
}

func TestOverallStats_Mixed(t *testing.T) {
	s := OverallStats(map[int]bool{1: true, 2: false, 3: true})

	assert.Equal(t, 3, s.Asked)
	assert.Equal(t, 2, s.Correct)
	assert.Equal(t, 1, s.Wrong)
	assert.InDelta(t, 66.7, s.Percent, 0.1)
}

func TestOverallStats_AllWrong(t *testing.T) {
	s := OverallStats(map[int]bool{4: false, 5: false})

	assert.Equal(t, Stats{Asked: 2, Correct: 0, Wrong: 2, Percent: 0.0}, s)
}
