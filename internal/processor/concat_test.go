package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	for _, name := range []string{"cut", "fade", "circleopen", "circleclose",
		"wipeleft", "wiperight", "fadeblack", "radial"} {
		assert.True(t, ValidTransition(name), name)
	}
	assert.False(t, ValidTransition("dissolve"))
	assert.False(t, ValidTransition(""))
}

func TestSupportedTransitionsIsACopy(t *testing.T) {
	got := SupportedTransitions()
	got[0] = "mangled"
	assert.True(t, ValidTransition("cut"))
}

func TestXfadeOffsets(t *testing.T) {
	tests := []struct {
		name      string
		durations []float64
		d         float64
		want      []float64
	}{
		{
			name:      "two segments",
			durations: []float64{10, 10},
			d:         0.5,
			want:      []float64{9.5},
		},
		{
			name:      "chained blends accumulate",
			durations: []float64{10, 10, 10},
			d:         0.5,
			want:      []float64{9.5, 19},
		},
		{
			name:      "uneven durations",
			durations: []float64{5, 8, 3},
			d:         1,
			want:      []float64{4, 11},
		},
		{
			name:      "single segment has no transitions",
			durations: []float64{10},
			d:         0.5,
			want:      []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, xfadeOffsets(tt.durations, tt.d))
		})
	}
}
