package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gridsaver/pkg/layout"
)

func TestGrowShrinkSequence(t *testing.T) {
	assert.Equal(t, []layout.Shape{layout.Square(1)}, GrowShrinkSequence(1))

	want := []layout.Shape{
		layout.Square(1), layout.Square(2), layout.Square(3),
		layout.Square(2), layout.Square(1),
	}
	assert.Equal(t, want, GrowShrinkSequence(3))

	// A full pass always has 2*max-1 states.
	assert.Len(t, GrowShrinkSequence(6), 11)
}

func TestCrtName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "off"},
		{"off", "off"},
		{"light", "crt-light"},
		{"medium", "crt-medium"},
		{"heavy", "crt-heavy"},
		{"crt-heavy", "crt-heavy"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, crtName(tt.in), tt.in)
	}
}
