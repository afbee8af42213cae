package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionClips(t *testing.T) {
	clips := []string{"a", "b", "c", "d", "e", "f", "g"}

	buckets := positionClips(clips, 3)
	assert.Equal(t, [][]string{
		{"a", "d", "g"},
		{"b", "e"},
		{"c", "f"},
	}, buckets)
}

func TestStaggerTotal(t *testing.T) {
	// A single position runs exactly its stream length.
	assert.Equal(t, 60.0, staggerTotal(60, 1, 2))

	// Six positions, last one starting 10s in, extend the run so the
	// final stream still plays out in full.
	assert.Equal(t, 70.0, staggerTotal(60, 6, 2))
}

func TestDelayedPTS(t *testing.T) {
	assert.Equal(t, "PTS-STARTPTS+2/TB", delayedPTS(2))
	assert.Equal(t, "PTS-STARTPTS+7.5/TB", delayedPTS(7.5))
}

func TestPositionClipsFewerClipsThanPositions(t *testing.T) {
	buckets := positionClips([]string{"a", "b"}, 4)
	assert.Len(t, buckets, 4)
	assert.Equal(t, []string{"a"}, buckets[0])
	assert.Equal(t, []string{"b"}, buckets[1])
	assert.Empty(t, buckets[2])
	assert.Empty(t, buckets[3])
}
