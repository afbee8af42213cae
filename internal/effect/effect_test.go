package effect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	e, err := Get("crt-medium")
	require.NoError(t, err)
	assert.Equal(t, "crt-medium", e.GetName())

	_, err = Get("vhs")
	assert.Error(t, err)
}

func TestGetSupportedEffects(t *testing.T) {
	names := GetSupportedEffects()
	assert.Equal(t, []string{"crt-heavy", "crt-light", "crt-medium", "off"}, names)
}

func TestOffEffectIsNoOp(t *testing.T) {
	e, err := Get("off")
	require.NoError(t, err)
	assert.Empty(t, e.GetFilter())
}

func TestCRTFilter(t *testing.T) {
	e, err := Get("crt-light")
	require.NoError(t, err)
	assert.Equal(t,
		"lenscorrection=k1=-0.15:k2=-0.05,"+
			"geq='lum=lum(X,Y)*if(mod(Y,2),0.9,1):cb=cb(X,Y):cr=cr(X,Y)'",
		e.GetFilter())
}

func TestCRTIntensityOrdering(t *testing.T) {
	// Heavier settings use stronger distortion and darker scanlines.
	for _, name := range []string{"crt-light", "crt-medium", "crt-heavy"} {
		e, err := Get(name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(e.GetFilter(), "lenscorrection=k1=-"), name)
		assert.Contains(t, e.GetFilter(), "geq=", name)
	}
}
