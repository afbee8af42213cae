package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsaver/pkg/layout"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"30/1", 30, false},
		{"30000/1001", 29.97, false},
		{"24000/1001", 23.98, false},
		{"60/1", 60, false},
		{"25/1", 25, false},
		{"0/0", 0, true},
		{"30", 0, true},
		{"a/b", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseFrameRate(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestFormatFPS(t *testing.T) {
	assert.Equal(t, "30", FormatFPS(30))
	assert.Equal(t, "29.97", FormatFPS(29.97))
	assert.Equal(t, "23.98", FormatFPS(23.98))
}

func TestGetCodecSettings(t *testing.T) {
	mp4 := GetCodecSettings("mp4")
	assert.Equal(t, "libx264", mp4.VideoCodec)
	assert.Equal(t, ".mp4", mp4.FileExtension)

	webm := GetCodecSettings("webm")
	assert.Equal(t, "libvpx-vp9", webm.VideoCodec)

	// Unknown formats fall back to mp4.
	assert.Equal(t, "libx264", GetCodecSettings("avi").VideoCodec)
	assert.Equal(t, "libx264", GetCodecSettings("").VideoCodec)
}

func TestCodecSettingsHavePresets(t *testing.T) {
	for _, format := range []string{"mp4", "webm"} {
		settings := GetCodecSettings(format)
		assert.Contains(t, settings.EncoderPresets, "segment", format)
		assert.Contains(t, settings.EncoderPresets, "final", format)
	}
}

func TestOverlayExprStatic(t *testing.T) {
	m := layout.Motion{
		Start:    layout.Point{X: 240, Y: 0},
		End:      layout.Point{X: 240, Y: 0},
		Duration: 1,
	}
	x, y := OverlayExpr(m)
	assert.Equal(t, "240", x)
	assert.Equal(t, "0", y)
}

func TestOverlayExprZeroDuration(t *testing.T) {
	m := layout.Motion{
		Start: layout.Point{X: 1920, Y: 0},
		End:   layout.Point{X: 960, Y: 0},
	}
	x, y := OverlayExpr(m)
	assert.Equal(t, "960", x)
	assert.Equal(t, "0", y)
}

func TestOverlayExprSlide(t *testing.T) {
	m := layout.Motion{
		Start:    layout.Point{X: 1920, Y: 540},
		End:      layout.Point{X: 960, Y: 540},
		Duration: 1,
	}
	x, y := OverlayExpr(m)
	assert.Equal(t, "if(lt(t,1),1920+(-960)*(3*pow(t/1,2)-2*pow(t/1,3)),960)", x)
	// The y axis does not move, so it serializes to a bare coordinate.
	assert.Equal(t, "540", y)
}

func TestOverlayExprFractionalDuration(t *testing.T) {
	m := layout.Motion{
		Start:    layout.Point{X: 240, Y: 1080},
		End:      layout.Point{X: 240, Y: 549},
		Duration: 0.5,
	}
	x, y := OverlayExpr(m)
	assert.Equal(t, "240", x)
	assert.Equal(t, "if(lt(t,0.5),1080+(-531)*(3*pow(t/0.5,2)-2*pow(t/0.5,3)),549)", y)
}

func TestEnsureExtension(t *testing.T) {
	assert.Equal(t, "out.webm", EnsureExtension("out.mp4", ".webm"))
	assert.Equal(t, "out.mp4", EnsureExtension("out.mp4", ".mp4"))
	assert.Equal(t, "out.mp4", EnsureExtension("out", ".mp4"))
	assert.Equal(t, "clip.final.webm", EnsureExtension("clip.final.mkv", ".webm"))
}

func TestFindVideoStream(t *testing.T) {
	data := map[string]interface{}{
		"streams": []interface{}{
			map[string]interface{}{"codec_type": "audio", "codec_name": "aac"},
			map[string]interface{}{"codec_type": "video", "codec_name": "h264", "width": 1920.0},
		},
	}
	s := findVideoStream(data)
	require.NotNil(t, s)
	assert.Equal(t, "h264", s["codec_name"])

	assert.Nil(t, findVideoStream(map[string]interface{}{}))
}

func TestGetOptimalThreadCount(t *testing.T) {
	assert.GreaterOrEqual(t, GetOptimalThreadCount(), 1)
}
