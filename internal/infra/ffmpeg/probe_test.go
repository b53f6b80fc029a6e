package ffmpeg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrameRate(t *testing.T) {
	assert.InDelta(t, 29.97, parseFrameRate("30000/1001"), 0.001)
	assert.Equal(t, 25.0, parseFrameRate("25/1"))
	assert.Equal(t, 24.0, parseFrameRate("24"))
	assert.Equal(t, 0.0, parseFrameRate("0/0"))
	assert.Equal(t, 0.0, parseFrameRate(""))
	assert.Equal(t, 0.0, parseFrameRate("garbage"))
}

func TestProbeOutputParsing(t *testing.T) {
	payload := []byte(`{
		"streams": [{"avg_frame_rate": "30000/1001", "nb_frames": "3754"}],
		"format": {"duration": "125.291000"}
	}`)

	var parsed probeOutput
	require.NoError(t, json.Unmarshal(payload, &parsed))
	require.Len(t, parsed.Streams, 1)
	assert.Equal(t, "30000/1001", parsed.Streams[0].AvgFrameRate)
	assert.Equal(t, "3754", parsed.Streams[0].NBFrames)
	assert.Equal(t, "125.291000", parsed.Format.Duration)
}
