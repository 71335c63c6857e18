package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djefts/pacmanAI/core"
)

// drain reads s to the end and returns every left-channel sample
func drain(t *testing.T, s beep.Streamer) []float64 {
	t.Helper()
	var out []float64
	buf := make([][2]float64, 256)
	for guard := 0; guard < 1_000_000; guard++ {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, buf[i][0])
		}
		if !ok {
			return out
		}
	}
	t.Fatal("streamer never drained")
	return nil
}

func peak(samples []float64) float64 {
	p := 0.0
	for _, v := range samples {
		p = max(p, math.Abs(v))
	}
	return p
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.SampleRate = 8000
	return opts
}

func TestOscillator_Length(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveTriangle} {
		samples := drain(t, NewOscillator(440, 50*time.Millisecond, wave, rate))
		assert.Len(t, samples, rate.N(50*time.Millisecond))
		assert.LessOrEqual(t, peak(samples), 1.0)
	}
}

func TestEnvelope_RampsFromSilence(t *testing.T) {
	rate := beep.SampleRate(8000)
	d := 100 * time.Millisecond
	samples := drain(t, NewEnvelope(NewOscillator(400, d, WaveSquare, rate), d, 20*time.Millisecond, 20*time.Millisecond, rate))

	require.Len(t, samples, rate.N(d))
	assert.Equal(t, 0.0, samples[0], "attack starts silent")
	assert.InDelta(t, 1.0, math.Abs(samples[len(samples)/2]), 1e-9, "sustain at full level")
	assert.Less(t, math.Abs(samples[len(samples)-1]), 0.1, "release fades out")
}

func TestSonify_LengthAndLevel(t *testing.T) {
	opts := testOptions()
	path := []core.Direction{core.East, core.East, core.South, core.West}

	samples := drain(t, Sonify(path, opts))
	assert.Len(t, samples, Samples(path, opts))
	assert.LessOrEqual(t, peak(samples), opts.Volume+1e-9)
	assert.Greater(t, peak(samples), 0.0)
}

func TestSonify_StopIsSilent(t *testing.T) {
	opts := testOptions()
	opts.Gap = 0

	samples := drain(t, Sonify([]core.Direction{core.Stop, core.Stop}, opts))
	assert.Len(t, samples, 2*opts.SampleRate.N(opts.Note))
	assert.Zero(t, peak(samples))
}

func TestSonify_Chime(t *testing.T) {
	opts := testOptions()
	opts.Chime = true

	samples := drain(t, Sonify(nil, opts))
	assert.Len(t, samples, Samples(nil, opts))
	assert.Greater(t, peak(samples), 0.0)
}

func TestWriteWAV(t *testing.T) {
	opts := testOptions()
	path := []core.Direction{core.North, core.East, core.South}

	file := filepath.Join(t.TempDir(), "path.wav")
	f, err := os.Create(file)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, path, opts))
	require.NoError(t, f.Close())

	in, err := os.Open(file)
	require.NoError(t, err)
	defer in.Close()

	s, format, err := wav.Decode(in)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, opts.SampleRate, format.SampleRate)
	assert.Equal(t, 2, format.NumChannels)
	assert.Equal(t, Samples(path, opts), s.Len())
}
