package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/djefts/pacmanAI/core"
)

// Tone per move, a pentatonic-ish set so any path stays consonant
var moveFreq = map[core.Direction]float64{
	core.North: 659.25, // E5
	core.East:  523.25, // C5
	core.South: 392.00, // G4
	core.West:  440.00, // A4
}

// Goal chime: C major triad an octave up
var chimeFreq = []float64{1046.50, 1318.51, 1567.98}

// Options control path sonification
type Options struct {
	SampleRate beep.SampleRate
	Note       time.Duration // Length of one move tone
	Gap        time.Duration // Silence after each move
	Volume     float64       // Linear, 0-1
	Wave       WaveType
	Chime      bool // Append the goal chime
}

// DefaultOptions returns 44.1kHz sine notes of 90ms with 30ms gaps
func DefaultOptions() Options {
	return Options{
		SampleRate: 44100,
		Note:       90 * time.Millisecond,
		Gap:        30 * time.Millisecond,
		Volume:     0.6,
		Wave:       WaveSine,
	}
}

const chimeDuration = 400 * time.Millisecond

// Samples returns the exact stream length Sonify produces for path
func Samples(path []core.Direction, opts Options) int {
	n := len(path) * (opts.SampleRate.N(opts.Note) + opts.SampleRate.N(opts.Gap))
	if opts.Chime {
		n += opts.SampleRate.N(chimeDuration)
	}
	return n
}

// Sonify renders one tone per move; Stop moves are silent beats
func Sonify(path []core.Direction, opts Options) beep.Streamer {
	rate := opts.SampleRate
	parts := make([]beep.Streamer, 0, 2*len(path)+1)

	for _, d := range path {
		freq, ok := moveFreq[d]
		if !ok {
			parts = append(parts, beep.Silence(rate.N(opts.Note)))
		} else {
			osc := NewOscillator(freq, opts.Note, opts.Wave, rate)
			parts = append(parts, NewEnvelope(osc, opts.Note, opts.Note/10, opts.Note/3, rate))
		}
		if n := rate.N(opts.Gap); n > 0 {
			parts = append(parts, beep.Silence(n))
		}
	}

	if opts.Chime {
		voices := make([]beep.Streamer, len(chimeFreq))
		for i, f := range chimeFreq {
			osc := NewOscillator(f, chimeDuration, WaveSine, rate)
			shaped := NewEnvelope(osc, chimeDuration, 5*time.Millisecond, chimeDuration/2, rate)
			voices[i] = newVolume(shaped, 1/float64(len(chimeFreq)))
		}
		parts = append(parts, beep.Take(rate.N(chimeDuration), beep.Mix(voices...)))
	}

	return newVolume(beep.Seq(parts...), opts.Volume)
}

// WriteWAV encodes the sonified path as 16-bit stereo WAV
func WriteWAV(w io.WriteSeeker, path []core.Direction, opts Options) error {
	format := beep.Format{
		SampleRate:  opts.SampleRate,
		NumChannels: 2,
		Precision:   2,
	}
	if err := wav.Encode(w, Sonify(path, opts), format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}
