package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// TestOscillatorSine verifies sine wave generation
func TestOscillatorSine(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 100*time.Millisecond, WaveSine, rate)

	samples := make([][2]float64, 100)
	n, ok := osc.Stream(samples)
	if !ok || n != 100 {
		t.Fatalf("Expected 100 samples, got n=%d ok=%v", n, ok)
	}

	if samples[0][0] != 0 {
		t.Errorf("Expected sine to start at 0, got %f", samples[0][0])
	}
	for i, s := range samples {
		if s[0] < -1 || s[0] > 1 {
			t.Errorf("Sample %d out of range: %f", i, s[0])
		}
		if s[0] != s[1] {
			t.Errorf("Sample %d channels differ: %f vs %f", i, s[0], s[1])
		}
	}
}

// TestOscillatorSquare verifies square wave only produces +1/-1
func TestOscillatorSquare(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 100*time.Millisecond, WaveSquare, rate)

	samples := make([][2]float64, 200)
	osc.Stream(samples)

	highs, lows := 0, 0
	for i, s := range samples {
		switch s[0] {
		case 1:
			highs++
		case -1:
			lows++
		default:
			t.Errorf("Sample %d: expected +1 or -1, got %f", i, s[0])
		}
	}
	if highs == 0 || lows == 0 {
		t.Errorf("Expected both phases, got %d highs and %d lows", highs, lows)
	}
}

// TestOscillatorTriangle verifies the triangle peaks mid-period
func TestOscillatorTriangle(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(10, time.Second, WaveTriangle, rate)

	samples := make([][2]float64, 100) // one full period
	osc.Stream(samples)

	if math.Abs(samples[0][0]+1) > 1e-9 {
		t.Errorf("Expected trough at phase 0, got %f", samples[0][0])
	}
	if math.Abs(samples[50][0]-1) > 1e-9 {
		t.Errorf("Expected peak at half period, got %f", samples[50][0])
	}
}

// TestOscillatorDuration verifies the oscillator stops after its duration
func TestOscillatorDuration(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 10 * time.Millisecond
	osc := NewOscillator(440, duration, WaveSine, rate)

	expected := rate.N(duration)
	total := 0
	samples := make([][2]float64, 128)
	for {
		n, ok := osc.Stream(samples)
		total += n
		if !ok {
			break
		}
	}

	if total != expected {
		t.Errorf("Expected %d samples, got %d", expected, total)
	}
}

// TestEnvelopeRelease verifies the tail fades towards silence
func TestEnvelopeRelease(t *testing.T) {
	rate := beep.SampleRate(1000)
	duration := 100 * time.Millisecond
	osc := NewOscillator(100, duration, WaveSquare, rate)
	env := NewEnvelope(osc, duration, 0, 20*time.Millisecond, rate)

	samples := make([][2]float64, 100)
	n, _ := env.Stream(samples)
	if n != 100 {
		t.Fatalf("Expected 100 samples, got %d", n)
	}

	if math.Abs(samples[10][0]) != 1 {
		t.Errorf("Expected full level before release, got %f", samples[10][0])
	}
	if math.Abs(samples[99][0]) >= 0.1 {
		t.Errorf("Expected near silence at the end, got %f", samples[99][0])
	}
}

// TestVolumeSilent verifies a zero volume mutes the stream
func TestVolumeSilent(t *testing.T) {
	rate := beep.SampleRate(1000)
	s := newVolume(NewOscillator(100, 50*time.Millisecond, WaveSquare, rate), 0)

	samples := make([][2]float64, 50)
	s.Stream(samples)
	for i, v := range samples {
		if v[0] != 0 {
			t.Fatalf("Sample %d not silent: %f", i, v[0])
		}
	}
}
