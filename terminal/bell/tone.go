package bell

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// fadeFraction of the tone is spent on attack and on release so the tone
// does not click
const fadeFraction = 0.15

// tone is a sine wave with a linear attack/release envelope
type tone struct {
	freq     float64
	phase    float64
	position int
	total    int
	fade     int
	rate     beep.SampleRate
}

// newTone returns a streamer of d worth of samples at gain (0..1)
func newTone(freq float64, d time.Duration, gain float64, rate beep.SampleRate) beep.Streamer {
	total := rate.N(d)
	t := &tone{
		freq:  freq,
		total: total,
		fade:  int(float64(total) * fadeFraction),
		rate:  rate,
	}
	if gain <= 0 {
		return &effects.Volume{Streamer: t, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: t, Base: 2, Volume: math.Log2(gain)}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}

		val := math.Sin(2*math.Pi*t.phase) * t.envelope()
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

// envelope is the volume at the current position
func (t *tone) envelope() float64 {
	if t.fade == 0 {
		return 1
	}
	if t.position < t.fade {
		return float64(t.position) / float64(t.fade)
	}
	if remaining := t.total - t.position; remaining < t.fade {
		return float64(remaining) / float64(t.fade)
	}
	return 1
}

func (t *tone) Err() error { return nil }
