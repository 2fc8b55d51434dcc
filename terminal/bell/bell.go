// Package bell is the audible terminal bell, a short sine tone played
// through the beep speaker. The audio device is opened on the first ring;
// when no device is available the bell degrades to silence.
package bell

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/termkit/logging"
)

const (
	sampleRate      = beep.SampleRate(48000)
	defaultFreq     = 880.0
	defaultDuration = 80 * time.Millisecond
	defaultGain     = 0.4
)

// output is the audio device
type output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Close()
}

type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, n int) error { return speaker.Init(sr, n) }
func (speakerOutput) Play(s beep.Streamer)                 { speaker.Play(s) }
func (speakerOutput) Close()                               { speaker.Close() }

// Bell plays a tone per Ring; overlapping rings are dropped
type Bell struct {
	mu          sync.Mutex
	out         output
	logger      *slog.Logger
	initialized bool
	disabled    atomic.Bool
	playing     atomic.Bool
	muted       bool

	freq     float64
	duration time.Duration
	gain     float64

	rings atomic.Int64
}

// Option configures a Bell
type Option func(*Bell)

// Muted makes Ring a no-op; for tests and CI without audio
func Muted() Option {
	return func(b *Bell) { b.muted = true }
}

// WithTone sets pitch and length of the tone
func WithTone(freq float64, d time.Duration) Option {
	return func(b *Bell) {
		if freq > 0 {
			b.freq = freq
		}
		if d > 0 {
			b.duration = d
		}
	}
}

// WithLogger sets the logger; Init arguments may also supply one
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bell) { b.logger = logging.OrDiscard(logger) }
}

func New(opts ...Option) *Bell {
	b := &Bell{
		out:      speakerOutput{},
		logger:   logging.Discard(),
		freq:     defaultFreq,
		duration: defaultDuration,
		gain:     defaultGain,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ring starts the tone and returns immediately
func (b *Bell) Ring() {
	if b.muted || b.disabled.Load() {
		return
	}
	if !b.playing.CompareAndSwap(false, true) {
		return
	}
	if !b.ensureInit() {
		b.playing.Store(false)
		return
	}

	b.rings.Add(1)
	done := beep.Callback(func() { b.playing.Store(false) })
	b.out.Play(beep.Seq(newTone(b.freq, b.duration, b.gain, sampleRate), done))
}

// Rings returns the number of tones started
func (b *Bell) Rings() int64 { return b.rings.Load() }

// Disabled reports whether the audio device failed to open
func (b *Bell) Disabled() bool { return b.disabled.Load() }

// ensureInit opens the device once; failure disables the bell for good
func (b *Bell) ensureInit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return true
	}
	if err := b.out.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		b.disabled.Store(true)
		b.logger.Warn("audio unavailable, bell disabled", "error", err)
		return false
	}
	b.initialized = true
	b.logger.Debug("audio initialized", "sample_rate", int(sampleRate))
	return true
}

// Close releases the audio device
func (b *Bell) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	b.out.Close()
	b.initialized = false
	b.playing.Store(false)
}

// --- service.Service ---

func (b *Bell) Name() string           { return "bell" }
func (b *Bell) Dependencies() []string { return nil }

// Init takes the logger from args when one is passed
func (b *Bell) Init(args ...any) error {
	for _, arg := range args {
		if l, ok := arg.(*slog.Logger); ok && l != nil {
			b.logger = l
		}
	}
	return nil
}

// Start is a no-op; the device opens on the first ring
func (b *Bell) Start() error { return nil }

func (b *Bell) Stop() error {
	b.Close()
	return nil
}
