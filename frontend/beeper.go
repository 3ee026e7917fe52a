package frontend

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const (
	SAMPLE_RATE    = 44100
	BEEP_AMPLITUDE = 0.25
)

// Beeper plays a square wave tone while on.
//
// A nil *Beeper is silent.
type Beeper struct {
	Tone int // Frequency in Hz.

	ctx    *oto.Context
	player *oto.Player
	on     atomic.Bool
	phase  int // Samples into the current period.
}

// NewBeeper opens the host audio device.
func NewBeeper(tone int) (b *Beeper, err error) {
	op := &oto.NewContextOptions{
		SampleRate:   SAMPLE_RATE,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return
	}
	<-ready

	b = &Beeper{
		Tone: tone,
		ctx:  ctx,
	}
	b.player = ctx.NewPlayer(b)
	b.player.Play()

	return
}

// Set turns the tone on or off.
func (b *Beeper) Set(on bool) {
	if b == nil {
		return
	}
	b.on.Store(on)
}

// On returns true while the tone is on.
func (b *Beeper) On() bool {
	return b != nil && b.on.Load()
}

// Read fills p with float32 samples. Called by the audio device.
func (b *Beeper) Read(p []byte) (n int, err error) {
	period := 0
	if b.Tone > 0 {
		period = max(2, SAMPLE_RATE/b.Tone)
	}
	on := b.on.Load() && period > 0

	for n = 0; n+4 <= len(p); n += 4 {
		var sample float32
		if on {
			sample = BEEP_AMPLITUDE
			if b.phase >= period/2 {
				sample = -BEEP_AMPLITUDE
			}
			b.phase = (b.phase + 1) % period
		}
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(sample))
	}

	return
}

// Close stops playback.
func (b *Beeper) Close() (err error) {
	if b == nil || b.player == nil {
		return
	}

	err = b.player.Close()
	b.player = nil

	return
}
