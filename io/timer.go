package io

const TIMER_HZ = 60 // Rate at which Tick() is expected to be called.

// Timers are the delay and sound countdown registers.
type Timers struct {
	delay byte
	sound byte
}

// Tick decrements both timers, stopping at zero.
func (tm *Timers) Tick() {
	if tm.delay > 0 {
		tm.delay--
	}
	if tm.sound > 0 {
		tm.sound--
	}
}

func (tm *Timers) Delay() byte {
	return tm.delay
}

func (tm *Timers) SetDelay(value byte) {
	tm.delay = value
}

func (tm *Timers) Sound() byte {
	return tm.sound
}

func (tm *Timers) SetSound(value byte) {
	tm.sound = value
}

// Audible returns true while the tone should play.
func (tm *Timers) Audible() bool {
	return tm.sound > 0
}

func (tm *Timers) Reset() {
	tm.delay = 0
	tm.sound = 0
}
