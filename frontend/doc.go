// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package frontend runs an emulator against a host display, keyboard and
// speaker.
//
// Window uses an ebiten window, and Terminal uses a raw mode terminal.
// Both run the emulator in 60Hz frames, calling emulator.Frame with the
// configured instructions per frame, and drive a Beeper from the sound
// timer.
package frontend
