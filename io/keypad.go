package io

const KEY_COUNT = 16

// Keypad is the state of the 16 hex keys, one bit per key.
// The host sets it; the CPU only reads it.
type Keypad struct {
	keys uint16
}

// SetKey records a key transition from the host.
func (kp *Keypad) SetKey(index byte, pressed bool) (err error) {
	if index >= KEY_COUNT {
		err = ErrKeyInvalid
		return
	}

	if pressed {
		kp.keys |= 1 << index
	} else {
		kp.keys &^= 1 << index
	}
	return
}

// IsPressed returns true if the key is down.
// Indexes outside the keypad are never pressed.
func (kp *Keypad) IsPressed(index byte) bool {
	if index >= KEY_COUNT {
		return false
	}
	return (kp.keys>>index)&1 != 0
}

// State returns all keys as a bitmask, bit N set if key N is down.
func (kp *Keypad) State() uint16 {
	return kp.keys
}

// Reset releases all keys.
func (kp *Keypad) Reset() {
	kp.keys = 0
}
