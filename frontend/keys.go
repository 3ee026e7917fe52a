package frontend

import (
	"errors"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowKeys resolves a keymap to ebiten keys.
//
// Names match ebiten.Key.String() without regard to case. Digits may be
// given as "1" for "Digit1", and arrows as "up" for "ArrowUp".
func WindowKeys(keymap map[string]byte) (keys map[ebiten.Key]byte, err error) {
	keys = make(map[ebiten.Key]byte, len(keymap))

	for name, index := range keymap {
		key, ok := windowKey(name)
		if !ok {
			keys = nil
			err = errors.Join(ErrKeyName, ErrKey(name))
			return
		}
		keys[key] = index
	}

	return
}

func windowKey(name string) (key ebiten.Key, ok bool) {
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		str := k.String()
		if strings.EqualFold(str, name) ||
			strings.EqualFold(str, "Digit"+name) ||
			strings.EqualFold(str, "Arrow"+name) {
			key = k
			ok = true
			return
		}
	}

	return
}

// TerminalKeys resolves a keymap to terminal input bytes.
//
// Names must be a single character. Letters match either case.
func TerminalKeys(keymap map[string]byte) (keys map[byte]byte, err error) {
	keys = make(map[byte]byte, len(keymap)*2)

	for name, index := range keymap {
		if len(name) != 1 {
			keys = nil
			err = errors.Join(ErrKeyName, ErrKey(name))
			return
		}
		keys[strings.ToLower(name)[0]] = index
		keys[strings.ToUpper(name)[0]] = index
	}

	return
}
