package config

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrSetting = errors.New(f("invalid setting"))

	ErrSettingUnknown = errors.New(f("unknown setting"))
	ErrSettingType    = errors.New(f("wrong type"))
	ErrSettingRange   = errors.New(f("out of range"))
	ErrColor          = errors.New(f("unknown colour"))
)

// ErrValue is a rejected configuration setting.
type ErrValue struct {
	Name string // Setting name.
	Err  error  // Reason.
}

func (err *ErrValue) Error() string {
	return f("%v %q: %v", ErrSetting, err.Name, err.Err)
}

func (err *ErrValue) Unwrap() []error {
	return []error{ErrSetting, err.Err}
}
