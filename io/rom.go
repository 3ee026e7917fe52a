package io

import (
	"io"
	"io/fs"

	"github.com/ezrec/chip8/cpu"
)

// ReadRom reads a program image, rejecting images that cannot fit in memory.
func ReadRom(r io.Reader) (data []byte, err error) {
	data, err = io.ReadAll(io.LimitReader(r, cpu.MAX_PROGRAM_SIZE+1))
	if err != nil {
		data = nil
		return
	}

	switch {
	case len(data) == 0:
		err = ErrRomEmpty
	case len(data) > cpu.MAX_PROGRAM_SIZE:
		err = cpu.ErrProgramTooLarge
	}

	if err != nil {
		data = nil
	}
	return
}

// OpenRom reads a program image from a file system.
func OpenRom(fsys fs.FS, name string) (data []byte, err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	return ReadRom(inf)
}
