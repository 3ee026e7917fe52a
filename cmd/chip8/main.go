// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ezrec/chip8/config"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/frontend"
	"github.com/ezrec/chip8/io"
)

func main() {
	var configFile string
	var rate int
	var scale int
	var terminal bool
	var mute bool
	var verbose bool

	flag.StringVar(&configFile, "c", "", ".star configuration file")
	flag.IntVar(&rate, "r", 0, "Instructions per second")
	flag.IntVar(&scale, "s", 0, "Window pixel scale")
	flag.BoolVar(&terminal, "t", false, "Use the terminal frontend")
	flag.BoolVar(&mute, "m", false, "Mute the beeper")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [flags] rom.ch8\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	romFile := flag.Arg(0)

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("%v: %v", configFile, err)
	}

	if rate != 0 {
		if rate < config.RATE_MIN || rate > config.RATE_MAX {
			log.Fatalf("%v: -r %v: %v", os.Args[0], rate, config.ErrSettingRange)
		}
		cfg.Rate = rate
	}
	if scale != 0 {
		if scale < 1 || scale > config.SCALE_MAX {
			log.Fatalf("%v: -s %v: %v", os.Args[0], scale, config.ErrSettingRange)
		}
		cfg.Scale = scale
	}
	if terminal {
		cfg.Frontend = config.FRONTEND_TERMINAL
	}
	if mute {
		cfg.Tone = 0
	}

	rom, err := io.OpenRom(os.DirFS(filepath.Dir(romFile)), filepath.Base(romFile))
	if err != nil {
		log.Fatalf("%v: %v", romFile, err)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	err = emu.Load(rom)
	if err != nil {
		log.Fatalf("%v: %v", romFile, err)
	}

	var beeper *frontend.Beeper
	if cfg.Tone > 0 {
		beeper, err = frontend.NewBeeper(cfg.Tone)
		if err != nil {
			log.Printf("audio: %v", err)
			beeper = nil
		}
		defer beeper.Close()
	}

	switch cfg.Frontend {
	case config.FRONTEND_TERMINAL:
		var term *frontend.Terminal
		term, err = frontend.NewTerminal(emu, cfg, beeper)
		if err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
		term.Verbose = verbose
		err = term.Run(context.Background())
	default:
		var window *frontend.Window
		window, err = frontend.NewWindow(emu, cfg, beeper)
		if err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
		window.Verbose = verbose
		window.Title = romFile
		err = window.Run()
	}

	if err != nil {
		if emu.Cpu.Fault != nil {
			log.Printf("%v: %v", romFile, err)
			fmt.Fprint(os.Stderr, emu.Cpu.String())
			beeper.Close()
			os.Exit(1)
		}
		log.Fatalf("%v: %v", romFile, err)
	}
}
