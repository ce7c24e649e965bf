// Command goines is the desktop host adapter for the NES core: it reads
// a ROM from disk, builds a Console, and hands it to the GLFW/PortAudio
// frontend in ui. This binary is the thin collaborator spec.md §1 and
// §6 describe; nothing here is part of the emulator core itself.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/kvance/goines/nes"
	"github.com/kvance/goines/ui"
)

var (
	debug  = flag.Bool("debug", false, "run the stdio debug console instead of the GLFW window")
	width  = flag.Int("width", 256*3, "window width in pixels")
	height = flag.Int("height", 240*3, "window height in pixels")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 1 {
		glog.Exitln("usage: goines [flags] <rom.nes>")
	}
	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		glog.Exitf("failed to read ROM: %v", err)
	}
	cartridge, err := nes.NewCartridge(data)
	if err != nil {
		glog.Exitf("failed to load ROM: %v", err)
	}
	console, err := nes.NewConsole(cartridge, *debug)
	if err != nil {
		glog.Exitf("failed to build console: %v", err)
	}

	if *debug {
		for {
			if _, err := console.Step(); err != nil {
				glog.Exitln(err)
			}
		}
	}
	ui.Start(console, *width, *height)
}
