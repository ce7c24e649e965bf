package nes

import "image"

type Console interface {
	Reset() error
	Step() (int, error)
	Frame() (*image.RGBA, bool)
	SetAudioOut(chan float32)
	SetButtons([8]bool)
	Snapshot() SaveState
	Restore(SaveState) error
}

type NesConsole struct {
	cart         *Cartridge
	mapper       Mapper
	cpu          *CPU
	cpuBus       *CPUBus
	ppu          *PPU
	apu          *APU
	controller1  *Controller
	controller2  *Controller
	lastFrame    uint64
	currentFrame uint64
	buffer       *image.RGBA
}

// NewConsole creates a console. If debug is true, this creates a debug console.
func NewConsole(cartridge *Cartridge, debug bool) (Console, error) {
	mapper, err := NewMapper(cartridge)
	if err != nil {
		return nil, err
	}
	controller1 := NewController()
	controller2 := NewController()
	ppuBus := NewPPUBus(NewRAM(), mapper)
	ppu := NewPPU(ppuBus)
	apu := NewAPU()
	cpuBus := NewCPUBus(NewRAM(), ppu, apu, mapper, controller1, controller2)
	cpu := NewCPU(cpuBus)
	cpuBus.AttachCPU(cpu)
	apu.SetMemReader(cpuBus.read)
	console := &NesConsole{
		cart:        cartridge,
		mapper:      mapper,
		cpu:         cpu,
		cpuBus:      cpuBus,
		ppu:         ppu,
		apu:         apu,
		controller1: controller1,
		controller2: controller2,
	}
	if debug {
		return &DebugConsole{NesConsole: console}, nil
	} else {
		return console, nil
	}
}

func (c *NesConsole) Reset() error {
	c.currentFrame = 0
	c.lastFrame = 0
	c.cpu.Reset()
	c.ppu.Reset()
	return nil
}

// Step executes one CPU instruction, driving the APU and PPU (at 1x
// and 3x the CPU rate respectively) for the cycles it consumed, and
// returns the cycle count.
func (c *NesConsole) Step() (int, error) {
	cycles := c.cpu.Step()
	for i := 0; i < cycles; i++ {
		c.apu.Step()
	}
	// PPU's clock is exactly 3x faster than CPU's
	for i := 0; i < cycles*3; i++ {
		nmi, err := c.ppu.Step()
		if err != nil {
			return cycles, err
		}
		if nmi {
			c.cpu.TriggerNMI()
		}
		ok, f := c.ppu.Frame()
		if ok {
			c.currentFrame++
			c.buffer = f
		}
	}
	return cycles, nil
}

// Frame returns a new frame.
func (c *NesConsole) Frame() (*image.RGBA, bool) {
	if c.lastFrame < c.currentFrame {
		c.lastFrame = c.currentFrame
		return c.buffer, true
	} else {
		return c.buffer, false
	}
}

func (c *NesConsole) SetAudioOut(channel chan float32) {
	c.apu.SetAudioOut(channel)
}

func (c *NesConsole) SetButtons(buttons [8]bool) {
	c.controller1.Set(buttons)
}
