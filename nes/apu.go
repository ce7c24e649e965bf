package nes

// APU synthesizes the NES's 5-channel audio: two pulse channels, a
// triangle channel, a noise channel, and a DMC sample player, mixed
// with the nonlinear formula real hardware uses and down-sampled to a
// fixed host sample rate with a fractional accumulator.
// References:
//   https://www.nesdev.org/wiki/APU
//   https://www.nesdev.org/wiki/APU_Mixer

const (
	apuSampleRate  = 44100
	cpuClockHz     = CPUFrequency
)

var lengthTable = [32]byte{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

type APU struct {
	pulse1   pulseChannel
	pulse2   pulseChannel
	triangle triangleChannel
	noise    noiseChannel
	dmc      dmcChannel

	frameMode      byte // 0: 4-step, 1: 5-step
	frameIRQInhibit bool
	frameIRQ       bool
	frameStep      int
	frameCounter   int

	out           chan float32
	cycles        uint64
	resampleError float64

	memRead func(uint16) byte
}

func NewAPU() *APU {
	a := &APU{}
	a.pulse1.sweepOnesComplement = true
	a.noise = newNoiseChannel()
	a.dmc.bitsRemaining = 8
	a.dmc.silence = true
	return a
}

// SetMemReader wires the DMC channel's sample fetch to the CPU's
// address space (spec.md §9: DMC DMA reads through the CPU bus).
func (a *APU) SetMemReader(f func(uint16) byte) {
	a.memRead = f
	a.dmc.memRead = f
}

func (a *APU) SetAudioOut(c chan float32) { a.out = c }

func (a *APU) IRQAsserted() bool {
	return a.frameIRQ || a.dmc.irq
}

// writeRegister dispatches a CPU-bus write in the $4000-$4017 APU
// range (excluding $4014/$4016 which CPUBus handles itself).
func (a *APU) writeRegister(address uint16, data byte) {
	switch {
	case address <= 0x4003:
		a.pulse1.write(address-0x4000, data)
	case address <= 0x4007:
		a.pulse2.write(address-0x4004, data)
	case address <= 0x400B:
		a.triangle.write(address-0x4008, data)
	case address <= 0x400F:
		a.noise.write(address-0x400C, data)
	case address <= 0x4013:
		a.dmc.write(address-0x4010, data)
	case address == 0x4015:
		a.writeStatus(data)
	case address == 0x4017:
		a.frameMode = data >> 7 & 1
		a.frameIRQInhibit = data&0x40 != 0
		if a.frameIRQInhibit {
			a.frameIRQ = false
		}
		a.frameStep = 0
		a.frameCounter = 0
		if a.frameMode == 1 {
			a.clockQuarterFrame()
			a.clockHalfFrame()
		}
	}
}

func (a *APU) writeStatus(data byte) {
	a.pulse1.enabled = data&1 != 0
	a.pulse2.enabled = data&2 != 0
	a.triangle.enabled = data&4 != 0
	a.noise.enabled = data&8 != 0
	a.dmc.enabled = data&16 != 0
	if !a.pulse1.enabled {
		a.pulse1.lengthCounter = 0
	}
	if !a.pulse2.enabled {
		a.pulse2.lengthCounter = 0
	}
	if !a.triangle.enabled {
		a.triangle.lengthCounter = 0
	}
	if !a.noise.enabled {
		a.noise.lengthCounter = 0
	}
	a.dmc.irq = false
	if a.dmc.enabled {
		if a.dmc.bytesRemaining == 0 {
			a.dmc.restart()
		}
	} else {
		a.dmc.bytesRemaining = 0
	}
}

func (a *APU) readStatus() byte {
	var res byte
	if a.pulse1.lengthCounter > 0 {
		res |= 1
	}
	if a.pulse2.lengthCounter > 0 {
		res |= 2
	}
	if a.triangle.lengthCounter > 0 {
		res |= 4
	}
	if a.noise.lengthCounter > 0 {
		res |= 8
	}
	if a.dmc.bytesRemaining > 0 {
		res |= 16
	}
	if a.frameIRQ {
		res |= 0x40
	}
	if a.dmc.irq {
		res |= 0x80
	}
	a.frameIRQ = false
	return res
}

func (a *APU) clockQuarterFrame() {
	a.pulse1.clockEnvelope()
	a.pulse2.clockEnvelope()
	a.triangle.clockLinearCounter()
	a.noise.clockEnvelope()
}

func (a *APU) clockHalfFrame() {
	a.pulse1.clockLengthAndSweep()
	a.pulse2.clockLengthAndSweep()
	a.triangle.clockLength()
	a.noise.clockLength()
}

// frameSequencerTicks are CPU-cycle marks for the 4-step and 5-step
// sequences (values in CPU cycles, i.e. twice the APU's internal
// half-cycle clock).
var frameSequencerTicks4 = [4]int{7457, 14913, 22371, 29829}
var frameSequencerTicks5 = [5]int{7457, 14913, 22371, 29829, 37281}

// Step advances the APU by one CPU cycle: it ticks the frame sequencer,
// every channel's timer, and emits a down-sampled stereo pair to the
// audio-out channel when enough CPU cycles have accumulated for the
// next host sample.
func (a *APU) Step() {
	a.cycles++
	a.frameCounter++

	ticks := frameSequencerTicks4[:]
	fiveStep := a.frameMode == 1
	if fiveStep {
		ticks = frameSequencerTicks5[:]
	}
	if a.frameStep < len(ticks) && a.frameCounter >= ticks[a.frameStep] {
		isHalf := a.frameStep%2 == 1
		if fiveStep {
			isHalf = a.frameStep == 1 || a.frameStep == 4
		}
		a.clockQuarterFrame()
		if isHalf {
			a.clockHalfFrame()
		}
		if !fiveStep && a.frameStep == 3 && !a.frameIRQInhibit {
			a.frameIRQ = true
		}
		a.frameStep++
		if a.frameStep >= len(ticks) {
			a.frameStep = 0
			a.frameCounter = 0
		}
	}

	// Pulse/noise/DMC timers tick every CPU cycle (internally divided
	// by 2); the triangle's timer ticks every CPU cycle undivided.
	if a.cycles%2 == 0 {
		a.pulse1.clockTimer()
		a.pulse2.clockTimer()
		a.noise.clockTimer()
		a.dmc.clockTimer()
	}
	a.triangle.clockTimer()

	a.resampleError += float64(apuSampleRate)
	if a.resampleError >= float64(cpuClockHz) {
		a.resampleError -= float64(cpuClockHz)
		a.emitSample()
	}
}

// mix combines channel outputs with the nonlinear APU mixer formula.
func (a *APU) mix() float32 {
	p1 := float64(a.pulse1.output())
	p2 := float64(a.pulse2.output())
	t := float64(a.triangle.output())
	n := float64(a.noise.output())
	d := float64(a.dmc.output())

	var pulseOut float64
	if p1+p2 > 0 {
		pulseOut = 95.88 / (8128.0/(p1+p2) + 100.0)
	}
	var tndOut float64
	tnd := t/8227.0 + n/12241.0 + d/22638.0
	if tnd > 0 {
		tndOut = 159.79 / (1.0/tnd + 100.0)
	}
	return float32(pulseOut + tndOut)
}

func (a *APU) emitSample() {
	sample := a.mix()
	if a.out == nil {
		return
	}
	select {
	case a.out <- sample: // left
	default:
	}
	select {
	case a.out <- sample: // right
	default:
	}
}

// APUSnapshot is the save-state shape of every channel plus the frame
// sequencer. The audio-out channel and memory-read callback are
// runtime wiring, not state, and are left untouched by Restore.
type APUSnapshot struct {
	Pulse1, Pulse2 pulseChannel
	Triangle       triangleChannel
	Noise          noiseChannel
	DMC            dmcChannel

	FrameMode       byte
	FrameIRQInhibit bool
	FrameIRQ        bool
	FrameStep       int
	FrameCounter    int

	Cycles        uint64
	ResampleError float64
}

func (a *APU) Snapshot() APUSnapshot {
	dmc := a.dmc
	dmc.memRead = nil
	return APUSnapshot{
		Pulse1:          a.pulse1,
		Pulse2:          a.pulse2,
		Triangle:        a.triangle,
		Noise:           a.noise,
		DMC:             dmc,
		FrameMode:       a.frameMode,
		FrameIRQInhibit: a.frameIRQInhibit,
		FrameIRQ:        a.frameIRQ,
		FrameStep:       a.frameStep,
		FrameCounter:    a.frameCounter,
		Cycles:          a.cycles,
		ResampleError:   a.resampleError,
	}
}

func (a *APU) Restore(s APUSnapshot) {
	memRead := a.dmc.memRead
	a.pulse1, a.pulse2, a.triangle, a.noise = s.Pulse1, s.Pulse2, s.Triangle, s.Noise
	a.dmc = s.DMC
	a.dmc.memRead = memRead
	a.frameMode = s.FrameMode
	a.frameIRQInhibit = s.FrameIRQInhibit
	a.frameIRQ = s.FrameIRQ
	a.frameStep = s.FrameStep
	a.frameCounter = s.FrameCounter
	a.cycles = s.Cycles
	a.resampleError = s.ResampleError
}
