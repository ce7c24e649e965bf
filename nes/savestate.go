package nes

import "fmt"

// saveStateVersion gates Restore against snapshots taken by an
// incompatible build (spec.md §6, §7). Bump whenever SaveState's shape
// changes.
const saveStateVersion = 1

// SaveState is the versioned, MD5-gated snapshot of every component
// (spec.md §6). It is the sole persisted artifact a host needs to
// resume a Console exactly where it left off; building and writing it
// to disk is the host's business, not the core's.
type SaveState struct {
	Version int
	MD5     [16]byte

	CPU         CPUSnapshot
	PPU         PPUSnapshot
	VRAM        [2048]byte
	WRAM        [2048]byte
	APU         APUSnapshot
	Mapper      MapperSnapshot
	Controller1 ControllerSnapshot
	Controller2 ControllerSnapshot

	CurrentFrame uint64
}

// Snapshot captures every component's state plus the loaded cartridge's
// MD5 as an identity key.
func (c *NesConsole) Snapshot() SaveState {
	return SaveState{
		Version:      saveStateVersion,
		MD5:          c.cart.MD5,
		CPU:          c.cpu.Snapshot(),
		PPU:          c.ppu.Snapshot(),
		VRAM:         c.ppu.bus.vram.Snapshot(),
		WRAM:         c.cpuBus.wram.Snapshot(),
		APU:          c.apu.Snapshot(),
		Mapper:       c.mapper.Snapshot(),
		Controller1:  c.controller1.Snapshot(),
		Controller2:  c.controller2.Snapshot(),
		CurrentFrame: c.currentFrame,
	}
}

// Restore reinstates a previously captured SaveState. A version or ROM
// mismatch is recoverable per spec.md §7: the Console is left running
// its current state and the error is returned for the host to report.
func (c *NesConsole) Restore(s SaveState) error {
	if s.Version != saveStateVersion {
		return &SaveStateError{Kind: UnsupportedVersion, Detail: fmt.Sprintf("got %d, want %d", s.Version, saveStateVersion)}
	}
	if s.MD5 != c.cart.MD5 {
		return &SaveStateError{Kind: MismatchedRom, Detail: fmt.Sprintf("got %x, want %x", s.MD5, c.cart.MD5)}
	}
	c.cpu.Restore(s.CPU)
	c.ppu.Restore(s.PPU)
	c.ppu.bus.vram.Restore(s.VRAM)
	c.cpuBus.wram.Restore(s.WRAM)
	c.apu.Restore(s.APU)
	c.mapper.Restore(s.Mapper)
	c.controller1.Restore(s.Controller1)
	c.controller2.Restore(s.Controller2)
	c.currentFrame = s.CurrentFrame
	c.lastFrame = s.CurrentFrame
	return nil
}
