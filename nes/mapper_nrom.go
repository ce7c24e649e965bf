package nes

import "github.com/golang/glog"

// nrom implements mapper 0 (NROM): https://www.nesdev.org/wiki/NROM
// No banking at all: PRG is 16 or 32 KiB mirrored as needed, CHR is a
// single fixed 8 KiB bank (ROM or RAM).
type nrom struct {
	prgROM    []byte
	chrROM    []byte
	chrIsRAM  bool
	mirroring Mirroring
	sram      [0x2000]byte
}

type nromSnapshot struct {
	SRAM [0x2000]byte
}

func newNROM(cart *Cartridge) *nrom {
	return &nrom{prgROM: cart.prgROM, chrROM: cart.chrROM, chrIsRAM: cart.chrIsRAM, mirroring: cart.Mirroring}
}

func (m *nrom) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000:
		mod := uint16(len(m.prgROM))
		return m.prgROM[(addr-0x8000)%mod]
	case addr >= 0x6000:
		return m.sram[addr-0x6000]
	default:
		glog.V(1).Infof("nrom: unmapped CPU read at 0x%04x", addr)
		return 0
	}
}

func (m *nrom) CPUWrite(addr uint16, v byte) {
	switch {
	case addr >= 0x8000:
		glog.V(1).Infof("nrom: write to PRG ROM ignored: addr=0x%04x data=0x%02x", addr, v)
	case addr >= 0x6000:
		m.sram[addr-0x6000] = v
	default:
		glog.V(1).Infof("nrom: unmapped CPU write at 0x%04x", addr)
	}
}

func (m *nrom) PPURead(addr uint16) byte {
	if addr < 0x2000 {
		return m.chrROM[addr]
	}
	glog.V(1).Infof("nrom: unmapped PPU read at 0x%04x", addr)
	return 0
}

func (m *nrom) PPUWrite(addr uint16, v byte) {
	if addr < 0x2000 && m.chrIsRAM {
		m.chrROM[addr] = v
		return
	}
	glog.V(1).Infof("nrom: write to CHR ROM ignored: addr=0x%04x data=0x%02x", addr, v)
}

func (m *nrom) HasStep() bool                     { return false }
func (m *nrom) Step(int, int, bool) bool          { return false }
func (m *nrom) HasExtendedNametableMapping() bool { return false }
func (m *nrom) Mirroring() Mirroring              { return m.mirroring }
func (m *nrom) OnPPUCtrlWrite(byte)                {}
func (m *nrom) OnPPUMaskWrite(byte)                {}
func (m *nrom) OnPPUFetch(uint16, FetchKind)       {}
func (m *nrom) IRQAsserted() bool                  { return false }

func (m *nrom) Snapshot() MapperSnapshot {
	return MapperSnapshot{MapperID: 0, NROM: &nromSnapshot{SRAM: m.sram}}
}

func (m *nrom) Restore(s MapperSnapshot) {
	if s.NROM == nil {
		return
	}
	m.sram = s.NROM.SRAM
}
