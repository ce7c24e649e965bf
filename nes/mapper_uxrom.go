package nes

import "github.com/golang/glog"

// uxrom implements mapper 2 (UxROM): https://www.nesdev.org/wiki/UxROM
// $8000-$BFFF is a switchable 16 KiB PRG bank; $C000-$FFFF is fixed to
// the last bank. CHR is always RAM (8 KiB).
type uxrom struct {
	banks       int
	currentBank int
	prgROM      []byte
	chrRAM      [0x2000]byte
	sram        [0x2000]byte
	mirroring   Mirroring

	loggedOOB bool
}

type uxromSnapshot struct {
	CurrentBank int
	CHRRAM      [0x2000]byte
	SRAM        [0x2000]byte
}

func newUxROM(cart *Cartridge) *uxrom {
	banks := len(cart.prgROM) / prgROMSizeUnit
	if banks == 0 {
		banks = 1
	}
	return &uxrom{banks: banks, prgROM: cart.prgROM, mirroring: cart.Mirroring}
}

func (m *uxrom) CPURead(addr uint16) byte {
	switch {
	case addr >= 0xC000:
		i := (m.banks-1)*prgROMSizeUnit + int(addr-0xC000)
		return m.prgROM[i]
	case addr >= 0x8000:
		i := m.currentBank*prgROMSizeUnit + int(addr-0x8000)
		return m.prgROM[i]
	case addr >= 0x6000:
		return m.sram[addr-0x6000]
	default:
		glog.V(1).Infof("uxrom: unmapped CPU read at 0x%04x", addr)
		return 0
	}
}

func (m *uxrom) CPUWrite(addr uint16, v byte) {
	switch {
	case addr >= 0x8000:
		m.currentBank = maskBankIndex(int(v), m.banks, &m.loggedOOB)
	case addr >= 0x6000:
		m.sram[addr-0x6000] = v
	default:
		glog.V(1).Infof("uxrom: unmapped CPU write at 0x%04x data=0x%02x", addr, v)
	}
}

func (m *uxrom) PPURead(addr uint16) byte {
	if addr < 0x2000 {
		return m.chrRAM[addr]
	}
	glog.V(1).Infof("uxrom: unmapped PPU read at 0x%04x", addr)
	return 0
}

func (m *uxrom) PPUWrite(addr uint16, v byte) {
	if addr < 0x2000 {
		m.chrRAM[addr] = v
		return
	}
	glog.V(1).Infof("uxrom: unmapped PPU write at 0x%04x data=0x%02x", addr, v)
}

func (m *uxrom) HasStep() bool                    { return false }
func (m *uxrom) Step(int, int, bool) bool         { return false }
func (m *uxrom) HasExtendedNametableMapping() bool { return false }
func (m *uxrom) Mirroring() Mirroring             { return m.mirroring }
func (m *uxrom) OnPPUCtrlWrite(byte)               {}
func (m *uxrom) OnPPUMaskWrite(byte)               {}
func (m *uxrom) OnPPUFetch(uint16, FetchKind)      {}
func (m *uxrom) IRQAsserted() bool                 { return false }

func (m *uxrom) Snapshot() MapperSnapshot {
	return MapperSnapshot{MapperID: 2, UxROM: &uxromSnapshot{
		CurrentBank: m.currentBank,
		CHRRAM:      m.chrRAM,
		SRAM:        m.sram,
	}}
}

func (m *uxrom) Restore(s MapperSnapshot) {
	if s.UxROM == nil {
		return
	}
	m.currentBank = s.UxROM.CurrentBank
	m.chrRAM = s.UxROM.CHRRAM
	m.sram = s.UxROM.SRAM
}
