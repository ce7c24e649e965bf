package nes

import "github.com/golang/glog"

// mmc2 implements mapper 9 (PxROM/MMC2), spec.md §4.2. Its defining
// trick is CHR-latch banking: the two low-tile pattern addresses used
// to render the "tall enemy" tiles in Punch-Out!! silently flip a latch
// as a side effect of being fetched, swapping which of two candidate
// banks backs each 4 KiB CHR window.
type mmc2 struct {
	prgROM []byte
	chrROM []byte

	prgBanks    int
	currentPRG  int // 8 KiB window at $8000-$9FFF
	chrBanks1   [2]int
	chrBanks2   [2]int
	latch1      int // 0 or 1, selects chrBanks1 candidate for $0000-$0FFF
	latch2      int // 0 or 1, selects chrBanks2 candidate for $1000-$1FFF
	mirroring   Mirroring

	loggedOOB bool
}

type mmc2Snapshot struct {
	CurrentPRG int
	ChrBanks1  [2]int
	ChrBanks2  [2]int
	Latch1     int
	Latch2     int
	Mirroring  Mirroring
}

func newMMC2(cart *Cartridge) *mmc2 {
	prgBanks := len(cart.prgROM) / 0x2000 // 8 KiB PRG windows
	if prgBanks == 0 {
		prgBanks = 1
	}
	return &mmc2{
		prgROM:    cart.prgROM,
		chrROM:    cart.chrROM,
		prgBanks:  prgBanks,
		mirroring: cart.Mirroring,
	}
}

func (m *mmc2) CPURead(addr uint16) byte {
	switch {
	case addr >= 0xA000:
		// Fixed last 24 KiB: three 8 KiB windows from the end of PRG ROM.
		window := int(addr-0xA000) / 0x2000
		bank := m.prgBanks - 3 + window
		if bank < 0 {
			bank = 0
		}
		i := bank*0x2000 + int(addr-0xA000)%0x2000
		return m.prgROM[i%len(m.prgROM)]
	case addr >= 0x8000:
		i := m.currentPRG*0x2000 + int(addr-0x8000)
		return m.prgROM[i%len(m.prgROM)]
	default:
		glog.V(1).Infof("mmc2: unmapped CPU read at 0x%04x", addr)
		return 0
	}
}

func (m *mmc2) CPUWrite(addr uint16, v byte) {
	switch {
	case addr >= 0xF000:
		if v&1 == 0 {
			m.mirroring = MirrorVertical
		} else {
			m.mirroring = MirrorHorizontal
		}
	case addr >= 0xE000:
		m.chrBanks2[1] = maskBankIndex(int(v&0x1F), m.chrBankCount(), &m.loggedOOB)
	case addr >= 0xD000:
		m.chrBanks2[0] = maskBankIndex(int(v&0x1F), m.chrBankCount(), &m.loggedOOB)
	case addr >= 0xC000:
		m.chrBanks1[1] = maskBankIndex(int(v&0x1F), m.chrBankCount(), &m.loggedOOB)
	case addr >= 0xB000:
		m.chrBanks1[0] = maskBankIndex(int(v&0x1F), m.chrBankCount(), &m.loggedOOB)
	case addr >= 0xA000:
		m.currentPRG = maskBankIndex(int(v&0x0F), m.prgBanks, &m.loggedOOB)
	default:
		glog.V(1).Infof("mmc2: unmapped CPU write at 0x%04x data=0x%02x", addr, v)
	}
}

func (m *mmc2) chrBankCount() int {
	n := len(m.chrROM) / 0x1000 // 4 KiB CHR windows
	if n == 0 {
		return 1
	}
	return n
}

func (m *mmc2) PPURead(addr uint16) byte {
	switch {
	case addr < 0x1000:
		bank := m.chrBanks1[m.latch1]
		v := m.chrROM[(bank*0x1000+int(addr))%len(m.chrROM)]
		m.latchOnFetch(addr)
		return v
	case addr < 0x2000:
		bank := m.chrBanks2[m.latch2]
		v := m.chrROM[(bank*0x1000+int(addr-0x1000))%len(m.chrROM)]
		m.latchOnFetch(addr)
		return v
	default:
		glog.V(1).Infof("mmc2: unmapped PPU read at 0x%04x", addr)
		return 0
	}
}

// latchOnFetch updates the CHR latches as a side effect of a PPU read,
// strictly after the byte for this read has already been computed
// (spec.md §4.2: "the latch update happens after the read returns its
// byte").
func (m *mmc2) latchOnFetch(addr uint16) {
	switch {
	case addr >= 0x0FD8 && addr <= 0x0FDF:
		m.latch1 = 0
	case addr >= 0x0FE8 && addr <= 0x0FEF:
		m.latch1 = 1
	case addr >= 0x1FD8 && addr <= 0x1FDF:
		m.latch2 = 0
	case addr >= 0x1FE8 && addr <= 0x1FEF:
		m.latch2 = 1
	}
}

func (m *mmc2) PPUWrite(addr uint16, v byte) {
	glog.V(1).Infof("mmc2: write to CHR ROM ignored: addr=0x%04x data=0x%02x", addr, v)
}

// OnPPUFetch is the explicit PPU-fetch observer hook (spec.md §9). For
// MMC2 it does nothing: every pattern fetch goes through PPURead, which
// updates the latches itself via latchOnFetch.
func (m *mmc2) OnPPUFetch(addr uint16, kind FetchKind) {}

func (m *mmc2) HasStep() bool                     { return false }
func (m *mmc2) Step(int, int, bool) bool          { return false }
func (m *mmc2) HasExtendedNametableMapping() bool { return false }
func (m *mmc2) Mirroring() Mirroring              { return m.mirroring }
func (m *mmc2) OnPPUCtrlWrite(byte)               {}
func (m *mmc2) OnPPUMaskWrite(byte)               {}
func (m *mmc2) IRQAsserted() bool                 { return false }

func (m *mmc2) Snapshot() MapperSnapshot {
	return MapperSnapshot{MapperID: 9, MMC2: &mmc2Snapshot{
		CurrentPRG: m.currentPRG,
		ChrBanks1:  m.chrBanks1,
		ChrBanks2:  m.chrBanks2,
		Latch1:     m.latch1,
		Latch2:     m.latch2,
		Mirroring:  m.mirroring,
	}}
}

func (m *mmc2) Restore(s MapperSnapshot) {
	if s.MMC2 == nil {
		return
	}
	m.currentPRG = s.MMC2.CurrentPRG
	m.chrBanks1 = s.MMC2.ChrBanks1
	m.chrBanks2 = s.MMC2.ChrBanks2
	m.latch1 = s.MMC2.Latch1
	m.latch2 = s.MMC2.Latch2
	m.mirroring = s.MMC2.Mirroring
}
