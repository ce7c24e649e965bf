package nes

import "github.com/golang/glog"

// mmc5 implements mapper 5 (ExROM/MMC5), the most elaborate board in
// this family: independently configurable PRG/CHR banking granularity,
// a 1 KiB of extended RAM that can back a fifth nametable or an
// attribute-fill mode, per-quadrant nametable routing, and a
// scanline-counting IRQ used for split-screen effects.
//
// Vertical split mode: the $5200-$5202 registers are stored and carried
// in save states, but rendering does not use them; nametable fetches
// ignore the split whether or not it is enabled.
type mmc5 struct {
	prgROM []byte
	chrROM []byte
	prgRAM [0x10000]byte // up to 64 KiB of cartridge PRG-RAM, generously sized
	exRAM  [0x400]byte

	prgBanks8k int
	chrBanks1k int

	prgMode byte // 0-3
	chrMode byte // 0-3

	prgRAMProtect1 byte // $5102
	prgRAMProtect2 byte // $5103

	prgRegs [5]byte // $5113-$5117, bank index with the PRG-RAM/ROM select bit folded in for regs 1-4

	chrRegsA    [8]int // sprite ("A") CHR bank set, $5120-$5127
	chrRegsB    [4]int // background ("B") CHR bank set, $5128-$512B
	chrUpper    byte   // $5130, upper CHR bits latched for the next bank write
	lastChrSet  byte   // 0: A set was last written (use for 8x8 mode and sprite fetches), 1: B set

	exRAMMode byte    // $5104
	ntMode    [4]byte // $5105, 2 bits per nametable quadrant: 0/1=CIRAM, 2=ExRAM, 3=fill
	fillTile  byte    // $5106
	fillColor byte    // $5107

	splitEnabled bool // $5200
	splitSide    byte // 0: left of splitTile is the split region, 1: right
	splitTile    byte
	splitScroll  byte // $5201
	splitBank    byte // $5202

	irqScanline byte // $5203
	irqEnabled  bool // $5204 write
	irqPending  bool
	inFrame     bool
	scanline    int
	lastDot     int

	spriteSize16 bool // shadow of PPUCTRL bit 5
	renderingOn  bool // shadow of PPUMASK bg/sprite enable

	multiplicandA byte
	multiplicandB byte

	loggedOOB bool
}

type mmc5Snapshot struct {
	PRGRAM         [0x10000]byte
	ExRAM          [0x400]byte
	PRGMode        byte
	CHRMode        byte
	PRGRAMProtect1 byte
	PRGRAMProtect2 byte
	PRGRegs        [5]byte
	CHRRegsA       [8]int
	CHRRegsB       [4]int
	CHRUpper       byte
	LastCHRSet     byte
	ExRAMMode      byte
	NTMode         [4]byte
	FillTile       byte
	FillColor      byte
	SplitEnabled   bool
	SplitSide      byte
	SplitTile      byte
	SplitScroll    byte
	SplitBank      byte
	IRQScanline    byte
	IRQEnabled     bool
	IRQPending     bool
	InFrame        bool
	Scanline       int
	SpriteSize16   bool
	RenderingOn    bool
	MultiplicandA  byte
	MultiplicandB  byte
}

func newMMC5(cart *Cartridge) *mmc5 {
	prgBanks := len(cart.prgROM) / 0x2000
	if prgBanks == 0 {
		prgBanks = 1
	}
	chrBanks := len(cart.chrROM) / 0x400
	if chrBanks == 0 {
		chrBanks = 1
	}
	m := &mmc5{
		prgROM:     cart.prgROM,
		chrROM:     cart.chrROM,
		prgBanks8k: prgBanks,
		chrBanks1k: chrBanks,
		prgMode:    3,
		chrMode:    3,
		lastDot:    -1,
	}
	// Reset state: $8000-$FFFF defaults to the last PRG-ROM banks so a
	// cart boots through its own reset vector before title-screen code
	// reprograms the banking registers.
	for i := range m.prgRegs {
		m.prgRegs[i] = 0xFF
	}
	return m
}

func (m *mmc5) chrBankCount() int {
	if m.chrBanks1k == 0 {
		return 1
	}
	return m.chrBanks1k
}

// --- CPU address space ---

func (m *mmc5) CPURead(addr uint16) byte {
	switch {
	case addr >= 0xE000: // PRG mode 3 fixed high bank in every mode
		bank := m.prgBanks8k - 1
		return m.prgROM[(bank*0x2000+int(addr-0xE000))%len(m.prgROM)]
	case addr >= 0x8000:
		return m.readPRGWindow(addr)
	case addr >= 0x6000:
		return m.prgRAM[addr-0x6000]
	case addr == 0x5204:
		return m.readIRQStatus()
	case addr == 0x5205:
		return byte(uint16(m.multiplicandA) * uint16(m.multiplicandB))
	case addr == 0x5206:
		return byte((uint16(m.multiplicandA) * uint16(m.multiplicandB)) >> 8)
	case addr >= 0x5C00 && addr <= 0x5FFF:
		return m.exRAM[addr-0x5C00]
	default:
		glog.V(1).Infof("mmc5: unmapped CPU read at 0x%04x", addr)
		return 0
	}
}

// readPRGWindow implements the four PRG banking modes (spec.md §4.2):
// mode 0 is one 32 KiB window, mode 1 two 16 KiB windows, mode 2 one
// 16 KiB + two 8 KiB, mode 3 four 8 KiB windows. The 8 KiB slots driven
// by $5114-$5116 (mode 3) and $5116 (mode 2, $C000-$DFFF) select
// PRG-RAM instead of ROM when the register's top bit is clear; the
// 16/32 KiB windows and $E000-$FFFF always read ROM.
func (m *mmc5) readPRGWindow(addr uint16) byte {
	offset := int(addr - 0x8000)
	switch m.prgMode {
	case 0:
		bank := int(m.prgRegs[4]&0x7F) >> 2
		return m.readPRGBank(bank*4, offset, 0x8000)
	case 1:
		if addr < 0xC000 {
			bank := int(m.prgRegs[2]&0x7F) >> 1
			return m.readPRGBank(bank*2, offset, 0x8000)
		}
		bank := int(m.prgRegs[4]&0x7F) >> 1
		return m.readPRGBank(bank*2, offset-0x4000, 0x8000)
	case 2:
		switch {
		case addr < 0xC000:
			bank := int(m.prgRegs[2]&0x7F) >> 1
			return m.readPRGBank(bank*2, offset, 0x8000)
		case addr < 0xE000:
			return m.readPRGRegBank(3, offset-0x4000)
		default:
			return m.readPRGRegBank(4, offset-0x6000)
		}
	default: // mode 3: four independent 8 KiB windows
		reg := 1 + offset/0x2000
		return m.readPRGRegBank(reg, offset%0x2000)
	}
}

func (m *mmc5) readPRGBank(bank8k, offset, base int) byte {
	if bank8k < 0 {
		bank8k = 0
	}
	i := bank8k*0x2000 + offset
	if len(m.prgROM) == 0 {
		return 0
	}
	return m.prgROM[i%len(m.prgROM)]
}

// readPRGRegBank reads through one of $5113-$5117's 8 KiB bank
// registers; when the register's top bit is clear and it's not the
// fixed-ROM register (4), it selects PRG-RAM instead.
func (m *mmc5) readPRGRegBank(reg int, offset int) byte {
	v := m.prgRegs[reg]
	if reg != 4 && v&0x80 == 0 {
		ramBank := int(v & 0x7F)
		i := (ramBank*0x2000 + offset) % len(m.prgRAM)
		return m.prgRAM[i]
	}
	bank := int(v & 0x7F)
	return m.readPRGBank(bank, offset, 0x8000)
}

func (m *mmc5) CPUWrite(addr uint16, v byte) {
	switch {
	case addr >= 0x8000:
		m.writePRGRAMThroughWindow(addr, v)
	case addr >= 0x6000:
		if m.prgRAMWritable() {
			m.prgRAM[addr-0x6000] = v
		}
	case addr == 0x5100:
		m.prgMode = v & 3
	case addr == 0x5101:
		m.chrMode = v & 3
	case addr == 0x5102:
		m.prgRAMProtect1 = v & 3
	case addr == 0x5103:
		m.prgRAMProtect2 = v & 3
	case addr == 0x5104:
		m.exRAMMode = v & 3
	case addr == 0x5105:
		for q := 0; q < 4; q++ {
			m.ntMode[q] = (v >> (uint(q) * 2)) & 3
		}
	case addr == 0x5106:
		m.fillTile = v
	case addr == 0x5107:
		m.fillColor = v & 3
	case addr >= 0x5113 && addr <= 0x5117:
		m.prgRegs[addr-0x5113] = v
	case addr >= 0x5120 && addr <= 0x5127:
		m.chrRegsA[addr-0x5120] = maskBankIndex(int(v)|int(m.chrUpper)<<8, m.chrBankCount(), &m.loggedOOB)
		m.lastChrSet = 0
	case addr >= 0x5128 && addr <= 0x512B:
		m.chrRegsB[addr-0x5128] = maskBankIndex(int(v)|int(m.chrUpper)<<8, m.chrBankCount(), &m.loggedOOB)
		m.lastChrSet = 1
	case addr == 0x5130:
		m.chrUpper = v & 3
	case addr == 0x5200:
		m.splitEnabled = v&0x80 != 0
		m.splitSide = v >> 6 & 1
		m.splitTile = v & 0x1F
	case addr == 0x5201:
		m.splitScroll = v
	case addr == 0x5202:
		m.splitBank = v
	case addr == 0x5203:
		m.irqScanline = v
	case addr == 0x5204:
		m.irqEnabled = v&0x80 != 0
	case addr == 0x5205:
		m.multiplicandA = v
	case addr == 0x5206:
		m.multiplicandB = v
	case addr >= 0x5C00 && addr <= 0x5FFF:
		if m.exRAMMode != 3 { // mode 3 is read-only to the CPU
			m.exRAM[addr-0x5C00] = v
		}
	default:
		glog.V(1).Infof("mmc5: unmapped CPU write at 0x%04x data=0x%02x", addr, v)
	}
}

// prgRAMWritable reproduces MMC5's two-register write-protect gate:
// both $5102==0b10 and $5103==0b01 must hold.
func (m *mmc5) prgRAMWritable() bool {
	return m.prgRAMProtect1 == 0x02 && m.prgRAMProtect2 == 0x01
}

func (m *mmc5) writePRGRAMThroughWindow(addr uint16, v byte) {
	if m.prgMode != 3 {
		return // $8000-$DFFF is ROM-only outside mode 3's last RAM-capable slot
	}
	offset := int(addr - 0x8000)
	reg := 1 + offset/0x2000
	if reg == 4 {
		return // reg 4 ($E000-$FFFF in mode 3) is always ROM
	}
	if m.prgRegs[reg]&0x80 != 0 || !m.prgRAMWritable() {
		return
	}
	ramBank := int(m.prgRegs[reg] & 0x7F)
	i := (ramBank*0x2000 + offset%0x2000) % len(m.prgRAM)
	m.prgRAM[i] = v
}

// --- PPU address space ---

func (m *mmc5) PPURead(addr uint16) byte {
	if addr < 0x2000 {
		bank := m.chrBankFor(addr)
		i := (bank*0x400 + int(addr%0x400)) % len(m.chrROM)
		if len(m.chrROM) == 0 {
			return 0
		}
		return m.chrROM[i]
	}
	return m.ppuNametableRead(addr)
}

// chrBankFor resolves a PPU pattern-table address through the active
// CHR set (A for 8x16 sprites or when sprites are the only user of the
// last-written set, B for background) and mode. Within a window the
// last bank register covering it gives that window's base bank index;
// this drops real hardware's per-register offset-subtraction quirk for
// the within-window 1 KiB granularity, which only matters when a game
// writes mismatched bank numbers across one window's registers.
func (m *mmc5) chrBankFor(addr uint16) int {
	useA := m.spriteSize16 || m.lastChrSet == 0
	regs := m.chrRegsB[:]
	if useA {
		regs = m.chrRegsA[:]
	}
	var windowSize1k int
	switch m.chrMode {
	case 0:
		windowSize1k = 8
	case 1:
		windowSize1k = 4
	case 2:
		windowSize1k = 2
	default:
		windowSize1k = 1
	}
	windowIndex := int(addr) / (windowSize1k * 0x400)
	regIndex := (windowIndex+1)*windowSize1k - 1
	if regIndex >= len(regs) {
		regIndex %= len(regs)
	}
	offsetWithin1k := (int(addr) % (windowSize1k * 0x400)) / 0x400
	return regs[regIndex] + offsetWithin1k
}

func (m *mmc5) ppuNametableRead(addr uint16) byte {
	quadrant := (addr - 0x2000) / 0x400
	offset := (addr - 0x2000) % 0x400
	switch m.ntMode[quadrant] {
	case 2: // ExRAM
		return m.exRAM[offset%0x400]
	case 3: // fill mode
		if offset < 0x3C0 {
			return m.fillTile
		}
		return m.fillColor * 0x55 // replicate 2-bit color into all 4 attribute slots
	default:
		glog.V(1).Infof("mmc5: nametable read routed to internal CIRAM bank %d, PPU owns storage", m.ntMode[quadrant])
		return 0
	}
}

func (m *mmc5) PPUWrite(addr uint16, v byte) {
	if addr < 0x2000 {
		glog.V(1).Infof("mmc5: write to CHR ROM ignored: addr=0x%04x data=0x%02x", addr, v)
		return
	}
	quadrant := (addr - 0x2000) / 0x400
	offset := (addr - 0x2000) % 0x400
	if m.ntMode[quadrant] == 2 {
		m.exRAM[offset%0x400] = v
	}
}

func (m *mmc5) HasExtendedNametableMapping() bool { return true }

// Mirroring is meaningless once HasExtendedNametableMapping is true;
// MMC5 never needs the PPU's own 2-nametable folding.
func (m *mmc5) Mirroring() Mirroring { return MirrorFourScreen }

func (m *mmc5) OnPPUCtrlWrite(v byte) {
	m.spriteSize16 = v&0x20 != 0
}

func (m *mmc5) OnPPUMaskWrite(v byte) {
	m.renderingOn = v&0x18 != 0
}

func (m *mmc5) OnPPUFetch(addr uint16, kind FetchKind) {
	switch kind {
	case FetchSpritePattern:
		m.lastChrSet = 0
	case FetchBackgroundPattern:
		m.lastChrSet = 1
	}
}

// --- Scanline IRQ ---

func (m *mmc5) HasStep() bool { return true }

// Step tracks PPU scanlines via the dot stream the PPU drives it with,
// since MMC5 hardware actually counts PPU address-line toggles rather
// than scanlines directly; this dot-driven approximation produces the
// same per-scanline edge without needing A12 plumbing through the PPU.
func (m *mmc5) Step(scanline, dot int, renderingEnabled bool) bool {
	if !renderingEnabled {
		m.inFrame = false
		return m.irqPending && m.irqEnabled
	}
	if scanline == 261 && dot == 1 {
		m.inFrame = false
		m.lastDot = -1
	}
	if dot == 1 && scanline != m.lastDot && scanline >= 0 && scanline < 240 {
		m.lastDot = scanline
		m.scanline = scanline
		if !m.inFrame {
			m.inFrame = true
		} else if scanline == int(m.irqScanline) {
			m.irqPending = true
		}
	}
	return m.irqPending && m.irqEnabled
}

func (m *mmc5) readIRQStatus() byte {
	var res byte
	if m.irqPending {
		res |= 0x80
	}
	if m.inFrame {
		res |= 0x40
	}
	m.irqPending = false
	return res
}

func (m *mmc5) IRQAsserted() bool {
	return m.irqPending && m.irqEnabled
}

// --- Save state ---

func (m *mmc5) Snapshot() MapperSnapshot {
	return MapperSnapshot{MapperID: 5, MMC5: &mmc5Snapshot{
		PRGRAM:         m.prgRAM,
		ExRAM:          m.exRAM,
		PRGMode:        m.prgMode,
		CHRMode:        m.chrMode,
		PRGRAMProtect1: m.prgRAMProtect1,
		PRGRAMProtect2: m.prgRAMProtect2,
		PRGRegs:        m.prgRegs,
		CHRRegsA:       m.chrRegsA,
		CHRRegsB:       m.chrRegsB,
		CHRUpper:       m.chrUpper,
		LastCHRSet:     m.lastChrSet,
		ExRAMMode:      m.exRAMMode,
		NTMode:         m.ntMode,
		FillTile:       m.fillTile,
		FillColor:      m.fillColor,
		SplitEnabled:   m.splitEnabled,
		SplitSide:      m.splitSide,
		SplitTile:      m.splitTile,
		SplitScroll:    m.splitScroll,
		SplitBank:      m.splitBank,
		IRQScanline:    m.irqScanline,
		IRQEnabled:     m.irqEnabled,
		IRQPending:     m.irqPending,
		InFrame:        m.inFrame,
		Scanline:       m.scanline,
		SpriteSize16:   m.spriteSize16,
		RenderingOn:    m.renderingOn,
		MultiplicandA:  m.multiplicandA,
		MultiplicandB:  m.multiplicandB,
	}}
}

func (m *mmc5) Restore(s MapperSnapshot) {
	if s.MMC5 == nil {
		return
	}
	d := s.MMC5
	m.prgRAM = d.PRGRAM
	m.exRAM = d.ExRAM
	m.prgMode = d.PRGMode
	m.chrMode = d.CHRMode
	m.prgRAMProtect1 = d.PRGRAMProtect1
	m.prgRAMProtect2 = d.PRGRAMProtect2
	m.prgRegs = d.PRGRegs
	m.chrRegsA = d.CHRRegsA
	m.chrRegsB = d.CHRRegsB
	m.chrUpper = d.CHRUpper
	m.lastChrSet = d.LastCHRSet
	m.exRAMMode = d.ExRAMMode
	m.ntMode = d.NTMode
	m.fillTile = d.FillTile
	m.fillColor = d.FillColor
	m.splitEnabled = d.SplitEnabled
	m.splitSide = d.SplitSide
	m.splitTile = d.SplitTile
	m.splitScroll = d.SplitScroll
	m.splitBank = d.SplitBank
	m.irqScanline = d.IRQScanline
	m.irqEnabled = d.IRQEnabled
	m.irqPending = d.IRQPending
	m.inFrame = d.InFrame
	m.scanline = d.Scanline
	m.spriteSize16 = d.SpriteSize16
	m.renderingOn = d.RenderingOn
	m.multiplicandA = d.MultiplicandA
	m.multiplicandB = d.MultiplicandB
}
