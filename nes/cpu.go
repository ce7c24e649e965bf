package nes

// CPU emulates the NES's 6502-derived CPU (decimal mode is wired but
// permanently disabled, as on real NES hardware).
// References:
//   https://en.wikipedia.org/wiki/MOS_Technology_6502
//   http://www.6502.org/tutorials/6502opcodes.html
//   http://hp.vector.co.jp/authors/VA042397/nes/6502.html (In Japanese)

const CPUFrequency = 1789773

type addressingMode int

const (
	implied addressingMode = iota
	accumulator
	immediate
	zeropage
	zeropageX
	zeropageY
	relative
	absolute
	absoluteX
	absoluteY
	indirect
	indirectX
	indirectY
)

type status struct {
	C bool // carry
	Z bool // zero
	I bool // IRQ disable
	D bool // decimal - unused on NES, wired but inert
	B bool // break
	R bool // reserved - always set
	V bool // overflow
	N bool // negative
}

func (s *status) encode() byte {
	var res byte
	if s.C {
		res |= 1 << 0
	}
	if s.Z {
		res |= 1 << 1
	}
	if s.I {
		res |= 1 << 2
	}
	if s.D {
		res |= 1 << 3
	}
	if s.B {
		res |= 1 << 4
	}
	if s.R {
		res |= 1 << 5
	}
	if s.V {
		res |= 1 << 6
	}
	if s.N {
		res |= 1 << 7
	}
	return res
}

func (s *status) decodeFrom(data byte) {
	s.C = (data>>0)&1 == 1
	s.Z = (data>>1)&1 == 1
	s.I = (data>>2)&1 == 1
	s.D = (data>>3)&1 == 1
	s.B = (data>>4)&1 == 1
	s.R = (data>>5)&1 == 1
	s.V = (data>>6)&1 == 1
	s.N = (data>>7)&1 == 1
}

// CPU holds 6502 register state and the bus it executes against.
type CPU struct {
	P  status
	A  byte
	X  byte
	Y  byte
	PC uint16
	S  byte

	cycles uint64
	stall  int // cycles owed to OAMDMA, consumed before fetch

	nmiPending bool // edge-latched by the PPU at vblank start

	bus           *CPUBus
	instructions  []instruction
	lastExecution string // for debug tooling
}

type instruction struct {
	mnemonic       string
	mode           addressingMode
	execute        func(addressingMode, uint16)
	size           uint16
	cycles         int
	pageCrossExtra bool // legal read instructions: +1 cycle if effective address crosses a page
}

// NewCPU creates a CPU wired to bus and performs RESET.
func NewCPU(bus *CPUBus) *CPU {
	c := &CPU{bus: bus}
	c.instructions = c.createInstructions()
	c.Reset()
	return c
}

// Reset performs the RESET sequence: PC is loaded from the reset
// vector, S is set as if three bytes were pushed (nothing is actually
// written), and interrupts are disabled.
func (c *CPU) Reset() {
	c.PC = c.bus.read16(0xFFFC)
	c.S = 0xFD
	c.P.decodeFrom(0x24)
}

// TriggerNMI is called by the PPU on the vblank-start edge when NMI
// output is enabled in PPUCTRL.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// RequestOAMDMA performs the 256-byte OAM DMA transfer and arms the CPU
// stall (513 cycles, 514 if the current cycle is odd — spec.md §4.4).
func (c *CPU) RequestOAMDMA(page byte) {
	var data [256]byte
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		data[i] = c.bus.read(base + uint16(i))
	}
	c.bus.writeOAMDMA(data)
	c.stall += 513
	if c.cycles%2 == 1 {
		c.stall++
	}
}

func (c *CPU) setN(x byte) { c.P.N = x&0x80 != 0 }
func (c *CPU) setZ(x byte) { c.P.Z = x == 0 }

func (c *CPU) push(x byte) {
	c.bus.write(0x100|uint16(c.S), x)
	c.S--
}

func (c *CPU) pop() byte {
	c.S++
	return c.bus.read(0x100 | uint16(c.S))
}

func pagesDiffer(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// Step executes either one stall cycle, one interrupt service, or one
// instruction, and returns the number of CPU cycles consumed. NMI takes
// priority over IRQ; IRQ only fires while the I flag is clear and the
// bus reports its level-triggered line asserted (wired-OR of the
// mapper's scanline IRQ and the APU frame/DMC IRQs, spec.md §4.4/§9).
func (c *CPU) Step() int {
	if c.stall > 0 {
		c.stall--
		c.cycles++
		return 1
	}
	if c.nmiPending {
		c.serviceInterrupt(0xFFFA, false)
		c.nmiPending = false
		c.cycles += 7
		return 7
	}
	if c.bus.IRQAsserted() && !c.P.I {
		c.serviceInterrupt(0xFFFE, false)
		c.cycles += 7
		return 7
	}
	return c.executeOne()
}

// serviceInterrupt pushes PC and status and jumps through vector. brk
// distinguishes BRK (sets B in the pushed copy) from hardware NMI/IRQ
// (clears it); it never reaches the CPU's own live status flags.
func (c *CPU) serviceInterrupt(vector uint16, brk bool) {
	c.push(byte(c.PC >> 8))
	c.push(byte(c.PC & 0xFF))
	saved := c.P
	saved.B = brk
	saved.R = true
	c.push(saved.encode())
	c.P.I = true
	c.PC = c.bus.read16(vector)
}

func (c *CPU) executeOne() int {
	opcode := c.bus.read(c.PC)
	inst := c.instructions[opcode]
	operand, crossed := c.resolveOperand(inst.mode)
	c.PC += inst.size
	cycles := inst.cycles
	if inst.pageCrossExtra && crossed {
		cycles++
	}
	c.lastExecution = c.debugLine(opcode, inst, operand)
	before := c.PC
	inst.execute(inst.mode, operand)
	if inst.mode == relative && c.PC != before {
		cycles++ // branch taken
		if pagesDiffer(before, c.PC) {
			cycles++ // taken branch that also crosses a page
		}
	}
	c.cycles += uint64(cycles)
	return cycles
}

// resolveOperand computes the effective address (or immediate operand
// address) for an addressing mode, and reports whether computing it
// crossed a page boundary.
func (c *CPU) resolveOperand(mode addressingMode) (uint16, bool) {
	switch mode {
	case implied, accumulator:
		return 0, false
	case immediate:
		return c.PC + 1, false
	case zeropage:
		return uint16(c.bus.read(c.PC + 1)), false
	case zeropageX:
		return uint16(c.bus.read(c.PC+1) + c.X), false
	case zeropageY:
		return uint16(c.bus.read(c.PC+1) + c.Y), false
	case relative:
		offset := c.bus.read(c.PC + 1)
		base := c.PC + 2
		var target uint16
		if offset < 0x80 {
			target = base + uint16(offset)
		} else {
			target = base + uint16(offset) - 0x100
		}
		return target, false
	case absolute:
		return c.bus.read16(c.PC + 1), false
	case absoluteX:
		base := c.bus.read16(c.PC + 1)
		target := base + uint16(c.X)
		return target, pagesDiffer(base, target)
	case absoluteY:
		base := c.bus.read16(c.PC + 1)
		target := base + uint16(c.Y)
		return target, pagesDiffer(base, target)
	case indirect:
		ptr := c.bus.read16(c.PC + 1)
		return c.read16Bug(ptr), false
	case indirectX:
		base := c.bus.read(c.PC+1) + c.X
		lo := uint16(c.bus.read(uint16(base)))
		hi := uint16(c.bus.read(uint16(base + 1)))
		return hi<<8 | lo, false
	case indirectY:
		base := c.bus.read(c.PC + 1)
		lo := uint16(c.bus.read(uint16(base)))
		hi := uint16(c.bus.read(uint16(base + 1)))
		ptr := hi<<8 | lo
		target := ptr + uint16(c.Y)
		return target, pagesDiffer(ptr, target)
	}
	return 0, false
}

// read16Bug reproduces the JMP ($xxFF) page-wrap bug: the high byte is
// fetched from the start of the same page, not the next one.
func (c *CPU) read16Bug(addr uint16) uint16 {
	lo := uint16(c.bus.read(addr))
	hiAddr := (addr & 0xFF00) | uint16(byte(addr)+1)
	hi := uint16(c.bus.read(hiAddr))
	return hi<<8 | lo
}

func (c *CPU) debugLine(opcode byte, inst instruction, operand uint16) string {
	return "PC=" + hex16(c.PC) + " A=" + hex8(c.A) + " X=" + hex8(c.X) + " Y=" + hex8(c.Y) +
		" S=" + hex8(c.S) + " op=" + hex8(opcode) + " " + inst.mnemonic + " operand=" + hex16(operand)
}

func hex8(b byte) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0xF]})
}

func hex16(v uint16) string {
	return hex8(byte(v >> 8)) + hex8(byte(v))
}

// --- Opcode implementations ---

func (c *CPU) adc(mode addressingMode, operand uint16) {
	c.adcValue(c.bus.read(operand))
}

func (c *CPU) adcValue(m byte) {
	a := c.A
	var carry byte
	if c.P.C {
		carry = 1
	}
	sum := uint16(a) + uint16(m) + uint16(carry)
	c.A = byte(sum)
	c.P.C = sum > 0xFF
	c.P.V = (a^m)&0x80 == 0 && (a^c.A)&0x80 != 0
	c.setN(c.A)
	c.setZ(c.A)
}

func (c *CPU) and(mode addressingMode, operand uint16) {
	c.A &= c.bus.read(operand)
	c.setN(c.A)
	c.setZ(c.A)
}

func (c *CPU) asl(mode addressingMode, operand uint16) {
	if mode == accumulator {
		c.P.C = c.A&0x80 != 0
		c.A <<= 1
		c.setN(c.A)
		c.setZ(c.A)
		return
	}
	x := c.bus.read(operand)
	c.P.C = x&0x80 != 0
	x <<= 1
	c.bus.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) bcc(mode addressingMode, operand uint16) {
	if !c.P.C {
		c.PC = operand
	}
}
func (c *CPU) bcs(mode addressingMode, operand uint16) {
	if c.P.C {
		c.PC = operand
	}
}
func (c *CPU) beq(mode addressingMode, operand uint16) {
	if c.P.Z {
		c.PC = operand
	}
}
func (c *CPU) bmi(mode addressingMode, operand uint16) {
	if c.P.N {
		c.PC = operand
	}
}
func (c *CPU) bne(mode addressingMode, operand uint16) {
	if !c.P.Z {
		c.PC = operand
	}
}
func (c *CPU) bpl(mode addressingMode, operand uint16) {
	if !c.P.N {
		c.PC = operand
	}
}
func (c *CPU) bvc(mode addressingMode, operand uint16) {
	if !c.P.V {
		c.PC = operand
	}
}
func (c *CPU) bvs(mode addressingMode, operand uint16) {
	if c.P.V {
		c.PC = operand
	}
}

func (c *CPU) bit(mode addressingMode, operand uint16) {
	x := c.bus.read(operand)
	c.setZ(c.A & x)
	c.P.V = x&0x40 != 0
	c.P.N = x&0x80 != 0
}

func (c *CPU) brk(mode addressingMode, operand uint16) {
	c.PC++ // BRK reads a padding byte after the opcode
	c.serviceInterrupt(0xFFFE, true)
}

func (c *CPU) clc(addressingMode, uint16) { c.P.C = false }
func (c *CPU) cld(addressingMode, uint16) { c.P.D = false } // flag only; ADC/SBC ignore D on NES
func (c *CPU) cli(addressingMode, uint16) { c.P.I = false }
func (c *CPU) clv(addressingMode, uint16) { c.P.V = false }

func (c *CPU) compare(reg byte, operand uint16) {
	m := c.bus.read(operand)
	x := reg - m
	c.P.C = reg >= m
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) cmp(mode addressingMode, operand uint16) { c.compare(c.A, operand) }
func (c *CPU) cpx(mode addressingMode, operand uint16) { c.compare(c.X, operand) }
func (c *CPU) cpy(mode addressingMode, operand uint16) { c.compare(c.Y, operand) }

func (c *CPU) dec(mode addressingMode, operand uint16) {
	x := c.bus.read(operand) - 1
	c.bus.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) dex(addressingMode, uint16) { c.X--; c.setN(c.X); c.setZ(c.X) }
func (c *CPU) dey(addressingMode, uint16) { c.Y--; c.setN(c.Y); c.setZ(c.Y) }

func (c *CPU) eor(mode addressingMode, operand uint16) {
	c.A ^= c.bus.read(operand)
	c.setN(c.A)
	c.setZ(c.A)
}

func (c *CPU) inc(mode addressingMode, operand uint16) {
	x := c.bus.read(operand) + 1
	c.bus.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) inx(addressingMode, uint16) { c.X++; c.setN(c.X); c.setZ(c.X) }
func (c *CPU) iny(addressingMode, uint16) { c.Y++; c.setN(c.Y); c.setZ(c.Y) }

func (c *CPU) jmp(mode addressingMode, operand uint16) { c.PC = operand }

func (c *CPU) jsr(mode addressingMode, operand uint16) {
	ret := c.PC - 1
	c.push(byte(ret >> 8))
	c.push(byte(ret & 0xFF))
	c.PC = operand
}

func (c *CPU) lda(mode addressingMode, operand uint16) {
	c.A = c.bus.read(operand)
	c.setN(c.A)
	c.setZ(c.A)
}

func (c *CPU) ldx(mode addressingMode, operand uint16) {
	c.X = c.bus.read(operand)
	c.setN(c.X)
	c.setZ(c.X)
}

func (c *CPU) ldy(mode addressingMode, operand uint16) {
	c.Y = c.bus.read(operand)
	c.setN(c.Y)
	c.setZ(c.Y)
}

func (c *CPU) lsr(mode addressingMode, operand uint16) {
	if mode == accumulator {
		c.P.C = c.A&1 != 0
		c.A >>= 1
		c.setN(c.A)
		c.setZ(c.A)
		return
	}
	x := c.bus.read(operand)
	c.P.C = x&1 != 0
	x >>= 1
	c.bus.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) nop(addressingMode, uint16) {}

func (c *CPU) ora(mode addressingMode, operand uint16) {
	c.A |= c.bus.read(operand)
	c.setN(c.A)
	c.setZ(c.A)
}

func (c *CPU) pha(addressingMode, uint16) { c.push(c.A) }
func (c *CPU) php(addressingMode, uint16) {
	s := c.P
	s.B = true
	s.R = true
	c.push(s.encode())
}

func (c *CPU) pla(addressingMode, uint16) {
	c.A = c.pop()
	c.setN(c.A)
	c.setZ(c.A)
}

func (c *CPU) plp(addressingMode, uint16) {
	c.P.decodeFrom(c.pop())
	c.P.B = false
	c.P.R = true
}

func (c *CPU) rol(mode addressingMode, operand uint16) {
	var carry byte
	if c.P.C {
		carry = 1
	}
	if mode == accumulator {
		c.P.C = c.A&0x80 != 0
		c.A = c.A<<1 | carry
		c.setN(c.A)
		c.setZ(c.A)
		return
	}
	x := c.bus.read(operand)
	c.P.C = x&0x80 != 0
	x = x<<1 | carry
	c.bus.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) ror(mode addressingMode, operand uint16) {
	var carry byte
	if c.P.C {
		carry = 0x80
	}
	if mode == accumulator {
		c.P.C = c.A&1 != 0
		c.A = c.A>>1 | carry
		c.setN(c.A)
		c.setZ(c.A)
		return
	}
	x := c.bus.read(operand)
	c.P.C = x&1 != 0
	x = x>>1 | carry
	c.bus.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) rti(addressingMode, uint16) {
	c.P.decodeFrom(c.pop())
	c.P.B = false
	c.P.R = true
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	c.PC = hi<<8 | lo
}

func (c *CPU) rts(addressingMode, uint16) {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	c.PC = (hi<<8 | lo) + 1
}

func (c *CPU) sbc(mode addressingMode, operand uint16) {
	c.sbcValue(c.bus.read(operand))
}

func (c *CPU) sbcValue(m byte) {
	a := c.A
	var borrow byte
	if !c.P.C {
		borrow = 1
	}
	diff := int16(a) - int16(m) - int16(borrow)
	c.A = byte(diff)
	c.P.C = diff >= 0
	c.P.V = (a^m)&0x80 != 0 && (a^c.A)&0x80 != 0
	c.setN(c.A)
	c.setZ(c.A)
}

func (c *CPU) sec(addressingMode, uint16) { c.P.C = true }
func (c *CPU) sed(addressingMode, uint16) { c.P.D = true } // flag only; ADC/SBC ignore D on NES
func (c *CPU) sei(addressingMode, uint16) { c.P.I = true }

func (c *CPU) sta(mode addressingMode, operand uint16) { c.bus.write(operand, c.A) }
func (c *CPU) stx(mode addressingMode, operand uint16) { c.bus.write(operand, c.X) }
func (c *CPU) sty(mode addressingMode, operand uint16) { c.bus.write(operand, c.Y) }

func (c *CPU) tax(addressingMode, uint16) { c.X = c.A; c.setN(c.X); c.setZ(c.X) }
func (c *CPU) tay(addressingMode, uint16) { c.Y = c.A; c.setN(c.Y); c.setZ(c.Y) }
func (c *CPU) tsx(addressingMode, uint16) { c.X = c.S; c.setN(c.X); c.setZ(c.X) }
func (c *CPU) txa(addressingMode, uint16) { c.A = c.X; c.setN(c.A); c.setZ(c.A) }
func (c *CPU) txs(addressingMode, uint16) { c.S = c.X }
func (c *CPU) tya(addressingMode, uint16) { c.A = c.Y; c.setN(c.A); c.setZ(c.A) }

// Unofficial opcodes: a handful of the combined read-modify-write /
// load-store forms are common enough in real carts (and in CPU test
// ROMs) that collapsing them all to a generic NOP would break programs
// that rely on them, so they get real implementations.
func (c *CPU) lax(mode addressingMode, operand uint16) {
	c.A = c.bus.read(operand)
	c.X = c.A
	c.setN(c.A)
	c.setZ(c.A)
}

func (c *CPU) sax(mode addressingMode, operand uint16) {
	c.bus.write(operand, c.A&c.X)
}

func (c *CPU) dcp(mode addressingMode, operand uint16) {
	x := c.bus.read(operand) - 1
	c.bus.write(operand, x)
	c.P.C = c.A >= x
	c.setN(c.A - x)
	c.setZ(c.A - x)
}

func (c *CPU) isc(mode addressingMode, operand uint16) {
	x := c.bus.read(operand) + 1
	c.bus.write(operand, x)
	c.sbcValue(x)
}

func (c *CPU) slo(mode addressingMode, operand uint16) {
	x := c.bus.read(operand)
	c.P.C = x&0x80 != 0
	x <<= 1
	c.bus.write(operand, x)
	c.A |= x
	c.setN(c.A)
	c.setZ(c.A)
}

func (c *CPU) rla(mode addressingMode, operand uint16) {
	var carry byte
	if c.P.C {
		carry = 1
	}
	x := c.bus.read(operand)
	c.P.C = x&0x80 != 0
	x = x<<1 | carry
	c.bus.write(operand, x)
	c.A &= x
	c.setN(c.A)
	c.setZ(c.A)
}

func (c *CPU) sre(mode addressingMode, operand uint16) {
	x := c.bus.read(operand)
	c.P.C = x&1 != 0
	x >>= 1
	c.bus.write(operand, x)
	c.A ^= x
	c.setN(c.A)
	c.setZ(c.A)
}

func (c *CPU) rra(mode addressingMode, operand uint16) {
	var carry byte
	if c.P.C {
		carry = 0x80
	}
	x := c.bus.read(operand)
	c.P.C = x&1 != 0
	x = x>>1 | carry
	c.bus.write(operand, x)
	c.adcValue(x)
}

// CPUSnapshot is the save-state shape of CPU register and interrupt
// state.
type CPUSnapshot struct {
	P          status
	A, X, Y, S byte
	PC         uint16
	Cycles     uint64
	Stall      int
	NMIPending bool
}

func (c *CPU) Snapshot() CPUSnapshot {
	return CPUSnapshot{
		P: c.P, A: c.A, X: c.X, Y: c.Y, S: c.S, PC: c.PC,
		Cycles: c.cycles, Stall: c.stall, NMIPending: c.nmiPending,
	}
}

func (c *CPU) Restore(s CPUSnapshot) {
	c.P, c.A, c.X, c.Y, c.S, c.PC = s.P, s.A, s.X, s.Y, s.S, s.PC
	c.cycles, c.stall, c.nmiPending = s.Cycles, s.Stall, s.NMIPending
}
