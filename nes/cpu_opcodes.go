package nes

// createInstructions builds the 256-entry opcode table. Unofficial
// opcodes not implemented by name collapse to NOP/2-cycle placeholders
// except for the handful (LAX/SAX/DCP/ISC/SLO/RLA/SRE/RRA) that real
// software and CPU test ROMs exercise directly.
func (c *CPU) createInstructions() []instruction {
	i := func(mnemonic string, mode addressingMode, execute func(addressingMode, uint16), size uint16, cycles int, pageCrossExtra bool) instruction {
		return instruction{mnemonic, mode, execute, size, cycles, pageCrossExtra}
	}
	nop1 := i("NOP", implied, c.nop, 1, 2, false)

	table := make([]instruction, 256)
	for idx := range table {
		table[idx] = nop1
	}

	set := func(op byte, in instruction) { table[op] = in }

	set(0x00, i("BRK", implied, c.brk, 1, 7, false))
	set(0x01, i("ORA", indirectX, c.ora, 2, 6, false))
	set(0x05, i("ORA", zeropage, c.ora, 2, 3, false))
	set(0x06, i("ASL", zeropage, c.asl, 2, 5, false))
	set(0x08, i("PHP", implied, c.php, 1, 3, false))
	set(0x09, i("ORA", immediate, c.ora, 2, 2, false))
	set(0x0A, i("ASL", accumulator, c.asl, 1, 2, false))
	set(0x0D, i("ORA", absolute, c.ora, 3, 4, false))
	set(0x0E, i("ASL", absolute, c.asl, 3, 6, false))
	set(0x10, i("BPL", relative, c.bpl, 2, 2, false))
	set(0x11, i("ORA", indirectY, c.ora, 2, 5, true))
	set(0x15, i("ORA", zeropageX, c.ora, 2, 4, false))
	set(0x16, i("ASL", zeropageX, c.asl, 2, 6, false))
	set(0x18, i("CLC", implied, c.clc, 1, 2, false))
	set(0x19, i("ORA", absoluteY, c.ora, 3, 4, true))
	set(0x1D, i("ORA", absoluteX, c.ora, 3, 4, true))
	set(0x1E, i("ASL", absoluteX, c.asl, 3, 7, false))
	set(0x20, i("JSR", absolute, c.jsr, 3, 6, false))
	set(0x21, i("AND", indirectX, c.and, 2, 6, false))
	set(0x24, i("BIT", zeropage, c.bit, 2, 3, false))
	set(0x25, i("AND", zeropage, c.and, 2, 3, false))
	set(0x26, i("ROL", zeropage, c.rol, 2, 5, false))
	set(0x28, i("PLP", implied, c.plp, 1, 4, false))
	set(0x29, i("AND", immediate, c.and, 2, 2, false))
	set(0x2A, i("ROL", accumulator, c.rol, 1, 2, false))
	set(0x2C, i("BIT", absolute, c.bit, 3, 4, false))
	set(0x2D, i("AND", absolute, c.and, 3, 4, false))
	set(0x2E, i("ROL", absolute, c.rol, 3, 6, false))
	set(0x30, i("BMI", relative, c.bmi, 2, 2, false))
	set(0x31, i("AND", indirectY, c.and, 2, 5, true))
	set(0x35, i("AND", zeropageX, c.and, 2, 4, false))
	set(0x36, i("ROL", zeropageX, c.rol, 2, 6, false))
	set(0x38, i("SEC", implied, c.sec, 1, 2, false))
	set(0x39, i("AND", absoluteY, c.and, 3, 4, true))
	set(0x3D, i("AND", absoluteX, c.and, 3, 4, true))
	set(0x3E, i("ROL", absoluteX, c.rol, 3, 7, false))
	set(0x40, i("RTI", implied, c.rti, 1, 6, false))
	set(0x41, i("EOR", indirectX, c.eor, 2, 6, false))
	set(0x45, i("EOR", zeropage, c.eor, 2, 3, false))
	set(0x46, i("LSR", zeropage, c.lsr, 2, 5, false))
	set(0x48, i("PHA", implied, c.pha, 1, 3, false))
	set(0x49, i("EOR", immediate, c.eor, 2, 2, false))
	set(0x4A, i("LSR", accumulator, c.lsr, 1, 2, false))
	set(0x4C, i("JMP", absolute, c.jmp, 3, 3, false))
	set(0x4D, i("EOR", absolute, c.eor, 3, 4, false))
	set(0x4E, i("LSR", absolute, c.lsr, 3, 6, false))
	set(0x50, i("BVC", relative, c.bvc, 2, 2, false))
	set(0x51, i("EOR", indirectY, c.eor, 2, 5, true))
	set(0x55, i("EOR", zeropageX, c.eor, 2, 4, false))
	set(0x56, i("LSR", zeropageX, c.lsr, 2, 6, false))
	set(0x58, i("CLI", implied, c.cli, 1, 2, false))
	set(0x59, i("EOR", absoluteY, c.eor, 3, 4, true))
	set(0x5D, i("EOR", absoluteX, c.eor, 3, 4, true))
	set(0x5E, i("LSR", absoluteX, c.lsr, 3, 7, false))
	set(0x60, i("RTS", implied, c.rts, 1, 6, false))
	set(0x61, i("ADC", indirectX, c.adc, 2, 6, false))
	set(0x65, i("ADC", zeropage, c.adc, 2, 3, false))
	set(0x66, i("ROR", zeropage, c.ror, 2, 5, false))
	set(0x68, i("PLA", implied, c.pla, 1, 4, false))
	set(0x69, i("ADC", immediate, c.adc, 2, 2, false))
	set(0x6A, i("ROR", accumulator, c.ror, 1, 2, false))
	set(0x6C, i("JMP", indirect, c.jmp, 3, 5, false))
	set(0x6D, i("ADC", absolute, c.adc, 3, 4, false))
	set(0x6E, i("ROR", absolute, c.ror, 3, 6, false))
	set(0x70, i("BVS", relative, c.bvs, 2, 2, false))
	set(0x71, i("ADC", indirectY, c.adc, 2, 5, true))
	set(0x75, i("ADC", zeropageX, c.adc, 2, 4, false))
	set(0x76, i("ROR", zeropageX, c.ror, 2, 6, false))
	set(0x78, i("SEI", implied, c.sei, 1, 2, false))
	set(0x79, i("ADC", absoluteY, c.adc, 3, 4, true))
	set(0x7D, i("ADC", absoluteX, c.adc, 3, 4, true))
	set(0x7E, i("ROR", absoluteX, c.ror, 3, 7, false))
	set(0x81, i("STA", indirectX, c.sta, 2, 6, false))
	set(0x84, i("STY", zeropage, c.sty, 2, 3, false))
	set(0x85, i("STA", zeropage, c.sta, 2, 3, false))
	set(0x86, i("STX", zeropage, c.stx, 2, 3, false))
	set(0x87, i("SAX", zeropage, c.sax, 2, 3, false))
	set(0x88, i("DEY", implied, c.dey, 1, 2, false))
	set(0x8A, i("TXA", implied, c.txa, 1, 2, false))
	set(0x8C, i("STY", absolute, c.sty, 3, 4, false))
	set(0x8D, i("STA", absolute, c.sta, 3, 4, false))
	set(0x8E, i("STX", absolute, c.stx, 3, 4, false))
	set(0x8F, i("SAX", absolute, c.sax, 3, 4, false))
	set(0x90, i("BCC", relative, c.bcc, 2, 2, false))
	set(0x91, i("STA", indirectY, c.sta, 2, 6, false))
	set(0x94, i("STY", zeropageX, c.sty, 2, 4, false))
	set(0x95, i("STA", zeropageX, c.sta, 2, 4, false))
	set(0x96, i("STX", zeropageY, c.stx, 2, 4, false))
	set(0x97, i("SAX", zeropageY, c.sax, 2, 4, false))
	set(0x98, i("TYA", implied, c.tya, 1, 2, false))
	set(0x99, i("STA", absoluteY, c.sta, 3, 5, false))
	set(0x9A, i("TXS", implied, c.txs, 1, 2, false))
	set(0x9D, i("STA", absoluteX, c.sta, 3, 5, false))
	set(0xA0, i("LDY", immediate, c.ldy, 2, 2, false))
	set(0xA1, i("LDA", indirectX, c.lda, 2, 6, false))
	set(0xA2, i("LDX", immediate, c.ldx, 2, 2, false))
	set(0xA3, i("LAX", indirectX, c.lax, 2, 6, false))
	set(0xA4, i("LDY", zeropage, c.ldy, 2, 3, false))
	set(0xA5, i("LDA", zeropage, c.lda, 2, 3, false))
	set(0xA6, i("LDX", zeropage, c.ldx, 2, 3, false))
	set(0xA7, i("LAX", zeropage, c.lax, 2, 3, false))
	set(0xA8, i("TAY", implied, c.tay, 1, 2, false))
	set(0xA9, i("LDA", immediate, c.lda, 2, 2, false))
	set(0xAA, i("TAX", implied, c.tax, 1, 2, false))
	set(0xAC, i("LDY", absolute, c.ldy, 3, 4, false))
	set(0xAD, i("LDA", absolute, c.lda, 3, 4, false))
	set(0xAE, i("LDX", absolute, c.ldx, 3, 4, false))
	set(0xAF, i("LAX", absolute, c.lax, 3, 4, false))
	set(0xB0, i("BCS", relative, c.bcs, 2, 2, false))
	set(0xB1, i("LDA", indirectY, c.lda, 2, 5, true))
	set(0xB3, i("LAX", indirectY, c.lax, 2, 5, true))
	set(0xB4, i("LDY", zeropageX, c.ldy, 2, 4, false))
	set(0xB5, i("LDA", zeropageX, c.lda, 2, 4, false))
	set(0xB6, i("LDX", zeropageY, c.ldx, 2, 4, false))
	set(0xB7, i("LAX", zeropageY, c.lax, 2, 4, false))
	set(0xB8, i("CLV", implied, c.clv, 1, 2, false))
	set(0xB9, i("LDA", absoluteY, c.lda, 3, 4, true))
	set(0xBA, i("TSX", implied, c.tsx, 1, 2, false))
	set(0xBC, i("LDY", absoluteX, c.ldy, 3, 4, true))
	set(0xBD, i("LDA", absoluteX, c.lda, 3, 4, true))
	set(0xBE, i("LDX", absoluteY, c.ldx, 3, 4, true))
	set(0xBF, i("LAX", absoluteY, c.lax, 3, 4, true))
	set(0xC0, i("CPY", immediate, c.cpy, 2, 2, false))
	set(0xC1, i("CMP", indirectX, c.cmp, 2, 6, false))
	set(0xC3, i("DCP", indirectX, c.dcp, 2, 8, false))
	set(0xC4, i("CPY", zeropage, c.cpy, 2, 3, false))
	set(0xC5, i("CMP", zeropage, c.cmp, 2, 3, false))
	set(0xC6, i("DEC", zeropage, c.dec, 2, 5, false))
	set(0xC7, i("DCP", zeropage, c.dcp, 2, 5, false))
	set(0xC8, i("INY", implied, c.iny, 1, 2, false))
	set(0xC9, i("CMP", immediate, c.cmp, 2, 2, false))
	set(0xCA, i("DEX", implied, c.dex, 1, 2, false))
	set(0xCC, i("CPY", absolute, c.cpy, 3, 4, false))
	set(0xCD, i("CMP", absolute, c.cmp, 3, 4, false))
	set(0xCE, i("DEC", absolute, c.dec, 3, 6, false))
	set(0xCF, i("DCP", absolute, c.dcp, 3, 6, false))
	set(0xD0, i("BNE", relative, c.bne, 2, 2, false))
	set(0xD1, i("CMP", indirectY, c.cmp, 2, 5, true))
	set(0xD3, i("DCP", indirectY, c.dcp, 2, 8, false))
	set(0xD5, i("CMP", zeropageX, c.cmp, 2, 4, false))
	set(0xD6, i("DEC", zeropageX, c.dec, 2, 6, false))
	set(0xD7, i("DCP", zeropageX, c.dcp, 2, 6, false))
	set(0xD8, i("CLD", implied, c.cld, 1, 2, false))
	set(0xD9, i("CMP", absoluteY, c.cmp, 3, 4, true))
	set(0xDB, i("DCP", absoluteY, c.dcp, 3, 7, false))
	set(0xDD, i("CMP", absoluteX, c.cmp, 3, 4, true))
	set(0xDE, i("DEC", absoluteX, c.dec, 3, 7, false))
	set(0xDF, i("DCP", absoluteX, c.dcp, 3, 7, false))
	set(0xE0, i("CPX", immediate, c.cpx, 2, 2, false))
	set(0xE1, i("SBC", indirectX, c.sbc, 2, 6, false))
	set(0xE3, i("ISC", indirectX, c.isc, 2, 8, false))
	set(0xE4, i("CPX", zeropage, c.cpx, 2, 3, false))
	set(0xE5, i("SBC", zeropage, c.sbc, 2, 3, false))
	set(0xE6, i("INC", zeropage, c.inc, 2, 5, false))
	set(0xE7, i("ISC", zeropage, c.isc, 2, 5, false))
	set(0xE8, i("INX", implied, c.inx, 1, 2, false))
	set(0xE9, i("SBC", immediate, c.sbc, 2, 2, false))
	set(0xEA, i("NOP", implied, c.nop, 1, 2, false))
	set(0xEB, i("SBC", immediate, c.sbc, 2, 2, false)) // unofficial alias
	set(0xEC, i("CPX", absolute, c.cpx, 3, 4, false))
	set(0xED, i("SBC", absolute, c.sbc, 3, 4, false))
	set(0xEE, i("INC", absolute, c.inc, 3, 6, false))
	set(0xEF, i("ISC", absolute, c.isc, 3, 6, false))
	set(0xF0, i("BEQ", relative, c.beq, 2, 2, false))
	set(0xF1, i("SBC", indirectY, c.sbc, 2, 5, true))
	set(0xF3, i("ISC", indirectY, c.isc, 2, 8, false))
	set(0xF5, i("SBC", zeropageX, c.sbc, 2, 4, false))
	set(0xF6, i("INC", zeropageX, c.inc, 2, 6, false))
	set(0xF7, i("ISC", zeropageX, c.isc, 2, 6, false))
	set(0xF8, i("SED", implied, c.sed, 1, 2, false))
	set(0xF9, i("SBC", absoluteY, c.sbc, 3, 4, true))
	set(0xFB, i("ISC", absoluteY, c.isc, 3, 7, false))
	set(0xFD, i("SBC", absoluteX, c.sbc, 3, 4, true))
	set(0xFE, i("INC", absoluteX, c.inc, 3, 7, false))
	set(0xFF, i("ISC", absoluteX, c.isc, 3, 7, false))

	// Unofficial SLO/RLA/SRE/RRA in their common addressing modes.
	set(0x03, i("SLO", indirectX, c.slo, 2, 8, false))
	set(0x07, i("SLO", zeropage, c.slo, 2, 5, false))
	set(0x0F, i("SLO", absolute, c.slo, 3, 6, false))
	set(0x13, i("SLO", indirectY, c.slo, 2, 8, false))
	set(0x17, i("SLO", zeropageX, c.slo, 2, 6, false))
	set(0x1B, i("SLO", absoluteY, c.slo, 3, 7, false))
	set(0x1F, i("SLO", absoluteX, c.slo, 3, 7, false))
	set(0x23, i("RLA", indirectX, c.rla, 2, 8, false))
	set(0x27, i("RLA", zeropage, c.rla, 2, 5, false))
	set(0x2F, i("RLA", absolute, c.rla, 3, 6, false))
	set(0x33, i("RLA", indirectY, c.rla, 2, 8, false))
	set(0x37, i("RLA", zeropageX, c.rla, 2, 6, false))
	set(0x3B, i("RLA", absoluteY, c.rla, 3, 7, false))
	set(0x3F, i("RLA", absoluteX, c.rla, 3, 7, false))
	set(0x43, i("SRE", indirectX, c.sre, 2, 8, false))
	set(0x47, i("SRE", zeropage, c.sre, 2, 5, false))
	set(0x4F, i("SRE", absolute, c.sre, 3, 6, false))
	set(0x53, i("SRE", indirectY, c.sre, 2, 8, false))
	set(0x57, i("SRE", zeropageX, c.sre, 2, 6, false))
	set(0x5B, i("SRE", absoluteY, c.sre, 3, 7, false))
	set(0x5F, i("SRE", absoluteX, c.sre, 3, 7, false))
	set(0x63, i("RRA", indirectX, c.rra, 2, 8, false))
	set(0x67, i("RRA", zeropage, c.rra, 2, 5, false))
	set(0x6F, i("RRA", absolute, c.rra, 3, 6, false))
	set(0x73, i("RRA", indirectY, c.rra, 2, 8, false))
	set(0x77, i("RRA", zeropageX, c.rra, 2, 6, false))
	set(0x7B, i("RRA", absoluteY, c.rra, 3, 7, false))
	set(0x7F, i("RRA", absoluteX, c.rra, 3, 7, false))

	// Unofficial NOPs with operands that still must advance PC correctly.
	for _, op := range []byte{0x04, 0x44, 0x64} {
		set(op, i("NOP", zeropage, c.nop, 2, 3, false))
	}
	for _, op := range []byte{0x0C} {
		set(op, i("NOP", absolute, c.nop, 3, 4, false))
	}
	for _, op := range []byte{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, i("NOP", zeropageX, c.nop, 2, 4, false))
	}
	for _, op := range []byte{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, i("NOP", implied, c.nop, 1, 2, false))
	}
	for _, op := range []byte{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		set(op, i("NOP", immediate, c.nop, 2, 2, false))
	}
	for _, op := range []byte{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, i("NOP", absoluteX, c.nop, 3, 4, true))
	}

	return table
}
