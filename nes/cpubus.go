package nes

import "github.com/golang/glog"

// CPUBus is the CPU's view of the NES address space.
// 0x0000 - 0x07FF	WRAM
// 0x0800 - 0x1FFF	WRAM Mirror
// 0x2000 - 0x2007	PPU Registers
// 0x2008 - 0x3FFF	PPU Registers Mirror
// 0x4000 - 0x4013	APU registers
// 0x4014		OAMDMA
// 0x4015		APU status
// 0x4016		Controller 1 (and strobe)
// 0x4017		Controller 2 / APU frame counter
// 0x4018 - 0x401F	Normally disabled APU/IO test registers
// 0x4020 - 0xFFFF	Mapper (SRAM, PRG ROM, and mapper registers)
type CPUBus struct {
	wram        *RAM
	ppu         *PPU
	apu         *APU
	mapper      Mapper
	controller1 *Controller
	controller2 *Controller
	cpu         *CPU
}

func NewCPUBus(wram *RAM, ppu *PPU, apu *APU, mapper Mapper, controller1, controller2 *Controller) *CPUBus {
	return &CPUBus{wram: wram, ppu: ppu, apu: apu, mapper: mapper, controller1: controller1, controller2: controller2}
}

// AttachCPU completes the CPU<->Bus cycle so $4014 writes can stall the
// CPU for the OAMDMA transfer.
func (b *CPUBus) AttachCPU(cpu *CPU) { b.cpu = cpu }

// IRQAsserted is the wired-OR of every IRQ source on the bus (spec.md
// §9): the cartridge mapper's scanline IRQ and the APU's frame/DMC
// IRQs. Level-triggered, unlike NMI.
func (b *CPUBus) IRQAsserted() bool {
	return b.mapper.IRQAsserted() || b.apu.IRQAsserted()
}

func (b *CPUBus) readPPURegister(address uint16) byte {
	switch address % 8 {
	case 2:
		return b.ppu.readPPUSTATUS()
	case 4:
		return b.ppu.readOAMDATA()
	case 7:
		data, err := b.ppu.readPPUDATA()
		if err != nil {
			glog.V(1).Infof("cpubus: %v", err)
		}
		return data
	default:
		return 0 // write-only registers read back open bus as 0
	}
}

func (b *CPUBus) read(address uint16) byte {
	switch {
	case address < 0x2000:
		return b.wram.read(address % 0x0800)
	case address < 0x4000:
		return b.readPPURegister(address)
	case address == 0x4015:
		return b.apu.readStatus()
	case address == 0x4016:
		return b.controller1.read()
	case address == 0x4017:
		return b.controller2.read()
	case address < 0x4020:
		glog.V(2).Infof("cpubus: unimplemented read at 0x%04x", address)
		return 0
	default:
		return b.mapper.CPURead(address)
	}
}

func (b *CPUBus) read16(address uint16) uint16 {
	lo := uint16(b.read(address))
	hi := uint16(b.read(address + 1))
	return hi<<8 | lo
}

func (b *CPUBus) writeToPPURegisters(address uint16, data byte) {
	switch address % 8 {
	case 0:
		b.ppu.writePPUCTRL(data)
	case 1:
		b.ppu.writePPUMASK(data)
	case 3:
		b.ppu.writeOAMADDR(data)
	case 4:
		b.ppu.writeOAMDATA(data)
	case 5:
		b.ppu.writePPUSCROLL(data)
	case 6:
		b.ppu.writePPUADDR(data)
	case 7:
		b.ppu.writePPUDATA(data)
	}
}

func (b *CPUBus) write(address uint16, data byte) {
	switch {
	case address < 0x2000:
		b.wram.write(address%0x0800, data)
	case address < 0x4000:
		b.writeToPPURegisters(address, data)
	case address == 0x4014:
		b.cpu.RequestOAMDMA(data)
	case address == 0x4016:
		b.controller1.write(data)
		b.controller2.write(data)
	case address <= 0x4013, address == 0x4015, address == 0x4017:
		b.apu.writeRegister(address, data)
	case address < 0x4020:
		glog.V(2).Infof("cpubus: unimplemented write at 0x%04x data=0x%02x", address, data)
	default:
		b.mapper.CPUWrite(address, data)
	}
}

// writeOAMDMA hands the 256-byte page captured by the CPU to the PPU's
// OAM. The actual 513/514-cycle stall is accounted for by the CPU.
func (b *CPUBus) writeOAMDMA(data [256]byte) {
	b.ppu.primaryOAM = data
}
