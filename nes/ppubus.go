package nes

import "fmt"

// PPUBus is the PPU's view of its own 14-bit address space: pattern
// tables live on the cartridge (routed through the mapper so CHR
// banking and CHR-latch side effects apply), nametables live in the
// console's 2 KiB of VRAM folded according to the mapper's mirroring
// mode, unless the mapper claims extended nametable mapping (MMC5),
// in which case nametable accesses go straight to the mapper.
type PPUBus struct {
	vram   *RAM
	mapper Mapper
}

func NewPPUBus(vram *RAM, mapper Mapper) *PPUBus {
	return &PPUBus{vram, mapper}
}

// mirrorAddress folds the four logical nametables onto the console's
// 2KiB of physical VRAM: horizontal mirroring pairs $2000/$2400 and
// $2800/$2C00, vertical mirroring pairs $2000/$2800 and $2400/$2C00.
func (b *PPUBus) mirrorAddress(address uint16) uint16 {
	switch b.mapper.Mirroring() {
	case MirrorSingle0:
		return (address - 0x2000) % 0x0400
	case MirrorSingle1:
		return (address-0x2000)%0x0400 + 0x0400
	case MirrorFourScreen:
		return (address - 0x2000) % 0x0800 // relies on the cartridge's own 2KiB+ RAM; approximated here
	default:
		offset := (address - 0x2000) % 0x1000
		if b.mapper.Mirroring() == MirrorVertical {
			return offset % 0x0800
		}
		return (offset/0x0800)*0x0400 + offset%0x0400
	}
}

// Address        Size	  Description
// -------------------------------------
// $0000-$0FFF	  $1000	  Pattern table 0
// $1000-$1FFF	  $1000	  Pattern table 1
// $2000-$23FF	  $0400	  Nametable 0
// $2400-$27FF	  $0400	  Nametable 1
// $2800-$2BFF	  $0400	  Nametable 2
// $2C00-$2FFF	  $0400	  Nametable 3
// $3000-$3EFF	  $0F00	  Mirrors of $2000-$2EFF
// $3F00-$3F1F	  $0020	  Palette RAM indexes (handled by the PPU itself)
// Reference: https://www.nesdev.org/wiki/PPU_memory_map
func (b *PPUBus) read(address uint16) (byte, error) {
	switch {
	case address < 0x2000:
		return b.mapper.PPURead(address), nil
	case address < 0x3F00:
		folded := address
		if folded >= 0x3000 {
			folded -= 0x1000
		}
		if b.mapper.HasExtendedNametableMapping() {
			return b.mapper.PPURead(folded), nil
		}
		return b.vram.read(b.mirrorAddress(folded) % 2048), nil
	default:
		return 0, fmt.Errorf("unknown PPU bus read: 0x%04x", address)
	}
}

func (b *PPUBus) write(address uint16, data byte) error {
	switch {
	case address < 0x2000:
		b.mapper.PPUWrite(address, data)
		return nil
	case address < 0x3F00:
		folded := address
		if folded >= 0x3000 {
			folded -= 0x1000
		}
		if b.mapper.HasExtendedNametableMapping() {
			b.mapper.PPUWrite(folded, data)
			return nil
		}
		b.vram.write(b.mirrorAddress(folded)%2048, data)
		return nil
	default:
		return fmt.Errorf("unknown PPU bus write: address=0x%04x, data=0x%02x", address, data)
	}
}
