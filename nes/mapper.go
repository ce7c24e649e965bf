package nes

import "github.com/golang/glog"

// FetchKind tells a mapper's PPU-fetch observer what kind of access the
// PPU just performed, so mappers like MMC5 that bank CHR differently for
// sprites vs. background can react without inferring intent from the
// address alone (spec.md §9's design note).
type FetchKind int

const (
	FetchNametable FetchKind = iota
	FetchAttribute
	FetchBackgroundPattern
	FetchSpritePattern
)

// Mapper is the contract every cartridge mapper implements (spec.md
// §4.1). Every mapper must handle the full CPU ($4020-$FFFF, though in
// practice $6000-$FFFF is where banking lives) and PPU ($0000-$2FFF)
// address spaces; an unmapped address is never an error, it is a
// logged diagnostic that reads as 0 / no-ops the write.
type Mapper interface {
	CPURead(addr uint16) byte
	CPUWrite(addr uint16, v byte)
	PPURead(addr uint16) byte
	PPUWrite(addr uint16, v byte)

	// HasStep reports whether Step should be invoked by the PPU's
	// per-dot loop. Mappers without scanline logic (NROM, UxROM) return
	// false and their Step is never called.
	HasStep() bool
	// Step is invoked once per PPU dot when HasStep is true, observing
	// the PPU's current (scanline, dot) and whether rendering is
	// currently enabled. It returns whether an IRQ should be asserted.
	Step(scanline, dot int, renderingEnabled bool) bool

	// HasExtendedNametableMapping reports whether $2000-$2FFF PPU
	// accesses bypass the PPU's own mirroring table and go straight to
	// this mapper (MMC5). When false, the PPU owns nametable storage and
	// consults Mirroring() to decide how to fold the four logical
	// nametables onto its 2 KiB of VRAM.
	HasExtendedNametableMapping() bool
	// Mirroring reports the mapper's current mirroring mode. Ignored
	// when HasExtendedNametableMapping is true. Most mappers return the
	// cartridge header's fixed value; mappers with a mirroring register
	// (UxROM boards rarely, MMC2, MMC1, ...) report their live state.
	Mirroring() Mirroring

	// OnPPUCtrlWrite/OnPPUMaskWrite let a mapper shadow these registers
	// without the PPU exposing its internals (MMC5 needs both to derive
	// sprite-8x16 mode).
	OnPPUCtrlWrite(v byte)
	OnPPUMaskWrite(v byte)

	// OnPPUFetch notifies the mapper of a PPU pattern/nametable fetch
	// right after the PPU has read it, so fetch-kind-aware banking
	// mappers (MMC5) can react, per spec.md §9. CHR-latch mappers (MMC2)
	// update their latches in PPURead instead and ignore this call.
	OnPPUFetch(addr uint16, kind FetchKind)

	// IRQAsserted reports whether this mapper currently holds its IRQ
	// line high. Level-triggered: stays true until the mapper's own
	// register interface acknowledges it (MMC5's $5204 read).
	IRQAsserted() bool

	Snapshot() MapperSnapshot
	Restore(MapperSnapshot)
}

// MapperSnapshot is a tagged union of every concrete mapper's save-state
// shape. Exactly one of the pointer fields is non-nil, matching
// MapperID. Each sub-snapshot is a plain value struct (arrays, not
// slices) so copying it is a true deep copy.
type MapperSnapshot struct {
	MapperID byte
	NROM     *nromSnapshot
	UxROM    *uxromSnapshot
	MMC2     *mmc2Snapshot
	MMC5     *mmc5Snapshot
}

// NewMapper constructs the mapper for cartridge.MapperID. An unsupported
// id is a RomError, fatal for that ROM (spec.md §7).
func NewMapper(cart *Cartridge) (Mapper, error) {
	switch cart.MapperID {
	case 0:
		return newNROM(cart), nil
	case 2:
		return newUxROM(cart), nil
	case 9:
		return newMMC2(cart), nil
	case 5:
		return newMMC5(cart), nil
	default:
		return nil, &RomError{Kind: UnsupportedMapper, Detail: int8ToHex(cart.MapperID)}
	}
}

func int8ToHex(b byte) string {
	const hexDigits = "0123456789ABCDEF"
	return string([]byte{'0', 'x', hexDigits[b>>4], hexDigits[b&0xF]})
}

// maskBankIndex masks an out-of-range bank index into a valid one
// (spec.md §4.1, §7 BankIndexOutOfRange). Power-of-two counts mask with
// a bitwise AND; anything else falls back to modulo. logged is a
// per-mapper-instance "have we already warned" latch.
func maskBankIndex(index, count int, logged *bool) int {
	if count <= 0 {
		return 0
	}
	if index >= 0 && index < count {
		return index
	}
	if !*logged {
		glog.V(1).Infof("mapper: bank index %d out of range (count=%d), masking", index, count)
		*logged = true
	}
	if count&(count-1) == 0 {
		return index & (count - 1)
	}
	m := index % count
	if m < 0 {
		m += count
	}
	return m
}
