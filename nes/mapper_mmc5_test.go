package nes

import "testing"

func newTestMMC5() *mmc5 {
	cart := &Cartridge{
		prgROM: make([]byte, 0x2000*4),
		chrROM: make([]byte, 0x400*8),
	}
	return newMMC5(cart)
}

// TestMMC5ScanlineIRQ covers spec.md's testable property 2 / S2: with
// $5203 set to a target scanline and IRQ enabled, exactly one IRQ
// request must appear once Step reaches dot 1 of that scanline, and
// reading $5204 must withdraw it.
func TestMMC5ScanlineIRQ(t *testing.T) {
	m := newTestMMC5()
	m.CPUWrite(0x5203, 100)
	m.CPUWrite(0x5204, 0x80) // enable IRQ

	// Drive Step through scanlines 0..99 with rendering enabled; dot 1
	// of each scanline is where MMC5 advances its internal counter.
	for scanline := 0; scanline < 100; scanline++ {
		if irq := m.Step(scanline, 1, true); irq {
			t.Fatalf("IRQ asserted early at scanline %d", scanline)
		}
	}
	if irq := m.Step(100, 1, true); !irq {
		t.Fatalf("IRQ not asserted at target scanline 100")
	}
	if !m.IRQAsserted() {
		t.Fatalf("IRQAsserted() false immediately after Step reported an IRQ")
	}

	status := m.CPURead(0x5204)
	if status&0x80 == 0 {
		t.Errorf("$5204 read: bit 7 (pending) not set, got=0x%02x", status)
	}
	if m.IRQAsserted() {
		t.Errorf("IRQAsserted() still true after $5204 read cleared pending")
	}
}

func TestMMC5IRQRequiresEnable(t *testing.T) {
	m := newTestMMC5()
	m.CPUWrite(0x5203, 10)
	// Never write $5204, so irqEnabled stays false.
	for scanline := 0; scanline <= 10; scanline++ {
		if irq := m.Step(scanline, 1, true); irq {
			t.Fatalf("IRQ asserted at scanline %d despite irq_enable=false", scanline)
		}
	}
	if m.IRQAsserted() {
		t.Errorf("IRQAsserted() true despite irq_enable=false")
	}
}

func TestMMC5InFrameClearsWhenRenderingOff(t *testing.T) {
	m := newTestMMC5()
	m.CPUWrite(0x5203, 5)
	m.CPUWrite(0x5204, 0x80)
	m.Step(0, 1, true)
	if !m.inFrame {
		t.Fatalf("inFrame should be set once rendering starts")
	}
	m.Step(1, 1, false)
	if m.inFrame {
		t.Errorf("inFrame should clear once rendering is disabled mid-frame")
	}
}

func TestMMC5SnapshotRoundTrip(t *testing.T) {
	m := newTestMMC5()
	m.CPUWrite(0x5203, 42)
	m.CPUWrite(0x5204, 0x80)
	m.CPUWrite(0x5100, 0x03) // PRG mode 3
	before := m.Snapshot()

	other := newTestMMC5()
	other.Restore(before)
	after := other.Snapshot()
	if *before.MMC5 != *after.MMC5 {
		t.Errorf("snapshot mismatch after restore")
	}
}
