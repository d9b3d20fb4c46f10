package x25

import "testing"

func TestAccumulatorInit(t *testing.T) {
	a := New()
	if a.Sum16() != Init {
		t.Fatalf("expected initial sum %#04x, got %#04x", Init, a.Sum16())
	}

	a.Accumulate(0x42)
	a.Reset()
	if a.Sum16() != Init {
		t.Fatalf("expected sum %#04x after reset, got %#04x", Init, a.Sum16())
	}
}

func TestAccumulateBytesMatchesLoop(t *testing.T) {
	data := []byte{0x09, 0x00, 0x01, 0x01, 0x00, 0xDE, 0xAD, 0xBE, 0xEF}

	loop := New()
	for _, b := range data {
		loop.Accumulate(b)
	}

	bulk := New()
	bulk.AccumulateBytes(data)

	if loop.Sum16() != bulk.Sum16() {
		t.Fatalf("loop sum %#04x != bulk sum %#04x", loop.Sum16(), bulk.Sum16())
	}
}

func TestLowHighBytes(t *testing.T) {
	a := New()
	a.AccumulateBytes([]byte("groundlink"))

	sum := a.Sum16()
	if a.Low() != byte(sum&0xFF) {
		t.Fatalf("low byte %#02x does not match sum %#04x", a.Low(), sum)
	}
	if a.High() != byte(sum>>8) {
		t.Fatalf("high byte %#02x does not match sum %#04x", a.High(), sum)
	}
}

func TestFrameChecksumDeterministic(t *testing.T) {
	header := []byte{0x09, 0x00, 0x01, 0x01, 0x00}
	payload := []byte{0x00, 0x00, 0x00, 0x00, 0x02, 0x03, 0x80, 0x03, 0x03}

	first := FrameChecksum(header, payload, 50)
	second := FrameChecksum(header, payload, 50)
	if first != second {
		t.Fatalf("checksum not deterministic: %#04x vs %#04x", first, second)
	}
}

func TestFrameChecksumOrderMatters(t *testing.T) {
	header := []byte{0x01, 0x02}
	payload := []byte{0x03, 0x04}

	forward := FrameChecksum(header, payload, 7)
	swapped := FrameChecksum(payload, header, 7)
	if forward == swapped {
		t.Fatal("swapping header and payload did not change the checksum")
	}
}

func TestFrameChecksumBitFlip(t *testing.T) {
	header := []byte{0x09, 0x00, 0x01, 0x01, 0x00}
	payload := []byte{0x00, 0x00, 0x00, 0x00, 0x02, 0x03, 0x80, 0x03, 0x03}
	base := FrameChecksum(header, payload, 50)

	for i := range header {
		for bit := 0; bit < 8; bit++ {
			mut := append([]byte(nil), header...)
			mut[i] ^= 1 << bit
			if FrameChecksum(mut, payload, 50) == base {
				t.Fatalf("header bit flip at byte %d bit %d not detected", i, bit)
			}
		}
	}
	for i := range payload {
		for bit := 0; bit < 8; bit++ {
			mut := append([]byte(nil), payload...)
			mut[i] ^= 1 << bit
			if FrameChecksum(header, mut, 50) == base {
				t.Fatalf("payload bit flip at byte %d bit %d not detected", i, bit)
			}
		}
	}
}

func TestCrcExtraSeedChangesChecksum(t *testing.T) {
	header := []byte{0x09, 0x00, 0x01, 0x01, 0x00}
	payload := []byte{0x00, 0x00, 0x00, 0x00, 0x02, 0x03, 0x80, 0x03, 0x03}

	if FrameChecksum(header, payload, 50) == FrameChecksum(header, payload, 51) {
		t.Fatal("different crc-extra seeds produced the same checksum")
	}
}
