package magellan

import (
	"testing"

	"github.com/relabs-tech/motion_controller/device"
)

// encodeWord builds the four wire characters for an axis count, the
// inverse of decodeWord.
func encodeWord(count int) []byte {
	w := count + 32768
	return []byte{
		nibbleChars[(w>>12)&0xF],
		nibbleChars[(w>>8)&0xF],
		nibbleChars[(w>>4)&0xF],
		nibbleChars[w&0xF],
	}
}

func axesPacket(counts [6]int) []byte {
	pkt := []byte{axisPacket}
	for _, c := range counts {
		pkt = append(pkt, encodeWord(c)...)
	}
	return pkt
}

func TestDecodeWordRoundTrip(t *testing.T) {
	for _, count := range []int{0, 1, -1, 400, -400, 32767, -32768} {
		got, ok := decodeWord(encodeWord(count))
		if !ok {
			t.Fatalf("decodeWord rejected encoding of %d", count)
		}
		if got != count {
			t.Errorf("decodeWord(encodeWord(%d)) = %d", count, got)
		}
	}
}

func TestDecodeWordInvalidCharacter(t *testing.T) {
	if _, ok := decodeWord([]byte("H0x0")); ok {
		t.Errorf("decodeWord accepted an invalid character")
	}
}

func TestDecodeAxesPacket(t *testing.T) {
	d := &Device{}
	d.decode(axesPacket([6]int{400, -200, 0, 0, 0, 100}))

	want := [6]float64{1, -0.5, 0, 0, 0, 0.25}
	if d.axes != want {
		t.Errorf("axes = %v, want %v", d.axes, want)
	}

	x, err := d.Read(device.ComponentX)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if x != 1 {
		t.Errorf("Read(x) = %v, want 1", x)
	}
}

func TestDecodeMalformedPacketDiscarded(t *testing.T) {
	d := &Device{}
	d.decode(axesPacket([6]int{400, 0, 0, 0, 0, 0}))

	// Truncated packet: state must not move.
	d.decode([]byte("dH000H000"))
	if d.axes[0] != 1 {
		t.Errorf("truncated packet changed state: axes = %v", d.axes)
	}

	// Corrupt character inside a full-length packet: discarded whole.
	pkt := axesPacket([6]int{0, 0, 0, 0, 0, 0})
	pkt[2] = 'x'
	d.decode(pkt)
	if d.axes[0] != 1 {
		t.Errorf("corrupt packet changed state: axes = %v", d.axes)
	}
}

func TestDecodeButtons(t *testing.T) {
	d := &Device{}

	d.decode([]byte{buttonPacket, nibbleChars[1], '0', '0'})
	if !d.btn[0] || d.btn[1] {
		t.Errorf("button bits after left press: %v", d.btn)
	}

	d.decode([]byte{buttonPacket, nibbleChars[3], '0', '0'})
	if !d.btn[0] || !d.btn[1] {
		t.Errorf("button bits after both pressed: %v", d.btn)
	}

	d.decode([]byte{buttonPacket, nibbleChars[0], '0', '0'})
	if d.btn[0] || d.btn[1] {
		t.Errorf("button bits after release: %v", d.btn)
	}

	b0, err := d.Read(device.ComponentButton0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if b0 != 0 {
		t.Errorf("Read(button-0) = %v, want 0", b0)
	}
}

func TestVersionBannerIgnored(t *testing.T) {
	d := &Device{}
	d.decode(axesPacket([6]int{100, 0, 0, 0, 0, 0}))
	d.decode([]byte("vMAGELLAN  Version 6.70"))
	if d.axes[0] != 0.25 {
		t.Errorf("version banner changed state: axes = %v", d.axes)
	}
}
