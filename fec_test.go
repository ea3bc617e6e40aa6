package arq

import (
	"bytes"
	"math/rand"
	"testing"
)

func fecTestPayloads(rng *rand.Rand, sizes ...int) [][]byte {
	out := make([][]byte, len(sizes))
	for i, size := range sizes {
		out[i] = make([]byte, size)
		rng.Read(out[i])
	}
	return out
}

func TestFECRecoversDroppedFrames(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	enc, err := NewFECEncoder(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewFECDecoder(3, 2)
	if err != nil {
		t.Fatal(err)
	}

	payloads := fecTestPayloads(rng, 100, 50, 77)

	var frames [][]byte
	for i, p := range payloads {
		out, err := enc.Encode(p)
		if err != nil {
			t.Fatal(err)
		}
		if i < 2 && out != nil {
			t.Fatal("group should not complete before dataShards frames")
		}
		if i == 2 {
			frames = out
		}
	}
	if len(frames) != 5 {
		t.Fatalf("completed group has %d frames, want 5", len(frames))
	}

	// drop one data frame and one parity frame
	var recovered [][]byte
	for _, idx := range []int{1, 2, 4} {
		out, err := dec.Decode(frames[idx], 0)
		if err != nil {
			t.Fatal(err)
		}
		if out != nil {
			recovered = out
		}
	}

	if len(recovered) != 3 {
		t.Fatalf("recovered %d datagrams, want 3", len(recovered))
	}
	for i, p := range payloads {
		if !bytes.Equal(recovered[i], p) {
			t.Fatalf("datagram %d differs after recovery", i)
		}
	}
}

func TestFECAllFramesArrive(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	enc, _ := NewFECEncoder(3, 2)
	dec, _ := NewFECDecoder(3, 2)

	payloads := fecTestPayloads(rng, 700, 1, 1300)
	var frames [][]byte
	for _, p := range payloads {
		out, err := enc.Encode(p)
		if err != nil {
			t.Fatal(err)
		}
		if out != nil {
			frames = out
		}
	}

	var recovered [][]byte
	for _, f := range frames {
		out, err := dec.Decode(f, 0)
		if err != nil {
			t.Fatal(err)
		}
		if out != nil {
			recovered = out
		}
	}
	for i, p := range payloads {
		if !bytes.Equal(recovered[i], p) {
			t.Fatalf("datagram %d differs", i)
		}
	}
}

func TestFECFrameValidation(t *testing.T) {
	dec, _ := NewFECDecoder(3, 2)

	if _, err := dec.Decode([]byte{1, 2, 3}, 0); err != ErrShortFECFrame {
		t.Fatalf("short frame error = %v", err)
	}

	bad := make([]byte, fecHeaderSize)
	bad[4], bad[5] = 0x99, 0x99
	if _, err := dec.Decode(bad, 0); err != ErrUnknownFECCommand {
		t.Fatalf("unknown command error = %v", err)
	}

	enc, _ := NewFECEncoder(3, 2)
	if _, err := enc.Encode(make([]byte, 0x10000)); err != ErrFECFrameTooLarge {
		t.Fatalf("oversized payload error = %v", err)
	}
}

func TestFECStaleGroupsExpire(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	enc, _ := NewFECEncoder(2, 1)
	dec, _ := NewFECDecoder(2, 1)

	var first, second [][]byte
	for _, p := range fecTestPayloads(rng, 10, 20) {
		if out, _ := enc.Encode(p); out != nil {
			first = out
		}
	}
	for _, p := range fecTestPayloads(rng, 30, 40) {
		if out, _ := enc.Encode(p); out != nil {
			second = out
		}
	}

	// one frame of the first group, then silence past the TTL
	if _, err := dec.Decode(first[0], 0); err != nil {
		t.Fatal(err)
	}
	if _, err := dec.Decode(second[0], fecGroupTTL+5000); err != nil {
		t.Fatal(err)
	}

	if len(dec.groups) != 1 {
		t.Fatalf("stale group not expired, %d groups live", len(dec.groups))
	}
}
