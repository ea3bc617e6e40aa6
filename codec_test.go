package arq

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	seg := &segment{
		conv: 0x11223344,
		cmd:  ARQ_CMD_PUSH,
		frg:  3,
		wnd:  77,
		ts:   0xdeadbeef,
		sn:   0xfffffffe,
		una:  42,
		data: []byte("payload"),
	}

	raw := make([]byte, ARQ_OVERHEAD)
	rest := encodeSegment(raw, seg)
	if len(rest) != 0 {
		t.Fatalf("header should occupy exactly %d bytes, %d left", ARQ_OVERHEAD, len(rest))
	}

	var conv, ts, sn, una, length uint32
	var wnd uint16
	var cmd, frg uint8
	p := decode32u(raw, &conv)
	p = decode8u(p, &cmd)
	p = decode8u(p, &frg)
	p = decode16u(p, &wnd)
	p = decode32u(p, &ts)
	p = decode32u(p, &sn)
	p = decode32u(p, &una)
	decode32u(p, &length)

	if conv != seg.conv || uint32(cmd) != seg.cmd || uint32(frg) != seg.frg ||
		uint32(wnd) != seg.wnd || ts != seg.ts || sn != seg.sn || una != seg.una {
		t.Fatalf("decoded header differs: conv=%x cmd=%d frg=%d wnd=%d ts=%x sn=%x una=%d",
			conv, cmd, frg, wnd, ts, sn, una)
	}
	if int(length) != len(seg.data) {
		t.Fatalf("length field %d, want %d", length, len(seg.data))
	}
}

func TestBufferWriteHeader(t *testing.T) {
	b := NewBuffer(int(ARQ_MTU_DEF + ARQ_OVERHEAD))
	seg := &segment{conv: 7, cmd: ARQ_CMD_ACK, sn: 9}
	b.WriteHeader(seg)
	b.Write([]byte{1, 2, 3})
	if b.Len() != int(ARQ_OVERHEAD)+3 {
		t.Fatalf("buffer length %d", b.Len())
	}

	want := make([]byte, ARQ_OVERHEAD)
	encodeSegment(want, seg)
	if !bytes.Equal(b.Data()[:ARQ_OVERHEAD], want) {
		t.Fatal("staged header differs from encodeSegment")
	}

	b.Reset()
	if b.Len() != 0 {
		t.Fatal("reset should empty the buffer")
	}
}

func TestGetConv(t *testing.T) {
	raw := make([]byte, ARQ_OVERHEAD)
	encodeSegment(raw, &segment{conv: 0xcafebabe})
	if got := GetConv(raw); got != 0xcafebabe {
		t.Fatalf("GetConv = %x", got)
	}
	if got := GetConv(raw[:3]); got != 0 {
		t.Fatalf("GetConv on short input = %x, want 0", got)
	}
}

func TestTimediffWraparound(t *testing.T) {
	if timediff(1, 0xffffffff) != 2 {
		t.Fatalf("timediff across wrap = %d, want 2", timediff(1, 0xffffffff))
	}
	if timediff(0xffffffff, 1) != -2 {
		t.Fatalf("timediff across wrap = %d, want -2", timediff(0xffffffff, 1))
	}
	if timediff(5, 5) != 0 {
		t.Fatal("timediff of equal values should be 0")
	}
}

func TestACKPacking(t *testing.T) {
	sn, ts := unpackACK(packACK(0xfffffff0, 0x01020304))
	if sn != 0xfffffff0 || ts != 0x01020304 {
		t.Fatalf("unpacked (%x, %x)", sn, ts)
	}
}
