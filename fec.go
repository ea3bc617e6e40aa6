package arq

import (
	"encoding/binary"

	"github.com/klauspost/reedsolomon"
	pool "github.com/libp2p/go-buffer-pool"
	"github.com/pkg/errors"
)

// Datagram-level forward error correction. The encoder wraps outgoing
// datagrams into FEC frames and emits parity frames once per group of
// dataShards datagrams; the decoder regroups incoming frames and rebuilds
// lost datagrams from parity, so the substrate can drop up to
// parityShards frames per group without triggering a retransmit.
//
// Frame layout, little-endian:
//
//	sn:32  cmd:16  size:16  payload
//
// The size prefix participates in parity so rebuilt frames recover the
// exact datagram length.

const (
	fecCmdData       uint16 = 0xf1
	fecCmdParity     uint16 = 0xf0
	fecHeaderSize           = 8
	fecPayloadOffset        = 6 // parity covers size prefix + payload
	fecGroupTTL      uint32 = 10000
)

type FECEncoder struct {
	codec        reedsolomon.Encoder
	dataShards   int
	parityShards int
	shards       int
	next         uint32 // sn of the next emitted frame
	group        [][]byte
	filled       int
	maxLen       int
}

func NewFECEncoder(dataShards, parityShards int) (*FECEncoder, error) {
	codec, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, errors.Wrap(err, "new fec codec")
	}
	enc := &FECEncoder{
		codec:        codec,
		dataShards:   dataShards,
		parityShards: parityShards,
		shards:       dataShards + parityShards,
	}
	enc.group = make([][]byte, enc.shards)
	return enc, nil
}

// Encode stages one datagram. While the group is filling it returns nil;
// when the group completes it returns dataShards+parityShards framed
// shards ready for transmission, in sn order. Returned frames stay valid
// until the next completed group.
func (enc *FECEncoder) Encode(raw []byte) ([][]byte, error) {
	if len(raw) > 0xffff {
		return nil, ErrFECFrameTooLarge
	}

	frame := pool.Get(fecHeaderSize + len(raw))
	binary.LittleEndian.PutUint16(frame[fecPayloadOffset:], uint16(len(raw)))
	copy(frame[fecHeaderSize:], raw)

	enc.group[enc.filled] = frame
	enc.filled++
	if len(frame) > enc.maxLen {
		enc.maxLen = len(frame)
	}
	if enc.filled < enc.dataShards {
		return nil, nil
	}

	// group complete: equalize shard lengths, then build parity over the
	// size-prefixed payload region
	for i := 0; i < enc.dataShards; i++ {
		if pad := enc.maxLen - len(enc.group[i]); pad > 0 {
			enc.group[i] = append(enc.group[i], make([]byte, pad)...)
		}
	}
	for i := enc.dataShards; i < enc.shards; i++ {
		enc.group[i] = pool.Get(enc.maxLen)
	}

	shardData := make([][]byte, enc.shards)
	for i := range enc.group {
		shardData[i] = enc.group[i][fecPayloadOffset:]
	}
	if err := enc.codec.Encode(shardData); err != nil {
		return nil, errors.Wrap(err, "encode fec parity")
	}

	for i, frame := range enc.group {
		cmd := fecCmdData
		if i >= enc.dataShards {
			cmd = fecCmdParity
		}
		binary.LittleEndian.PutUint32(frame[:4], enc.next)
		binary.LittleEndian.PutUint16(frame[4:fecPayloadOffset], cmd)
		enc.next++
	}

	out := enc.group
	enc.group = make([][]byte, enc.shards)
	enc.filled = 0
	enc.maxLen = 0
	return out, nil
}

type fecGroup struct {
	shards   [][]byte
	received int
	decoded  bool
	lastSeen uint32
}

type FECDecoder struct {
	codec        reedsolomon.Encoder
	dataShards   int
	parityShards int
	shards       int
	groups       map[uint32]*fecGroup
}

func NewFECDecoder(dataShards, parityShards int) (*FECDecoder, error) {
	codec, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, errors.Wrap(err, "new fec codec")
	}
	return &FECDecoder{
		codec:        codec,
		dataShards:   dataShards,
		parityShards: parityShards,
		shards:       dataShards + parityShards,
		groups:       make(map[uint32]*fecGroup),
	}, nil
}

// Decode ingests one FEC frame. When enough of the frame's group has
// arrived it returns the group's datagrams, missing ones rebuilt from
// parity; otherwise it returns nil. now is the same millisecond clock
// handed to Update; groups that stall longer than the TTL are dropped.
// Returned slices stay valid until the next Decode call.
func (dec *FECDecoder) Decode(frame []byte, now uint32) ([][]byte, error) {
	if len(frame) < fecHeaderSize {
		return nil, ErrShortFECFrame
	}
	sn := binary.LittleEndian.Uint32(frame)
	cmd := binary.LittleEndian.Uint16(frame[4:])
	if cmd != fecCmdData && cmd != fecCmdParity {
		return nil, ErrUnknownFECCommand
	}

	gid := sn / uint32(dec.shards)
	idx := int(sn % uint32(dec.shards))

	g, ok := dec.groups[gid]
	if !ok {
		g = &fecGroup{shards: make([][]byte, dec.shards)}
		dec.groups[gid] = g
	}
	g.lastSeen = now

	if !g.decoded && g.shards[idx] == nil {
		shard := pool.Get(len(frame))
		copy(shard, frame)
		g.shards[idx] = shard
		g.received++
	}

	var out [][]byte
	if !g.decoded && g.received >= dec.dataShards {
		payloads := make([][]byte, dec.shards)
		for i, shard := range g.shards {
			if shard != nil {
				payloads[i] = shard[fecPayloadOffset:]
			}
		}
		if err := dec.codec.ReconstructData(payloads); err != nil {
			return nil, errors.Wrap(err, "reconstruct fec group")
		}
		g.decoded = true
		for i := 0; i < dec.dataShards; i++ {
			p := payloads[i]
			size := int(binary.LittleEndian.Uint16(p))
			if 2+size <= len(p) {
				out = append(out, p[2:2+size])
			}
		}
	}

	dec.expire(now, gid)
	return out, nil
}

// expire releases groups that stopped receiving frames, keeping the one
// just touched.
func (dec *FECDecoder) expire(now, keep uint32) {
	for gid, g := range dec.groups {
		if gid == keep {
			continue
		}
		if timediff(now, g.lastSeen) > int32(fecGroupTTL) {
			for _, shard := range g.shards {
				if shard != nil {
					pool.Put(shard)
				}
			}
			delete(dec.groups, gid)
		}
	}
}
