package arq

import "time"

const (
	ARQ_RTO_NDL       uint32 = 30    // min rto when nodelay is on
	ARQ_RTO_MIN       uint32 = 100   // min rto in normal mode
	ARQ_RTO_DEF       uint32 = 200   // initial rto
	ARQ_RTO_MAX       uint32 = 60000 // rto ceiling
	ARQ_CMD_PUSH      uint32 = 81    // cmd: push data to remote
	ARQ_CMD_ACK       uint32 = 82    // cmd: ack
	ARQ_CMD_WASK      uint32 = 83    // cmd: window probe (ask)
	ARQ_CMD_WINS      uint32 = 84    // cmd: window size (tell)
	ARQ_ASK_SEND      uint32 = 1     // need to send ARQ_CMD_WASK
	ARQ_ASK_TELL      uint32 = 2     // need to send ARQ_CMD_WINS
	ARQ_WND_SND       uint32 = 32    // send window size, in segments not bytes
	ARQ_WND_RCV       uint32 = 128   // recv window size, must exceed max fragment count
	ARQ_MTU_DEF       uint32 = 1400  // default mtu
	ARQ_INTERVAL      uint32 = 100   // flush interval
	ARQ_OVERHEAD      uint32 = 24    // segment header size
	ARQ_DEADLINK      uint32 = 20    // transmit count that marks the link dead
	ARQ_THRESH_INIT   uint32 = 2
	ARQ_THRESH_MIN    uint32 = 2
	ARQ_PROBE_INIT    uint32 = 7000   // 7 secs to probe window size
	ARQ_PROBE_LIMIT   uint32 = 120000 // up to 120 secs to probe window
	ARQ_FASTACK_LIMIT int32  = 5      // max times to trigger fast retransmit
)

// OutputCallback receives fully-formed datagrams of at most mtu bytes.
// The buffer is reused across flushes; the callback must copy or transmit
// before returning, and must not re-enter the same control block.
type OutputCallback func(p []byte) error

const ackPackBits = 32

// acklist entries pack (sn, ts) into one uint64.
func unpackACK(ack uint64) (sn, ts uint32) {
	const mask = 1<<ackPackBits - 1
	sn = uint32((ack >> ackPackBits) & mask)
	ts = uint32(ack & mask)
	return
}

func packACK(sn, ts uint32) uint64 {
	const mask = 1<<ackPackBits - 1
	return (uint64(sn) << ackPackBits) | uint64(ts&mask)
}

func removeFront(p []*segment, count int) []*segment {
	if count >= len(p) {
		return p[:0]
	}
	return p[count:]
}

var arqStartTime = time.Now()

// CurrentMS returns monotonic milliseconds since process start, suitable
// as the clock argument to Update and Check.
func CurrentMS() uint32 {
	return uint32(time.Since(arqStartTime) / time.Millisecond)
}

// GetConv decodes the conversation ID from the first 4 bytes of a datagram
// so a demultiplexer can route it before calling Input.
func GetConv(data []byte) uint32 {
	if len(data) < 4 {
		return 0
	}
	var conv uint32
	decode32u(data, &conv)
	return conv
}
