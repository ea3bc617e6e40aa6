package arq

import "sync/atomic"

// segment is the unit of wire traffic and the element of all four queues.
// resendTS, rto, fastACK and xmit are retransmission state and never go on
// the wire.
type segment struct {
	conv     uint32
	cmd      uint32 // one of ARQ_CMD_*
	frg      uint32 // fragment index counting down, 0 is last
	wnd      uint32 // advertised free recv window
	ts       uint32 // sender timestamp
	sn       uint32 // sequence number
	una      uint32 // sender's cumulative-ack point
	resendTS uint32
	rto      uint32
	fastACK  uint32
	xmit     uint32
	data     []byte
}

func (seg *segment) reset() {
	seg.conv, seg.cmd, seg.frg, seg.wnd = 0, 0, 0, 0
	seg.ts, seg.sn, seg.una = 0, 0, 0
	seg.resendTS, seg.rto, seg.fastACK, seg.xmit = 0, 0, 0, 0
	seg.data = nil
}

// ARQ is a single-endpoint control block providing reliable, ordered,
// connection-oriented delivery over an unreliable datagram substrate.
// All methods must be serialized by the caller; see package docs.
type ARQ struct {
	conv, mtu, mss, state             uint32
	sndUNA, sndNext, rcvNext          uint32
	ssthresh                          uint32
	rxRTTVal, rxSRTT, rxRTO, rxMinRTO uint32
	sndWnd, rcvWnd, rmtWnd, cwnd      uint32
	current, interval, tsFlush, xmit  uint32
	noDelay, updated                  uint32
	probe, tsProbe, probeWait         uint32
	deadLink, incr                    uint32
	fastResend, fastLimit             int32
	nocwnd, stream                    bool
	sndQueue, sndBuf                  []*segment
	rcvBuf, rcvQueue                  []*segment
	ackList                           []uint64
	buffer                            *Buffer
	output                            OutputCallback
	logMask                           uint32
	logger                            LogCallback
	stats                             *Stats
}

// NewARQ creates a control block for the given conversation ID. Both
// endpoints of a conversation must use the same ID. The output callback
// may be nil here and installed later with SetOutput, but must be in
// place before the first flush.
func NewARQ(conv uint32, output OutputCallback) *ARQ {
	arq := &ARQ{conv: conv, output: output}
	arq.sndWnd = ARQ_WND_SND
	arq.rcvWnd = ARQ_WND_RCV
	arq.rmtWnd = ARQ_WND_RCV
	arq.mtu = ARQ_MTU_DEF
	arq.mss = arq.mtu - ARQ_OVERHEAD
	arq.rxRTO = ARQ_RTO_DEF
	arq.rxMinRTO = ARQ_RTO_MIN
	arq.interval = ARQ_INTERVAL
	arq.tsFlush = ARQ_INTERVAL
	arq.ssthresh = ARQ_THRESH_INIT
	arq.fastLimit = ARQ_FASTACK_LIMIT
	arq.deadLink = ARQ_DEADLINK
	arq.cwnd = 1
	arq.buffer = NewBuffer(int(arq.mtu + ARQ_OVERHEAD))
	arq.stats = newStats()
	return arq
}

func (arq *ARQ) SetOutput(output OutputCallback) {
	arq.output = output
}

// Send accepts one application payload, fragments it into mss-sized
// segments and appends them to the send queue. Returns 0 on success and
// -2 when the payload would need ARQ_WND_RCV or more fragments, which the
// peer could never reassemble.
func (arq *ARQ) Send(buf []byte) int {
	arq.writeLog(ARQ_LOG_SEND, "send %d bytes", len(buf))

	// stream mode: top up the queued tail segment first
	if arq.stream && len(arq.sndQueue) > 0 {
		tail := arq.sndQueue[len(arq.sndQueue)-1]
		if len(tail.data) < int(arq.mss) {
			capacity := int(arq.mss) - len(tail.data)
			extend := len(buf)
			if extend > capacity {
				extend = capacity
			}
			tail.data = append(tail.data, buf[:extend]...)
			tail.frg = 0
			buf = buf[extend:]
		}
		if len(buf) == 0 {
			return 0
		}
	}

	count := 1
	if len(buf) > int(arq.mss) {
		count = (len(buf) + int(arq.mss) - 1) / int(arq.mss)
	}
	if count >= int(ARQ_WND_RCV) {
		return -2
	}

	// fragment; sn is assigned later when the segment enters the send buffer
	for i := 0; i < count; i++ {
		size := len(buf)
		if size > int(arq.mss) {
			size = int(arq.mss)
		}
		seg := newSegment(size)
		copy(seg.data, buf[:size])
		if arq.stream {
			seg.frg = 0
		} else {
			seg.frg = uint32(count - i - 1)
		}
		arq.sndQueue = append(arq.sndQueue, seg)
		buf = buf[size:]
	}
	return 0
}

// PeekSize reports the byte size of the next complete message in the
// receive queue, or -1 when none is ready.
func (arq *ARQ) PeekSize() (size int) {
	if len(arq.rcvQueue) == 0 {
		return -1
	}

	seg := arq.rcvQueue[0]
	if seg.frg == 0 {
		return len(seg.data)
	}
	if len(arq.rcvQueue) < int(seg.frg+1) {
		return -1
	}

	for _, seg := range arq.rcvQueue {
		size += len(seg.data)
		if seg.frg == 0 {
			break
		}
	}
	return
}

// Recv copies the next complete message into buf and consumes it.
// Returns the message size, -1 when the receive queue is empty, -2 when
// the head message is still missing fragments, -3 when buf is too small.
func (arq *ARQ) Recv(buf []byte) int {
	return arq.receive(buf, false)
}

// Peek is Recv without consuming the message.
func (arq *ARQ) Peek(buf []byte) int {
	return arq.receive(buf, true)
}

func (arq *ARQ) receive(buf []byte, isPeek bool) int {
	if len(arq.rcvQueue) == 0 {
		return -1
	}

	peekSize := arq.PeekSize()
	if peekSize < 0 {
		return -2
	}
	if peekSize > len(buf) {
		return -3
	}

	fastRecover := len(arq.rcvQueue) >= int(arq.rcvWnd)

	// merge fragments
	n := 0
	count := 0
	for _, seg := range arq.rcvQueue {
		copy(buf[n:], seg.data)
		n += len(seg.data)
		count++
		frg := seg.frg
		arq.writeLog(ARQ_LOG_RECV, "recv sn=%d", seg.sn)
		if !isPeek {
			putSegment(seg)
		}
		if frg == 0 {
			break
		}
	}
	if !isPeek && count > 0 {
		arq.rcvQueue = removeFront(arq.rcvQueue, count)
	}

	arq.moveToRecvQueue()

	// the queue was full and has room again: advertise the reopened
	// window with ARQ_CMD_WINS on the next flush
	if len(arq.rcvQueue) < int(arq.rcvWnd) && fastRecover {
		arq.probe |= ARQ_ASK_TELL
	}

	return n
}

// moveToRecvQueue drains the contiguous prefix of rcvBuf into rcvQueue.
func (arq *ARQ) moveToRecvQueue() {
	count := 0
	for _, seg := range arq.rcvBuf {
		if seg.sn == arq.rcvNext && len(arq.rcvQueue) < int(arq.rcvWnd) {
			arq.rcvQueue = append(arq.rcvQueue, seg)
			arq.rcvNext++
			count++
		} else {
			break
		}
	}
	if count > 0 {
		arq.rcvBuf = removeFront(arq.rcvBuf, count)
	}
}

func (arq *ARQ) updateRTT(rtt uint32) {
	if arq.rxSRTT == 0 {
		arq.rxSRTT = rtt
		arq.rxRTTVal = rtt / 2
	} else {
		delta := timediff(rtt, arq.rxSRTT)
		if delta < 0 {
			delta = -delta
		}
		arq.rxRTTVal = (3*arq.rxRTTVal + uint32(delta)) / 4
		arq.rxSRTT = (7*arq.rxSRTT + rtt) / 8
		if arq.rxSRTT < 1 {
			arq.rxSRTT = 1
		}
	}
	rto := arq.rxSRTT + max(arq.interval, 4*arq.rxRTTVal)
	arq.rxRTO = bound(arq.rxMinRTO, rto, ARQ_RTO_MAX)
}

// shrinkSendBuf recomputes sndUNA from the send buffer head.
func (arq *ARQ) shrinkSendBuf() {
	if len(arq.sndBuf) > 0 {
		arq.sndUNA = arq.sndBuf[0].sn
	} else {
		arq.sndUNA = arq.sndNext
	}
}

func (arq *ARQ) parseACK(sn uint32) {
	if timediff(sn, arq.sndUNA) < 0 || timediff(sn, arq.sndNext) >= 0 {
		return
	}

	for i, seg := range arq.sndBuf {
		if sn == seg.sn {
			arq.sndBuf = append(arq.sndBuf[:i], arq.sndBuf[i+1:]...)
			putSegment(seg)
			break
		}
		if timediff(sn, seg.sn) < 0 {
			break
		}
	}
}

func (arq *ARQ) parseUNA(una uint32) {
	count := 0
	for _, seg := range arq.sndBuf {
		if timediff(una, seg.sn) > 0 {
			putSegment(seg)
			count++
		} else {
			break
		}
	}
	if count > 0 {
		arq.sndBuf = removeFront(arq.sndBuf, count)
	}
}

func (arq *ARQ) parseFastACK(sn, ts uint32) {
	if timediff(sn, arq.sndUNA) < 0 || timediff(sn, arq.sndNext) >= 0 {
		return
	}

	for _, seg := range arq.sndBuf {
		if timediff(sn, seg.sn) < 0 {
			break
		} else if sn != seg.sn {
			seg.fastACK++
		}
	}
}

// parseData inserts an incoming data segment into rcvBuf in sn order,
// discarding duplicates, then drains the contiguous prefix.
func (arq *ARQ) parseData(newseg *segment) {
	sn := newseg.sn
	if timediff(sn, arq.rcvNext+arq.rcvWnd) >= 0 || timediff(sn, arq.rcvNext) < 0 {
		putSegment(newseg)
		return
	}

	repeat := false
	insertIdx := len(arq.rcvBuf)
	for i := len(arq.rcvBuf) - 1; i >= 0; i-- {
		seg := arq.rcvBuf[i]
		if seg.sn == sn {
			repeat = true
			break
		}
		if timediff(sn, seg.sn) > 0 {
			break
		}
		insertIdx = i
	}

	if repeat {
		putSegment(newseg)
	} else {
		arq.rcvBuf = append(arq.rcvBuf, nil)
		copy(arq.rcvBuf[insertIdx+1:], arq.rcvBuf[insertIdx:])
		arq.rcvBuf[insertIdx] = newseg
	}

	arq.moveToRecvQueue()
}

// Input decomposes one incoming datagram into segments and feeds them to
// the control block. Returns 0 on success, -1 for a short datagram or a
// conversation mismatch, -2 for a declared payload length exceeding the
// buffer, -3 for an unknown command.
func (arq *ARQ) Input(data []byte) int {
	prevUNA := arq.sndUNA
	var maxACK, latestTS uint32
	ackFlag := false

	arq.writeLog(ARQ_LOG_INPUT, "input %d bytes", len(data))

	if len(data) < int(ARQ_OVERHEAD) {
		return -1
	}

	atomic.AddUint64(&arq.stats.InDatagrams, 1)
	atomic.AddUint64(&arq.stats.InBytes, uint64(len(data)))

	for len(data) >= int(ARQ_OVERHEAD) {
		var conv, ts, sn, una, length uint32
		var wnd uint16
		var cmd, frg uint8

		data = decode32u(data, &conv)
		if conv != arq.conv {
			return -1
		}
		data = decode8u(data, &cmd)
		data = decode8u(data, &frg)
		data = decode16u(data, &wnd)
		data = decode32u(data, &ts)
		data = decode32u(data, &sn)
		data = decode32u(data, &una)
		data = decode32u(data, &length)

		if len(data) < int(length) {
			return -2
		}
		if uint32(cmd) != ARQ_CMD_PUSH && uint32(cmd) != ARQ_CMD_ACK &&
			uint32(cmd) != ARQ_CMD_WASK && uint32(cmd) != ARQ_CMD_WINS {
			return -3
		}

		arq.rmtWnd = uint32(wnd)
		arq.parseUNA(una)
		arq.shrinkSendBuf()

		switch uint32(cmd) {
		case ARQ_CMD_ACK:
			if timediff(arq.current, ts) >= 0 {
				arq.updateRTT(uint32(timediff(arq.current, ts)))
			}
			arq.parseACK(sn)
			arq.shrinkSendBuf()
			if !ackFlag {
				ackFlag = true
				maxACK = sn
				latestTS = ts
			} else if timediff(sn, maxACK) > 0 {
				maxACK = sn
				latestTS = ts
			}
			atomic.AddUint64(&arq.stats.InACKs, 1)
			arq.writeLog(ARQ_LOG_IN_ACK, "input ack: sn=%d rtt=%d rto=%d",
				sn, timediff(arq.current, ts), arq.rxRTO)
		case ARQ_CMD_PUSH:
			arq.writeLog(ARQ_LOG_IN_DATA, "input psh: sn=%d ts=%d", sn, ts)
			if timediff(sn, arq.rcvNext+arq.rcvWnd) < 0 {
				arq.ackList = append(arq.ackList, packACK(sn, ts))
				atomic.AddUint64(&arq.stats.InSegs, 1)
				if timediff(sn, arq.rcvNext) >= 0 {
					seg := newSegment(int(length))
					seg.conv = conv
					seg.cmd = uint32(cmd)
					seg.frg = uint32(frg)
					seg.wnd = uint32(wnd)
					seg.ts = ts
					seg.sn = sn
					seg.una = una
					copy(seg.data, data[:length])
					arq.parseData(seg)
				}
			}
		case ARQ_CMD_WASK:
			// answer with ARQ_CMD_WINS on the next flush
			arq.probe |= ARQ_ASK_TELL
			arq.writeLog(ARQ_LOG_IN_PROBE, "input probe")
		case ARQ_CMD_WINS:
			arq.writeLog(ARQ_LOG_IN_WINS, "input wins: %d", wnd)
		}

		data = data[length:]
	}

	if ackFlag {
		arq.parseFastACK(maxACK, latestTS)
	}

	// grow the congestion window when the cumulative ack point advanced
	if timediff(arq.sndUNA, prevUNA) > 0 && arq.cwnd < arq.rmtWnd {
		mss := arq.mss
		if arq.cwnd < arq.ssthresh {
			arq.cwnd++
			arq.incr += mss
		} else {
			if arq.incr < mss {
				arq.incr = mss
			}
			arq.incr += (mss*mss)/arq.incr + (mss / 16)
			if (arq.cwnd+1)*mss <= arq.incr {
				arq.cwnd = (arq.incr + mss - 1) / mss
			}
		}
		if arq.cwnd > arq.rmtWnd {
			arq.cwnd = arq.rmtWnd
			arq.incr = arq.rmtWnd * mss
		}
	}

	return 0
}

func (arq *ARQ) windowUnused() uint32 {
	if len(arq.rcvQueue) < int(arq.rcvWnd) {
		return arq.rcvWnd - uint32(len(arq.rcvQueue))
	}
	return 0
}

func (arq *ARQ) doOutput(data []byte) {
	arq.writeLog(ARQ_LOG_OUTPUT, "output %d bytes", len(data))
	if len(data) == 0 || arq.output == nil {
		return
	}
	atomic.AddUint64(&arq.stats.OutDatagrams, 1)
	atomic.AddUint64(&arq.stats.OutBytes, uint64(len(data)))
	if err := arq.output(data); err != nil {
		atomic.AddUint64(&arq.stats.OutErrors, 1)
	}
}

func (arq *ARQ) emitBuffer() {
	if arq.buffer.Len() == 0 {
		return
	}
	arq.doOutput(arq.buffer.Data())
	arq.buffer.Reset()
}

// Flush assembles pending ACKs, window probes and data segments into
// MTU-bounded datagrams and hands them to the output callback. Called
// automatically by Update; exposed for embedders that drive the block
// manually after Send or Input.
func (arq *ARQ) Flush() {
	arq.flush()
}

func (arq *ARQ) flush() {
	// Update has never been called
	if arq.updated == 0 {
		return
	}

	current := arq.current

	var seg segment
	seg.conv = arq.conv
	seg.cmd = ARQ_CMD_ACK
	seg.wnd = arq.windowUnused()
	seg.una = arq.rcvNext

	makeSpace := func(need int) {
		if arq.buffer.Len()+need > int(arq.mtu) {
			arq.emitBuffer()
		}
	}

	// pending acknowledgements
	for _, ack := range arq.ackList {
		makeSpace(int(ARQ_OVERHEAD))
		seg.sn, seg.ts = unpackACK(ack)
		arq.buffer.WriteHeader(&seg)
		atomic.AddUint64(&arq.stats.OutACKs, 1)
		arq.writeLog(ARQ_LOG_OUT_ACK, "output ack: sn=%d", seg.sn)
	}
	arq.ackList = arq.ackList[:0]
	seg.sn, seg.ts = 0, 0

	// probe the window while the peer advertises zero, with backoff
	if arq.rmtWnd == 0 {
		if arq.probeWait == 0 {
			arq.probeWait = ARQ_PROBE_INIT
			arq.tsProbe = current + arq.probeWait
		} else if timediff(current, arq.tsProbe) >= 0 {
			if arq.probeWait < ARQ_PROBE_INIT {
				arq.probeWait = ARQ_PROBE_INIT
			}
			arq.probeWait += arq.probeWait / 2
			if arq.probeWait > ARQ_PROBE_LIMIT {
				arq.probeWait = ARQ_PROBE_LIMIT
			}
			arq.tsProbe = current + arq.probeWait
			arq.probe |= ARQ_ASK_SEND
		}
	} else {
		arq.tsProbe = 0
		arq.probeWait = 0
	}

	if arq.probe&ARQ_ASK_SEND != 0 {
		seg.cmd = ARQ_CMD_WASK
		makeSpace(int(ARQ_OVERHEAD))
		arq.buffer.WriteHeader(&seg)
		atomic.AddUint64(&arq.stats.ProbesSent, 1)
		arq.writeLog(ARQ_LOG_OUT_PROBE, "output probe ask")
	}
	if arq.probe&ARQ_ASK_TELL != 0 {
		seg.cmd = ARQ_CMD_WINS
		makeSpace(int(ARQ_OVERHEAD))
		arq.buffer.WriteHeader(&seg)
		arq.writeLog(ARQ_LOG_OUT_WINS, "output wins: %d", seg.wnd)
	}
	arq.probe = 0

	// effective window
	cwnd := min(arq.sndWnd, arq.rmtWnd)
	if !arq.nocwnd {
		cwnd = min(arq.cwnd, cwnd)
	}

	// promote send queue into the send buffer
	promoted := 0
	for _, newseg := range arq.sndQueue {
		if timediff(arq.sndNext, arq.sndUNA+cwnd) >= 0 {
			break
		}
		newseg.conv = arq.conv
		newseg.cmd = ARQ_CMD_PUSH
		newseg.wnd = seg.wnd
		newseg.ts = current
		newseg.sn = arq.sndNext
		newseg.una = arq.rcvNext
		newseg.resendTS = current
		newseg.rto = arq.rxRTO
		newseg.fastACK = 0
		newseg.xmit = 0
		arq.sndBuf = append(arq.sndBuf, newseg)
		arq.sndNext++
		promoted++
	}
	if promoted > 0 {
		arq.sndQueue = removeFront(arq.sndQueue, promoted)
	}

	resent := uint32(0xffffffff)
	if arq.fastResend > 0 {
		resent = uint32(arq.fastResend)
	}
	var rtomin uint32
	if arq.noDelay == 0 {
		rtomin = arq.rxRTO >> 3
	}

	lost := false
	change := false

	// per-segment send decision: first transmit, timeout, fast retransmit
	for _, segp := range arq.sndBuf {
		needSend := false
		if segp.xmit == 0 {
			needSend = true
			segp.xmit++
			segp.rto = arq.rxRTO
			segp.resendTS = current + segp.rto + rtomin
		} else if timediff(current, segp.resendTS) >= 0 {
			needSend = true
			segp.xmit++
			arq.xmit++
			switch arq.noDelay {
			case 0:
				segp.rto += max(segp.rto, arq.rxRTO)
			case 1:
				segp.rto += segp.rto / 2
			default:
				segp.rto += arq.rxRTO / 2
			}
			segp.resendTS = current + segp.rto
			lost = true
			atomic.AddUint64(&arq.stats.TimeoutRetrans, 1)
		} else if segp.fastACK >= resent {
			if int32(segp.xmit) <= arq.fastLimit || arq.fastLimit <= 0 {
				needSend = true
				segp.xmit++
				segp.fastACK = 0
				segp.resendTS = current + segp.rto
				change = true
				atomic.AddUint64(&arq.stats.FastRetrans, 1)
			}
		}

		if needSend {
			segp.ts = current
			segp.wnd = seg.wnd
			segp.una = arq.rcvNext
			makeSpace(int(ARQ_OVERHEAD) + len(segp.data))
			arq.buffer.WriteHeader(segp)
			arq.buffer.Write(segp.data)
			atomic.AddUint64(&arq.stats.OutSegs, 1)
			arq.writeLog(ARQ_LOG_OUT_DATA, "output psh: sn=%d ts=%d xmit=%d",
				segp.sn, segp.ts, segp.xmit)
			if segp.xmit >= arq.deadLink {
				arq.state = 0xffffffff
			}
		}
	}

	arq.emitBuffer()

	// congestion response
	if change {
		inflight := arq.sndNext - arq.sndUNA
		arq.ssthresh = inflight / 2
		if arq.ssthresh < ARQ_THRESH_MIN {
			arq.ssthresh = ARQ_THRESH_MIN
		}
		arq.cwnd = arq.ssthresh + resent
		arq.incr = arq.cwnd * arq.mss
	}
	if lost {
		arq.ssthresh = cwnd / 2
		if arq.ssthresh < ARQ_THRESH_MIN {
			arq.ssthresh = ARQ_THRESH_MIN
		}
		arq.cwnd = 1
		arq.incr = arq.mss
	}
	if arq.cwnd < 1 {
		arq.cwnd = 1
		arq.incr = arq.mss
	}
}

// Update drives the timers. Call it periodically with a monotonic
// millisecond clock; Check tells you how long the next sleep may be.
func (arq *ARQ) Update(current uint32) {
	arq.current = current

	if arq.updated == 0 {
		arq.updated = 1
		arq.tsFlush = arq.current
	}

	slap := timediff(arq.current, arq.tsFlush)
	if slap >= 10000 || slap < -10000 {
		arq.tsFlush = arq.current
		slap = 0
	}

	if slap >= 0 {
		arq.tsFlush += arq.interval
		if timediff(arq.current, arq.tsFlush) >= 0 {
			arq.tsFlush = arq.current + arq.interval
		}
		arq.flush()
	}
}

// Check returns the absolute time of the next deadline so the caller can
// sleep precisely between Update calls. Never earlier than current.
func (arq *ARQ) Check(current uint32) uint32 {
	tsFlush := arq.tsFlush
	tmPacket := int32(0x7fffffff)

	if arq.updated == 0 {
		return current
	}

	if timediff(current, tsFlush) >= 10000 || timediff(current, tsFlush) < -10000 {
		tsFlush = current
	}
	if timediff(current, tsFlush) >= 0 {
		return current
	}

	tmFlush := timediff(tsFlush, current)

	for _, seg := range arq.sndBuf {
		diff := timediff(seg.resendTS, current)
		if diff <= 0 {
			return current
		}
		if diff < tmPacket {
			tmPacket = diff
		}
	}

	minimal := uint32(tmPacket)
	if tmPacket >= tmFlush {
		minimal = uint32(tmFlush)
	}
	if minimal >= arq.interval {
		minimal = arq.interval
	}

	return current + minimal
}

// SetMTU changes the maximum datagram size. Values below 50 bytes or the
// header size are rejected with -1.
func (arq *ARQ) SetMTU(mtu int) int {
	if mtu < 50 || mtu < int(ARQ_OVERHEAD) {
		return -1
	}
	if arq.mtu == uint32(mtu) {
		return 0
	}
	arq.mtu = uint32(mtu)
	arq.mss = arq.mtu - ARQ_OVERHEAD
	arq.buffer = NewBuffer(mtu + int(ARQ_OVERHEAD))
	return 0
}

func (arq *ARQ) MTU() int {
	return int(arq.mtu)
}

// SetInterval clamps the flush cadence to [10, 5000] ms.
func (arq *ARQ) SetInterval(interval int) {
	if interval > 5000 {
		interval = 5000
	} else if interval < 10 {
		interval = 10
	}
	arq.interval = uint32(interval)
}

// SetNoDelay tunes latency behavior. nodelay selects the retransmit RTO
// growth curve (0 conservative, 1 aggressive, 2 aggressive with a coarser
// half-step) and drops the minimum RTO to ARQ_RTO_NDL when nonzero.
// interval is the flush cadence, resend the fast-retransmit threshold
// (0 disables), nc nonzero disables the congestion window. Negative
// arguments leave the corresponding field unchanged.
func (arq *ARQ) SetNoDelay(nodelay, interval, resend, nc int) {
	if nodelay >= 0 {
		arq.noDelay = uint32(nodelay)
		if nodelay != 0 {
			arq.rxMinRTO = ARQ_RTO_NDL
		} else {
			arq.rxMinRTO = ARQ_RTO_MIN
		}
	}
	if interval >= 0 {
		arq.SetInterval(interval)
	}
	if resend >= 0 {
		arq.fastResend = int32(resend)
	}
	if nc >= 0 {
		arq.nocwnd = nc != 0
	}
}

// SetWndSize configures the send and receive windows in segments. The
// receive window is raised to at least ARQ_WND_RCV so any legal fragment
// count fits. Non-positive values leave the corresponding field unchanged.
func (arq *ARQ) SetWndSize(sndWnd, rcvWnd int) {
	if sndWnd > 0 {
		arq.sndWnd = uint32(sndWnd)
	}
	if rcvWnd > 0 {
		arq.rcvWnd = max(uint32(rcvWnd), ARQ_WND_RCV)
	}
}

func (arq *ARQ) WndSize() (sndWnd, rcvWnd int) {
	return int(arq.sndWnd), int(arq.rcvWnd)
}

// SetStreamMode switches between message mode (fragment boundaries
// preserved) and stream mode (trailing partial segments coalesce on
// Send). Switching mid-flight is not supported.
func (arq *ARQ) SetStreamMode(on bool) {
	arq.stream = on
}

// SetMinRTO overrides the minimum retransmission timeout.
func (arq *ARQ) SetMinRTO(minRTO int) {
	if minRTO > 0 {
		arq.rxMinRTO = uint32(minRTO)
	}
}

func (arq *ARQ) SetLogMask(mask uint32) {
	arq.logMask = mask
}

func (arq *ARQ) SetLogger(logger LogCallback) {
	arq.logger = logger
}

func (arq *ARQ) Conv() uint32 {
	return arq.conv
}

// State is 0 while the link is healthy and 0xffffffff once a single
// segment has been transmitted deadLink times. Advisory: the block keeps
// operating and the embedder decides whether to tear down.
func (arq *ARQ) State() uint32 {
	return arq.state
}

// WaitSend counts segments not yet acknowledged, queued plus in flight.
func (arq *ARQ) WaitSend() int {
	return len(arq.sndBuf) + len(arq.sndQueue)
}

func (arq *ARQ) Stats() *Stats {
	return arq.stats
}
