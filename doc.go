/*
Package arq implements a reliable, ordered, connection-oriented message
transport on top of an unreliable datagram substrate, typically UDP. It
trades bandwidth for latency: retransmission is driven by a tunable tick
instead of TCP's conservative timers, so delivery stalls far less under
loss.

The package is only the per-endpoint state machine. It never touches a
socket or a clock: the embedder supplies datagrams through Input, drains
them through an output callback, and drives the timers by calling Update
with a monotonic millisecond timestamp. Check reports the next deadline
so an event loop can sleep precisely. Session demultiplexing (GetConv
helps route datagrams), handshakes, and encryption all live above or
below this layer.

A control block is single-threaded cooperative: none of its methods may
be called concurrently, and the output callback must not re-enter the
block that invoked it. Independent control blocks are unrelated and may
run on separate goroutines.

Typical usage:

	arq := arq.NewARQ(conv, func(p []byte) error {
		_, err := conn.Write(p)
		return err
	})
	arq.SetWndSize(128, 128)
	arq.SetNoDelay(1, 10, 2, 1)

	// reader loop: arq.Input(datagram)
	// timer loop:  arq.Update(now); sleep until arq.Check(now)
	// application: arq.Send(msg) / arq.Recv(buf)

FECEncoder and FECDecoder optionally wrap the emitted datagrams in
Reed-Solomon groups so the substrate can lose whole datagrams without
costing a retransmission round trip.
*/
package arq
