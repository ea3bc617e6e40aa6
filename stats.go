package arq

import "sync/atomic"

// Stats carries per-control-block transport counters. Fields are updated
// with atomic adds on the protocol path; read a consistent copy with
// Snapshot.
type Stats struct {
	OutDatagrams   uint64 // datagrams handed to the output callback
	OutBytes       uint64
	InDatagrams    uint64 // datagrams of at least header size fed to Input, rejected ones included
	InBytes        uint64
	OutSegs        uint64 // PUSH segments emitted, retransmissions included
	InSegs         uint64 // PUSH segments ingested
	OutACKs        uint64
	InACKs         uint64
	TimeoutRetrans uint64
	FastRetrans    uint64
	ProbesSent     uint64
	OutErrors      uint64 // output callback returned an error
}

func newStats() *Stats {
	return &Stats{}
}

func (s *Stats) Snapshot() Stats {
	return Stats{
		OutDatagrams:   atomic.LoadUint64(&s.OutDatagrams),
		OutBytes:       atomic.LoadUint64(&s.OutBytes),
		InDatagrams:    atomic.LoadUint64(&s.InDatagrams),
		InBytes:        atomic.LoadUint64(&s.InBytes),
		OutSegs:        atomic.LoadUint64(&s.OutSegs),
		InSegs:         atomic.LoadUint64(&s.InSegs),
		OutACKs:        atomic.LoadUint64(&s.OutACKs),
		InACKs:         atomic.LoadUint64(&s.InACKs),
		TimeoutRetrans: atomic.LoadUint64(&s.TimeoutRetrans),
		FastRetrans:    atomic.LoadUint64(&s.FastRetrans),
		ProbesSent:     atomic.LoadUint64(&s.ProbesSent),
		OutErrors:      atomic.LoadUint64(&s.OutErrors),
	}
}
