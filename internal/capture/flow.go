// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package capture

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	lru "github.com/hashicorp/golang-lru"
	"github.com/nttcom/pcepio/pkg/packet/pcep"
)

type flowKey struct {
	net       gopacket.Flow
	transport gopacket.Flow
}

// flowBuffer holds the bytes of one TCP direction that do not yet form a
// whole PCEP message.
type flowBuffer struct {
	buf      []byte
	nextSeq  uint32
	seqKnown bool
}

// flowTable reassembles TCP streams in capture order. The number of tracked
// directions is bounded; the least recently used one is dropped first.
type flowTable struct {
	cache   *lru.Cache
	evicted int
	gaps    int
}

func newFlowTable(maxFlows int) (*flowTable, error) {
	cache, err := lru.New(maxFlows)
	if err != nil {
		return nil, err
	}
	return &flowTable{cache: cache}, nil
}

// push appends the segment to its flow and returns every complete message.
// Retransmitted bytes are skipped; after a gap the flow restarts at the
// current segment.
func (t *flowTable) push(key flowKey, tcp *layers.TCP) (messages [][]byte, err error) {
	if tcp.RST {
		t.cache.Remove(key)
		return nil, nil
	}

	var fb *flowBuffer
	if v, ok := t.cache.Get(key); ok {
		fb = v.(*flowBuffer)
	} else {
		fb = &flowBuffer{}
		if t.cache.Add(key, fb) {
			t.evicted++
		}
	}

	seq := tcp.Seq
	if tcp.SYN {
		seq++
	}
	payload := tcp.Payload

	switch {
	case !fb.seqKnown:
		fb.seqKnown = true
	case seq == fb.nextSeq:
	case seqBefore(seq, fb.nextSeq):
		overlap := fb.nextSeq - seq
		if int(overlap) >= len(payload) {
			payload = nil
		} else {
			payload = payload[overlap:]
		}
		seq = fb.nextSeq
	default:
		t.gaps++
		fb.buf = nil
	}
	fb.nextSeq = seq + uint32(len(payload))
	fb.buf = append(fb.buf, payload...)

	for len(fb.buf) > 0 {
		advance, token, splitErr := pcep.SplitMessage(fb.buf, false)
		if splitErr != nil {
			fb.buf = nil
			err = splitErr
			break
		}
		if token == nil {
			break
		}
		messages = append(messages, append([]byte(nil), token...))
		fb.buf = fb.buf[advance:]
	}
	if len(fb.buf) == 0 {
		fb.buf = nil
	}

	if tcp.FIN {
		t.cache.Remove(key)
	}
	return messages, err
}

func (t *flowTable) len() int {
	return t.cache.Len()
}

// seqBefore compares TCP sequence numbers modulo 2^32.
func seqBefore(a, b uint32) bool {
	return int32(a-b) < 0
}
