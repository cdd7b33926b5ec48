// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

// Package capture extracts PCEP messages from pcap and pcapng files.
package capture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"time"

	"github.com/cespare/xxhash"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/nttcom/pcepio/internal/config"
	"github.com/nttcom/pcepio/pkg/packet/pcep"
	"go.uber.org/zap"
)

var pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

// Record is one PCEP message found in a capture. Message is nil when the
// bytes failed to decode; Err tells why.
type Record struct {
	Timestamp time.Time
	Src       netip.AddrPort
	Dst       netip.AddrPort
	Raw       []byte
	Digest    uint64
	Message   pcep.Message
	Err       error
}

// Stats summarizes a capture.
type Stats struct {
	Packets      int
	Messages     int
	DecodeErrors int
	Gaps         int
	Evicted      int
	ByType       map[pcep.MessageType]int
	Digests      map[uint64]int
}

// Distinct returns the number of distinct message encodings seen.
func (s *Stats) Distinct() int {
	return len(s.Digests)
}

type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

type Reader struct {
	port   layers.TCPPort
	flows  *flowTable
	logger *zap.Logger
	stats  Stats

	eth    layers.Ethernet
	dot1q  layers.Dot1Q
	sll    layers.LinuxSLL
	lo     layers.Loopback
	ip4    layers.IPv4
	ip6    layers.IPv6
	tcp    layers.TCP
	parser *gopacket.DecodingLayerParser
}

func NewReader(cfg config.Capture, logger *zap.Logger) (*Reader, error) {
	if cfg.MaxFlows <= 0 {
		cfg.MaxFlows = config.DefaultMaxFlows
	}
	if cfg.Port == 0 {
		cfg.Port = PCEPPort
	}
	flows, err := newFlowTable(cfg.MaxFlows)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		port:   layers.TCPPort(cfg.Port),
		flows:  flows,
		logger: logger,
		stats: Stats{
			ByType:  make(map[pcep.MessageType]int),
			Digests: make(map[uint64]int),
		},
	}
	r.setFirstLayer(layers.LayerTypeEthernet)
	return r, nil
}

func (r *Reader) setFirstLayer(first gopacket.LayerType) {
	r.parser = gopacket.NewDecodingLayerParser(first, &r.eth, &r.dot1q, &r.sll, &r.lo, &r.ip4, &r.ip6, &r.tcp)
	r.parser.IgnoreUnsupported = true
}

// Stats returns the counters accumulated so far.
func (r *Reader) Stats() Stats {
	s := r.stats
	s.Gaps = r.flows.gaps
	s.Evicted = r.flows.evicted
	return s
}

// ReadFile reads a pcap or pcapng file and calls fn for every message.
func (r *Reader) ReadFile(path string, fn func(Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return r.Read(f, fn)
}

// Read detects the capture format from its magic number.
func (r *Reader) Read(src io.Reader, fn func(Record) error) error {
	br := bufio.NewReader(src)
	magic, err := br.Peek(4)
	if err != nil {
		return fmt.Errorf("failed to read capture header: %w", err)
	}

	var pr packetReader
	if bytes.Equal(magic, pcapngMagic) {
		pr, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		pr, err = pcapgo.NewReader(br)
	}
	if err != nil {
		return fmt.Errorf("failed to open capture: %w", err)
	}
	return r.readPackets(pr, fn)
}

func (r *Reader) readPackets(pr packetReader, fn func(Record) error) error {
	first, err := firstLayer(pr.LinkType())
	if err != nil {
		return err
	}
	r.setFirstLayer(first)

	for {
		data, ci, err := pr.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read packet %d: %w", r.stats.Packets+1, err)
		}
		r.stats.Packets++
		if err := r.HandlePacket(data, ci, fn); err != nil {
			return err
		}
	}
}

func firstLayer(linkType layers.LinkType) (gopacket.LayerType, error) {
	switch linkType {
	case layers.LinkTypeEthernet:
		return layers.LayerTypeEthernet, nil
	case layers.LinkTypeLinuxSLL:
		return layers.LayerTypeLinuxSLL, nil
	case layers.LinkTypeNull, layers.LinkTypeLoop:
		return layers.LayerTypeLoopback, nil
	case layers.LinkTypeRaw, layers.LinkTypeIPv4:
		return layers.LayerTypeIPv4, nil
	case layers.LinkTypeIPv6:
		return layers.LayerTypeIPv6, nil
	}
	return gopacket.LayerTypeZero, fmt.Errorf("unsupported link type %s", linkType)
}

// HandlePacket decodes one captured frame using the link type of the last
// Read, Ethernet before any.
func (r *Reader) HandlePacket(data []byte, ci gopacket.CaptureInfo, fn func(Record) error) error {
	var decoded []gopacket.LayerType
	if err := r.parser.DecodeLayers(data, &decoded); err != nil {
		r.logger.Debug("skip undecodable packet", zap.Int("packet", r.stats.Packets), zap.Error(err))
		return nil
	}

	var netFlow gopacket.Flow
	var src, dst netip.Addr
	hasTCP := false
	for _, lt := range decoded {
		switch lt {
		case layers.LayerTypeIPv4:
			netFlow = r.ip4.NetworkFlow()
			src, _ = netip.AddrFromSlice(r.ip4.SrcIP.To4())
			dst, _ = netip.AddrFromSlice(r.ip4.DstIP.To4())
		case layers.LayerTypeIPv6:
			netFlow = r.ip6.NetworkFlow()
			src, _ = netip.AddrFromSlice(r.ip6.SrcIP)
			dst, _ = netip.AddrFromSlice(r.ip6.DstIP)
		case layers.LayerTypeTCP:
			hasTCP = true
		}
	}
	if !hasTCP || (r.tcp.SrcPort != r.port && r.tcp.DstPort != r.port) {
		return nil
	}

	key := flowKey{net: netFlow, transport: r.tcp.TransportFlow()}
	messages, err := r.flows.push(key, &r.tcp)
	if err != nil {
		r.logger.Warn("lost PCEP framing", zap.Stringer("flow", netFlow), zap.Error(err))
	}

	for _, raw := range messages {
		rec := Record{
			Timestamp: ci.Timestamp,
			Src:       netip.AddrPortFrom(src, uint16(r.tcp.SrcPort)),
			Dst:       netip.AddrPortFrom(dst, uint16(r.tcp.DstPort)),
			Raw:       raw,
			Digest:    xxhash.Sum64(raw),
		}

		var layer PCEP
		if rec.Err = layer.DecodeFromBytes(raw, gopacket.NilDecodeFeedback); rec.Err == nil {
			rec.Message = layer.Message
			r.stats.ByType[rec.Message.MessageType()]++
		} else {
			r.stats.DecodeErrors++
			r.logger.Debug("failed to decode PCEP message", zap.Stringer("src", rec.Src), zap.Error(rec.Err))
		}
		r.stats.Messages++
		r.stats.Digests[rec.Digest]++

		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}
