// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package table

import (
	"errors"
	"fmt"
	"net/netip"
	"sort"
	"strconv"
	"sync"

	"github.com/nttcom/pcepio/pkg/packet/pcep"
)

// Segment is one hop of an explicit route: an MPLS label, an SRv6 SID or a
// plain IP hop.
type Segment interface {
	SidString() string
}

func NewSegment(sid string) (seg Segment, err error) {
	if addr, err := netip.ParseAddr(sid); err == nil && addr.Is6() {
		seg = NewSegmentSRv6(addr)
	} else if i, err := strconv.ParseUint(sid, 10, 32); err == nil {
		seg = NewSegmentSRMPLS(uint32(i))
	} else {
		return nil, errors.New("invalid SID")
	}
	return seg, nil
}

type SegmentSRv6 struct {
	Sid netip.Addr
}

func (seg SegmentSRv6) SidString() string {
	return seg.Sid.String()
}

func NewSegmentSRv6(sid netip.Addr) (seg SegmentSRv6) {
	return SegmentSRv6{Sid: sid}
}

type SegmentSRMPLS struct {
	Sid uint32
}

func (seg SegmentSRMPLS) SidString() string {
	return strconv.Itoa(int(seg.Sid))
}

func NewSegmentSRMPLS(sid uint32) (seg SegmentSRMPLS) {
	return SegmentSRMPLS{Sid: sid}
}

// SegmentHop is a strict or loose IP hop of an RSVP-TE style route.
type SegmentHop struct {
	Addr netip.Addr
}

func (seg SegmentHop) SidString() string {
	return seg.Addr.String()
}

// SegmentList converts route subobjects into segments, skipping the kinds
// that carry no hop.
func SegmentList(subobjects []pcep.Subobject) []Segment {
	var segs []Segment
	for _, s := range subobjects {
		switch s := s.(type) {
		case *pcep.SREROSubobject:
			if s.SFlag {
				if addr, ok := s.NodeAddr(); ok {
					segs = append(segs, SegmentHop{Addr: addr})
				}
				continue
			}
			if s.MFlag {
				segs = append(segs, NewSegmentSRMPLS(s.Label()))
			} else {
				segs = append(segs, NewSegmentSRMPLS(s.SID))
			}
		case *pcep.SRv6Subobject:
			if !s.SFlag {
				segs = append(segs, NewSegmentSRv6(s.SID))
			}
		case *pcep.IPv4PrefixSubobject:
			segs = append(segs, SegmentHop{Addr: s.Address})
		case *pcep.IPv6PrefixSubobject:
			segs = append(segs, SegmentHop{Addr: s.Address})
		case *pcep.UnnumberedSubobject:
			segs = append(segs, SegmentHop{Addr: s.RouterID})
		}
	}
	return segs
}

type LspState int

const (
	LSP_DOWN LspState = iota
	LSP_UP
	LSP_ACTIVE
	LSP_GOING_DOWN
	LSP_GOING_UP
	LSP_UNKNOWN
)

func (s LspState) String() string {
	if s < LSP_UNKNOWN {
		return pcep.LSPOperationalState(s).String()
	}
	return "UNKNOWN"
}

type Lsp struct {
	PlspID      uint32
	Name        string
	SrcAddr     netip.Addr
	DstAddr     netip.Addr
	LspID       uint16
	State       LspState
	Delegated   bool
	SegmentList []Segment
	Reported    []Segment // RRO
	Bandwidth   float32
	Pst         pcep.Pst
}

// LspRequest is a PCUpd or PCInitiate still waiting for its PCRpt.
type LspRequest struct {
	SrpID       uint32
	PlspID      uint32 // zero for an initiate
	Name        string
	Remove      bool
	SegmentList []Segment
}

// LspTable mirrors the LSP database of a PCC from the stateful messages
// exchanged with it.
type LspTable struct {
	mu       sync.RWMutex
	lsps     map[uint32]*Lsp
	requests map[uint32]*LspRequest
	isSynced bool
}

func NewLspTable() *LspTable {
	return &LspTable{
		lsps:     make(map[uint32]*Lsp),
		requests: make(map[uint32]*LspRequest),
	}
}

// HandleMessage applies a stateful message. Other message types are ignored.
func (t *LspTable) HandleMessage(message pcep.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch m := message.(type) {
	case *pcep.PCRptMessage:
		for _, sr := range m.StateReports {
			t.handleReport(sr)
		}
	case *pcep.PCUpdMessage:
		for _, req := range m.Requests {
			if req.LSPObject.PLSPID == 0 {
				return fmt.Errorf("PCUpd for SRP-ID %d has PLSP-ID 0", req.SRPObject.SRPID)
			}
			t.addRequest(req.SRPObject, req.LSPObject, req.EROObject)
		}
	case *pcep.PCInitiateMessage:
		for _, req := range m.Requests {
			t.addRequest(req.SRPObject, req.LSPObject, req.EROObject)
		}
	}
	return nil
}

func (t *LspTable) addRequest(srp *pcep.SRPObject, lsp *pcep.LSPObject, ero *pcep.EROObject) {
	name, _ := lsp.SymbolicName()
	req := &LspRequest{
		SrpID:  srp.SRPID,
		PlspID: lsp.PLSPID,
		Name:   name,
		Remove: srp.RFlag,
	}
	if ero != nil {
		req.SegmentList = SegmentList(ero.Subobjects)
	}
	t.requests[srp.SRPID] = req
}

func (t *LspTable) handleReport(sr pcep.StateReport) {
	lsp := sr.LSPObject
	if sr.SRPObject != nil && sr.SRPObject.SRPID != 0 {
		// response to a request from the PCE
		delete(t.requests, sr.SRPObject.SRPID)
	}

	switch {
	case lsp.SFlag:
		t.register(sr)
	case lsp.PLSPID == 0:
		// end of synchronization marker
		t.isSynced = true
	case lsp.RFlag:
		t.remove(sr)
	default:
		t.register(sr)
	}
}

func lspIdentifiers(lsp *pcep.LSPObject) (lspID uint16) {
	for _, tlv := range lsp.TLVs {
		switch tlv := tlv.(type) {
		case *pcep.IPv4LSPIdentifiers:
			return tlv.LSPID
		case *pcep.IPv6LSPIdentifiers:
			return tlv.LSPID
		}
	}
	return 0
}

func (t *LspTable) register(sr pcep.StateReport) {
	lsp := sr.LSPObject
	lspID := lspIdentifiers(lsp)

	p, ok := t.lsps[lsp.PLSPID]
	if !ok {
		p = &Lsp{PlspID: lsp.PLSPID}
		t.lsps[lsp.PLSPID] = p
	} else if lspID < p.LspID {
		// If the LSP ID is old, it is not the latest data update.
		return
	}

	p.LspID = lspID
	if name, ok := lsp.SymbolicName(); ok {
		p.Name = name
	}
	if src, dst, ok := lsp.Endpoints(); ok {
		p.SrcAddr, p.DstAddr = src, dst
	}
	p.State = LspState(lsp.OFlag)
	if p.State > LSP_UNKNOWN {
		p.State = LSP_UNKNOWN
	}
	p.Delegated = lsp.DFlag
	if sr.SRPObject != nil {
		p.Pst = sr.SRPObject.PathSetupType()
	}
	if sr.EROObject != nil {
		p.SegmentList = SegmentList(sr.EROObject.Subobjects)
	}
	if sr.RROObject != nil {
		p.Reported = SegmentList(sr.RROObject.Subobjects)
	}
	for _, bw := range sr.BandwidthObjects {
		p.Bandwidth = bw.Value()
	}
}

func (t *LspTable) remove(sr pcep.StateReport) {
	lsp := sr.LSPObject
	if p, ok := t.lsps[lsp.PLSPID]; ok && p.LspID <= lspIdentifiers(lsp) {
		delete(t.lsps, lsp.PLSPID)
	}
}

func (t *LspTable) Lsp(plspID uint32) (Lsp, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.lsps[plspID]
	if !ok {
		return Lsp{}, false
	}
	return *p, true
}

// SearchPlspID returns the PLSP-ID of the LSP with the given name.
func (t *LspTable) SearchPlspID(name string) (uint32, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for id, p := range t.lsps {
		if p.Name == name {
			return id, true
		}
	}
	return 0, false
}

// List returns a snapshot of the table ordered by PLSP-ID.
func (t *LspTable) List() []Lsp {
	t.mu.RLock()
	defer t.mu.RUnlock()

	list := make([]Lsp, 0, len(t.lsps))
	for _, p := range t.lsps {
		list = append(list, *p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].PlspID < list[j].PlspID })
	return list
}

// PendingRequests returns the requests not yet answered, ordered by SRP-ID.
func (t *LspTable) PendingRequests() []LspRequest {
	t.mu.RLock()
	defer t.mu.RUnlock()

	list := make([]LspRequest, 0, len(t.requests))
	for _, r := range t.requests {
		list = append(list, *r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SrpID < list[j].SrpID })
	return list
}

func (t *LspTable) Synced() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.isSynced
}
